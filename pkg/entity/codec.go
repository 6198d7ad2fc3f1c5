package entity

import (
	"net/url"
	"strconv"
	"strings"
)

// FixedFieldNames are the keys EncodeCreateRequest always writes before
// merging content fields.
var FixedFieldNames = []string{"address", "blockchain", "name", "required_fields"}

// EncodeCreateRequest builds the request body for entity create and update
// calls: the fixed keys first, then every content key merged in at the same
// nesting level. The merge is last-write-wins, so a content field named after
// a fixed key overwrites it. That mirrors the upstream wire behavior and is
// kept deliberately.
func EncodeCreateRequest(e Entity) map[string]any {
	required := e.RequiredFields
	if required == nil {
		required = []FieldMap{}
	}
	body := map[string]any{
		"address":         e.Address,
		"blockchain":      e.Blockchain,
		"name":            e.Name,
		"required_fields": required,
	}
	for k, v := range e.Content {
		body[k] = v
	}
	return body
}

// DecodeResponse maps a wire entity back into the domain shape. The inverse
// of the encode direction: fixed fields are pulled out and secondary_fields
// becomes Content as a nested map, never flattened. No validation is
// performed; absent wire fields stay zero-valued.
func DecodeResponse(wire EntityResponse) Entity {
	return Entity{
		Address:        wire.Address,
		Blockchain:     wire.Blockchain,
		Name:           wire.Name,
		RequiredFields: wire.RequiredFields,
		Content:        wire.SecondaryFields,
	}
}

// DecodeRecord decodes a wire entity together with its server-assigned
// identifiers.
func DecodeRecord(wire EntityResponse) EntityRecord {
	return EntityRecord{
		EntityID:     wire.EntityID,
		CollectionID: wire.CollectionID,
		Entity:       DecodeResponse(wire),
	}
}

func decodeRecords(wires []EntityResponse) []EntityRecord {
	records := make([]EntityRecord, 0, len(wires))
	for _, w := range wires {
		records = append(records, DecodeRecord(w))
	}
	return records
}

// BuildSearchQuery renders search terms into the q parameter value. Each
// whole "required_field=<term>" or "secondary_field=<term>" segment is
// URL-escaped and the segments are joined with a literal '+'. This is not
// standard multi-value query syntax; the exact joining scheme is required for
// wire compatibility with the Entity API. Spaces inside a term encode as %20,
// never '+', so the segment separator stays unambiguous.
func BuildSearchQuery(requiredFields, secondaryFields []string) string {
	segments := make([]string, 0, len(requiredFields)+len(secondaryFields))
	for _, term := range requiredFields {
		segments = append(segments, escapeSegment("required_field="+term))
	}
	for _, term := range secondaryFields {
		segments = append(segments, escapeSegment("secondary_field="+term))
	}
	return strings.Join(segments, "+")
}

func escapeSegment(segment string) string {
	return strings.ReplaceAll(url.QueryEscape(segment), "+", "%20")
}

// ParseSearchQuery is the inverse of BuildSearchQuery, used by the sandbox
// server: the raw q value is split on literal '+' and each segment is
// unescaped and sorted into required and secondary terms.
func ParseSearchQuery(rawQ string) (requiredFields, secondaryFields []string, err error) {
	if rawQ == "" {
		return nil, nil, nil
	}
	for _, segment := range strings.Split(rawQ, "+") {
		decoded, err := url.QueryUnescape(segment)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case strings.HasPrefix(decoded, "required_field="):
			requiredFields = append(requiredFields, strings.TrimPrefix(decoded, "required_field="))
		case strings.HasPrefix(decoded, "secondary_field="):
			secondaryFields = append(secondaryFields, strings.TrimPrefix(decoded, "secondary_field="))
		}
	}
	return requiredFields, secondaryFields, nil
}

func searchRawQuery(q string, limit, offset int) string {
	return "q=" + q + "&limit=" + strconv.Itoa(limit) + "&offset=" + strconv.Itoa(offset)
}
