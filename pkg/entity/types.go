package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Kind enumerates the JSON shapes a field value may take.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
)

// Value is the tagged union stored in entity field maps: a string, a number,
// a boolean, or a list of further values. The zero Value marshals as null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []Value
}

// String wraps a string field value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps a numeric field value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool wraps a boolean field value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// List wraps a list of field values.
func List(vs ...Value) Value { return Value{kind: KindList, list: vs} }

// Kind reports which member of the union is set.
func (v Value) Kind() Kind { return v.kind }

// StringValue returns the string member; ok is false for other kinds.
func (v Value) StringValue() (string, bool) { return v.str, v.kind == KindString }

// NumberValue returns the numeric member; ok is false for other kinds.
func (v Value) NumberValue() (float64, bool) { return v.num, v.kind == KindNumber }

// BoolValue returns the boolean member; ok is false for other kinds.
func (v Value) BoolValue() (bool, bool) { return v.b, v.kind == KindBool }

// ListValue returns the list member; ok is false for other kinds.
func (v Value) ListValue() ([]Value, bool) { return v.list, v.kind == KindList }

// Text renders the value the way it would appear in a search term.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		data, _ := json.Marshal(v)
		return string(data)
	default:
		return ""
	}
}

// Equal reports deep equality of two values.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.b == other.b
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
	}
	return true
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler. Objects are not part of the
// field value union and are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Value{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = String(s)
	case '[':
		var list []Value
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*v = Value{kind: KindList, list: list}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '{':
		return fmt.Errorf("entity: object is not a valid field value")
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return err
		}
		*v = Number(n)
	}
	return nil
}

// FieldMap maps field names to values.
type FieldMap map[string]Value

// Entity is the domain shape of a record: a blockchain address with a label
// plus user-defined required and secondary fields. Server-assigned
// identifiers live on EntityRecord, not here.
type Entity struct {
	Address        string
	Blockchain     string
	Name           string
	RequiredFields []FieldMap
	Content        FieldMap
}

// EntityRecord pairs the server-assigned identifiers with the decoded domain
// entity.
type EntityRecord struct {
	EntityID     string
	CollectionID string
	Entity
}

// Collection is a named group of entities.
type Collection struct {
	CollectionID string
	Name         string
}

// SearchParams configures a Search call. Zero Limit and Offset fall back to
// DefaultSearchLimit and 0; negative values are rejected before any request
// is issued.
type SearchParams struct {
	RequiredFields  []string
	SecondaryFields []string
	Limit           int
	Offset          int
}

// SearchResult is the decoded search response.
type SearchResult struct {
	TotalResults int
	Offset       int
	NextOffset   *int
	MaxScore     float64
	Entities     []EntityRecord
}

// Wire shapes, as returned by the Entity API.

// PingResponse is the /ping payload.
type PingResponse struct {
	Status string `json:"status"`
}

// VersionResponse is the /version payload.
type VersionResponse struct {
	Version string `json:"version"`
}

// EntityCollectionResponse is the wire shape of a collection.
type EntityCollectionResponse struct {
	CollectionID string `json:"collection_id"`
	Name         string `json:"name"`
}

// EntityCollectionsResponse wraps the collection listing.
type EntityCollectionsResponse struct {
	Collections []EntityCollectionResponse `json:"collections"`
}

// EntityResponse is the wire shape of an entity, carrying the identifiers the
// domain model omits.
type EntityResponse struct {
	EntityID        string     `json:"entity_id"`
	CollectionID    string     `json:"collection_id"`
	Address         string     `json:"address,omitempty"`
	Blockchain      string     `json:"blockchain,omitempty"`
	Name            string     `json:"name,omitempty"`
	RequiredFields  []FieldMap `json:"required_fields,omitempty"`
	SecondaryFields FieldMap   `json:"secondary_fields,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// EntitiesResponse wraps an entity listing.
type EntitiesResponse struct {
	Entities []EntityResponse `json:"entities"`
}

// EntitySearchResponse is the wire shape of a search result page.
type EntitySearchResponse struct {
	TotalResults int              `json:"total_results"`
	Offset       int              `json:"offset"`
	NextOffset   *int             `json:"next_offset,omitempty"`
	MaxScore     float64          `json:"max_score"`
	Entities     []EntityResponse `json:"entities"`
}

var (
	// ErrInvalidArgument is returned for client-side rejected arguments, such
	// as a negative search limit or offset.
	ErrInvalidArgument = errors.New("entity: invalid argument")
)
