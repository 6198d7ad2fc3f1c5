package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCreateRequestFlattensContent(t *testing.T) {
	body := EncodeCreateRequest(Entity{
		Address:    "0xabc",
		Blockchain: "ethereum",
		Name:       "Permit2",
		RequiredFields: []FieldMap{
			{"protocol": String("uniswap")},
		},
		Content: FieldMap{
			"deployer": String("uniswap-labs"),
			"verified": Bool(true),
		},
	})

	assert.Equal(t, "0xabc", body["address"])
	assert.Equal(t, "ethereum", body["blockchain"])
	assert.Equal(t, "Permit2", body["name"])
	assert.Equal(t, []FieldMap{{"protocol": String("uniswap")}}, body["required_fields"])
	assert.Equal(t, String("uniswap-labs"), body["deployer"])
	assert.Equal(t, Bool(true), body["verified"])
	assert.NotContains(t, body, "secondary_fields")
}

func TestEncodeCreateRequestContentOverwritesFixedKeys(t *testing.T) {
	body := EncodeCreateRequest(Entity{
		Name: "original",
		Content: FieldMap{
			"name": String("override"),
		},
	})
	assert.Equal(t, String("override"), body["name"])
}

func TestEncodeCreateRequestNilRequiredFields(t *testing.T) {
	body := EncodeCreateRequest(Entity{Address: "0xabc"})
	require.Contains(t, body, "required_fields")
	assert.Equal(t, []FieldMap{}, body["required_fields"])
}

func TestDecodeResponseNestsSecondaryFields(t *testing.T) {
	e := DecodeResponse(EntityResponse{
		EntityID:     "e1",
		CollectionID: "c1",
		Address:      "0xabc",
		Blockchain:   "ethereum",
		Name:         "Permit2",
		RequiredFields: []FieldMap{
			{"protocol": String("uniswap")},
		},
		SecondaryFields: FieldMap{"deployer": String("uniswap-labs")},
	})

	assert.Equal(t, "0xabc", e.Address)
	assert.Equal(t, FieldMap{"deployer": String("uniswap-labs")}, e.Content)
}

func TestBuildSearchQuery(t *testing.T) {
	q := BuildSearchQuery([]string{"a=1"}, []string{"b=2"})
	assert.Equal(t, "required_field%3Da%3D1+secondary_field%3Db%3D2", q)

	assert.Equal(t, "", BuildSearchQuery(nil, nil))

	// A space inside a term must encode as %20; '+' is reserved for joining
	// segments.
	assert.Equal(t, "required_field%3Dname%3DBig%20Token", BuildSearchQuery([]string{"name=Big Token"}, nil))
}

func TestParseSearchQueryInverse(t *testing.T) {
	required := []string{"a=1", "protocol=uniswap", "name=Big Token"}
	secondary := []string{"b=2", "note=two words here"}

	gotRequired, gotSecondary, err := ParseSearchQuery(BuildSearchQuery(required, secondary))
	require.NoError(t, err)
	assert.Equal(t, required, gotRequired)
	assert.Equal(t, secondary, gotSecondary)

	gotRequired, gotSecondary, err = ParseSearchQuery("")
	require.NoError(t, err)
	assert.Nil(t, gotRequired)
	assert.Nil(t, gotSecondary)
}

func TestSearchRawQuery(t *testing.T) {
	raw := searchRawQuery(BuildSearchQuery([]string{"a=1"}, []string{"b=2"}), 10, 0)
	assert.Equal(t, "q=required_field%3Da%3D1+secondary_field%3Db%3D2&limit=10&offset=0", raw)
}
