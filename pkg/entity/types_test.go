package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueMarshalJSON(t *testing.T) {
	cases := []struct {
		value Value
		want  string
	}{
		{String("hello"), `"hello"`},
		{Number(42.5), `42.5`},
		{Bool(true), `true`},
		{List(String("a"), Number(1)), `["a",1]`},
		{List(), `[]`},
		{Value{}, `null`},
	}
	for _, tc := range cases {
		data, err := json.Marshal(tc.value)
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(data))
	}
}

func TestValueUnmarshalJSON(t *testing.T) {
	var fm FieldMap
	err := json.Unmarshal([]byte(`{
		"s": "hello",
		"n": 1.5,
		"b": false,
		"l": ["x", [2, true]],
		"z": null
	}`), &fm)
	require.NoError(t, err)

	assert.True(t, fm["s"].Equal(String("hello")))
	assert.True(t, fm["n"].Equal(Number(1.5)))
	assert.True(t, fm["b"].Equal(Bool(false)))
	assert.True(t, fm["l"].Equal(List(String("x"), List(Number(2), Bool(true)))))
	assert.Equal(t, KindNull, fm["z"].Kind())
}

func TestValueUnmarshalRejectsObjects(t *testing.T) {
	var v Value
	err := json.Unmarshal([]byte(`{"nested": 1}`), &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "object is not a valid field value")
}

func TestValueText(t *testing.T) {
	assert.Equal(t, "hello", String("hello").Text())
	assert.Equal(t, "2", Number(2).Text())
	assert.Equal(t, "2.5", Number(2.5).Text())
	assert.Equal(t, "true", Bool(true).Text())
	assert.Equal(t, "", Value{}.Text())
}

func TestValueEqual(t *testing.T) {
	assert.True(t, List(String("a")).Equal(List(String("a"))))
	assert.False(t, List(String("a")).Equal(List(String("b"))))
	assert.False(t, String("1").Equal(Number(1)))
}
