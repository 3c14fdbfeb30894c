package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPlaced = `{
	"price": "3400000000",
	"seller": "0x5e2",
	"amount": 1,
	"commission": 12.5,
	"deleted": false,
	"token_metadata": {
		"collection_name": "The Loonies",
		"token": {"vec": [{"inner": "0xabc"}]},
		"empty": {"vec": []}
	},
	"huge": 123456789012345678901234567890
}`

func TestExtract(t *testing.T) {
	doc, err := Parse([]byte(listingPlaced))
	require.NoError(t, err)

	tests := []struct {
		name     string
		path     string
		expected Primitive
		found    bool
	}{
		{"string", "$.price", Primitive{Kind: KindString, Value: "3400000000"}, true},
		{"integer", "$.amount", Primitive{Kind: KindNumber, Value: "1"}, true},
		{"float", "$.commission", Primitive{Kind: KindNumber, Value: "12.5"}, true},
		{"bool", "$.deleted", Primitive{Kind: KindString, Value: "false"}, true},
		{"big integer", "$.huge", Primitive{Kind: KindNumber, Value: "123456789012345678901234567890"}, true},
		{"nested array", "$.token_metadata.token.vec[0].inner", Primitive{Kind: KindString, Value: "0xabc"}, true},
		{"index out of range", "$.token_metadata.empty.vec[0].inner", Primitive{}, false},
		{"missing intermediate", "$.nope.token.vec[0].inner", Primitive{}, false},
		{"object is not scalar", "$.token_metadata.token", Primitive{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.path)
			require.NoError(t, err)

			got, ok := p.Extract(doc)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtract_NilDocument(t *testing.T) {
	_, ok := Extract(nil, "$.price")
	assert.False(t, ok)
}

func TestExtract_InvalidPath(t *testing.T) {
	_, err := Compile("$.price[0")
	assert.Error(t, err)

	_, ok := Extract(map[string]any{"a": "b"}, "$.a[0")
	assert.False(t, ok)
}

func TestPrimitive_Decimal(t *testing.T) {
	d, ok := Primitive{Kind: KindString, Value: "3400000000"}.Decimal()
	assert.True(t, ok)
	assert.Equal(t, "3400000000", d.String())

	_, ok = Primitive{Kind: KindString, Value: "0xabc"}.Decimal()
	assert.False(t, ok)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`{"price": `))
	assert.Error(t, err)

	_, err = Parse([]byte(`{} {}`))
	assert.Error(t, err)
}
