// Package jsonpath evaluates JSONPath expressions against decoded event payloads
package jsonpath

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ohler55/ojg/jp"
	"github.com/shopspring/decimal"
)

// Kind is the kind of a primitive value
type Kind int

const (
	KindString Kind = iota + 1
	KindNumber
)

// Primitive is a scalar extracted from a JSON payload
type Primitive struct {
	Kind  Kind
	Value string
}

// String returns the value rendered as a string
func (p Primitive) String() string {
	return p.Value
}

// Decimal returns the value as a decimal, if it can be parsed as one
func (p Primitive) Decimal() (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(p.Value)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Path is a compiled path expression
type Path struct {
	raw  string
	expr jp.Expr
}

// Compile parses a JSONPath expression such as $.token_metadata.token.vec[0].inner
func Compile(path string) (*Path, error) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse path %q: %w", path, err)
	}
	return &Path{raw: path, expr: expr}, nil
}

// MustCompile is like Compile but panics on an invalid path
func MustCompile(path string) *Path {
	p, err := Compile(path)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source expression
func (p *Path) String() string {
	return p.raw
}

// Extract returns the first scalar matched by the path.
// Missing keys, out-of-range indexes and non-scalar matches yield false.
func (p *Path) Extract(v any) (Primitive, bool) {
	if v == nil {
		return Primitive{}, false
	}
	for _, match := range p.expr.Get(v) {
		if prim, ok := toPrimitive(match); ok {
			return prim, true
		}
	}
	return Primitive{}, false
}

// Extract compiles the path and extracts the first scalar from v
func Extract(v any, path string) (Primitive, bool) {
	p, err := Compile(path)
	if err != nil {
		return Primitive{}, false
	}
	return p.Extract(v)
}

// Parse decodes a JSON document keeping numbers exact
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

func toPrimitive(v any) (Primitive, bool) {
	switch t := v.(type) {
	case string:
		return Primitive{Kind: KindString, Value: t}, true
	case json.Number:
		return Primitive{Kind: KindNumber, Value: t.String()}, true
	case bool:
		return Primitive{Kind: KindString, Value: strconv.FormatBool(t)}, true
	case int64:
		return Primitive{Kind: KindNumber, Value: strconv.FormatInt(t, 10)}, true
	case int:
		return Primitive{Kind: KindNumber, Value: strconv.Itoa(t)}, true
	case float64:
		return Primitive{Kind: KindNumber, Value: strconv.FormatFloat(t, 'f', -1, 64)}, true
	default:
		return Primitive{}, false
	}
}
