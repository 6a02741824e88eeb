// Package jsontree models a parsed JSON document as a lazily rendered,
// path-addressable tree.
//
// A Value is an immutable sum type over the six JSON kinds. Object members
// keep their input order, and duplicate keys are kept exactly as the parser
// produced them. The rendering side (Model, States, Row) never mutates a
// Value: editing the source text produces a new Value and a new Model.
package jsontree

import (
	"fmt"
	"strconv"

	"github.com/valyala/fastjson"
)

// Kind identifies the variant held by a Value
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON type name of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a parsed JSON value. The zero Value is null.
type Value struct {
	kind    Kind
	b       bool
	s       string // string contents, or the source text of a number
	items   []Value
	members []Member
}

// Member is a single key/value pair of an object
type Member struct {
	Key   string
	Value Value
}

// Null returns the JSON null value
func Null() Value { return Value{} }

// Bool returns a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a number value that renders as text. The text is not validated.
func Number(text string) Value { return Value{kind: KindNumber, s: text} }

// Int is a convenience for Number(strconv.Itoa(n))
func Int(n int) Value { return Number(strconv.Itoa(n)) }

// String returns a string value
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns an array value holding items in order
func Array(items ...Value) Value {
	return Value{kind: KindArray, items: items}
}

// Object returns an object value holding members in order
func Object(members ...Member) Value {
	return Value{kind: KindObject, members: members}
}

// Field builds a Member
func Field(key string, v Value) Member {
	return Member{Key: key, Value: v}
}

// Kind returns the variant of v
func (v Value) Kind() Kind { return v.kind }

// IsContainer reports whether v is an array or an object. Null is a scalar.
func (v Value) IsContainer() bool {
	return v.kind == KindArray || v.kind == KindObject
}

// Len returns the number of children of a container, 0 for scalars
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// BoolValue returns the boolean payload
func (v Value) BoolValue() bool { return v.b }

// Text returns the string payload of a string, or the source text of a number
func (v Value) Text() string { return v.s }

// Float parses the number text as float64
func (v Value) Float() (float64, error) {
	if v.kind != KindNumber {
		return 0, fmt.Errorf("value is %s, not number", v.kind)
	}
	return strconv.ParseFloat(v.s, 64)
}

// Items returns the elements of an array
func (v Value) Items() []Value { return v.items }

// Members returns the members of an object in document order
func (v Value) Members() []Member { return v.members }

// Index returns the i-th element of an array
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// Get returns the first member named key
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Interface converts v into plain Go values: nil, bool, float64 or int64,
// string, []any and map[string]any. Member order and duplicates are lost;
// the last duplicate wins.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if n, err := strconv.ParseInt(v.s, 10, 64); err == nil {
			return n
		}
		f, _ := strconv.ParseFloat(v.s, 64)
		return f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// ParseError is returned by Parse for malformed input
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return "invalid JSON: " + e.Message
}

// Parse parses text into a Value. Nesting deeper than fastjson.MaxDepth is
// rejected by the parser, which also bounds the recursion of the renderer.
func Parse(text string) (Value, error) {
	var p fastjson.Parser
	fv, err := p.Parse(text)
	if err != nil {
		return Value{}, &ParseError{Message: err.Error()}
	}
	return fromFast(fv), nil
}

// fromFast copies a fastjson value. The parser reuses its buffers, so
// every string is copied out before the parser goes away.
func fromFast(fv *fastjson.Value) Value {
	switch fv.Type() {
	case fastjson.TypeTrue:
		return Bool(true)
	case fastjson.TypeFalse:
		return Bool(false)
	case fastjson.TypeNumber:
		return Number(string(fv.MarshalTo(nil)))
	case fastjson.TypeString:
		return String(string(fv.GetStringBytes()))
	case fastjson.TypeArray:
		arr := fv.GetArray()
		items := make([]Value, len(arr))
		for i, item := range arr {
			items[i] = fromFast(item)
		}
		return Array(items...)
	case fastjson.TypeObject:
		obj := fv.GetObject()
		members := make([]Member, 0, obj.Len())
		obj.Visit(func(key []byte, item *fastjson.Value) {
			members = append(members, Member{Key: string(key), Value: fromFast(item)})
		})
		return Object(members...)
	default:
		return Null()
	}
}
