package expr

import "strings"

// ValueKind is the type of a Context value.
type ValueKind int

const (
	StringKind ValueKind = iota
	BoolKind
	ListKind
)

// Value is a matrix variable: a string, a boolean, or a sequence of strings.
type Value struct {
	kind ValueKind
	str  string
	b    bool
	list []string
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: StringKind, str: s}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: BoolKind, b: b}
}

// List returns a sequence value.
func List(items ...string) Value {
	return Value{kind: ListKind, list: append([]string(nil), items...)}
}

// Kind returns the value's type.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Items returns the elements of a sequence value, or nil for scalars.
func (v Value) Items() []string {
	if v.kind != ListKind {
		return nil
	}
	return append([]string(nil), v.list...)
}

// String returns the scalar form of the value. Sequences are joined with ", ".
func (v Value) String() string {
	switch v.kind {
	case BoolKind:
		if v.b {
			return "true"
		}
		return "false"
	case ListKind:
		return strings.Join(v.list, ", ")
	default:
		return v.str
	}
}

// Context maps variable names (without the "matrix." prefix) to values.
// It is never modified during evaluation.
type Context map[string]Value

// Lookup returns the value bound to name.
func (c Context) Lookup(name string) (Value, bool) {
	if c == nil {
		return Value{}, false
	}
	v, ok := c[name]
	return v, ok
}
