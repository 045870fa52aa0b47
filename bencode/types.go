package bencode

import "fmt"

// Type represents bencode value types.
type Type uint8

const (
	TypeString Type = iota
	TypeInteger
	TypeList
	TypeDict
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeList:
		return "list"
	case TypeDict:
		return "dict"
	default:
		return "unknown"
	}
}

// Value represents a bencode value. A Value is one of exactly four
// variants: byte string, integer, list, or dictionary. Trees are
// acyclic by construction; each Value exclusively owns its children.
type Value struct {
	typ Type

	// Scalar values (only one valid based on typ)
	strVal []byte
	intVal int64

	// Container values
	listVal []*Value
	dictVal []DictEntry
}

// DictEntry represents a key-value pair in a dictionary. Keys are raw
// bytes held in a Go string; string comparison is bytewise, which is
// exactly the canonical key order.
type DictEntry struct {
	Key   string
	Value *Value
}

// ============================================================
// Constructors
// ============================================================

// String creates a byte string value from a Go string.
func String(s string) *Value {
	return &Value{typ: TypeString, strVal: []byte(s)}
}

// Bytes creates a byte string value. The slice is not copied.
func Bytes(b []byte) *Value {
	return &Value{typ: TypeString, strVal: b}
}

// Integer creates an integer value.
func Integer(n int64) *Value {
	return &Value{typ: TypeInteger, intVal: n}
}

// List creates a list value.
func List(values ...*Value) *Value {
	return &Value{typ: TypeList, listVal: values}
}

// Dict creates a dictionary value from key-value pairs. Entries keep
// their construction order in memory; Encode sorts on output.
func Dict(entries ...DictEntry) *Value {
	return &Value{typ: TypeDict, dictVal: entries}
}

// Entry creates a DictEntry for use in Dict construction.
func Entry(key string, value *Value) DictEntry {
	return DictEntry{Key: key, Value: value}
}

// ============================================================
// Accessors
// ============================================================

// Type returns the value type.
func (v *Value) Type() Type {
	if v == nil {
		return TypeString
	}
	return v.typ
}

// AsBytes returns the byte string content.
func (v *Value) AsBytes() ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("bencode: nil value")
	}
	if v.typ != TypeString {
		return nil, fmt.Errorf("bencode: expected string, got %s", v.typ)
	}
	return v.strVal, nil
}

// AsString returns the byte string content as a Go string.
func (v *Value) AsString() (string, error) {
	b, err := v.AsBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// AsInt returns the integer value.
func (v *Value) AsInt() (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("bencode: nil value")
	}
	if v.typ != TypeInteger {
		return 0, fmt.Errorf("bencode: expected integer, got %s", v.typ)
	}
	return v.intVal, nil
}

// AsList returns the list elements.
func (v *Value) AsList() ([]*Value, error) {
	if v == nil {
		return nil, fmt.Errorf("bencode: nil value")
	}
	if v.typ != TypeList {
		return nil, fmt.Errorf("bencode: expected list, got %s", v.typ)
	}
	return v.listVal, nil
}

// AsDict returns the dictionary entries in their in-memory order.
func (v *Value) AsDict() ([]DictEntry, error) {
	if v == nil {
		return nil, fmt.Errorf("bencode: nil value")
	}
	if v.typ != TypeDict {
		return nil, fmt.Errorf("bencode: expected dict, got %s", v.typ)
	}
	return v.dictVal, nil
}

// Len returns the length of a string, list, or dictionary.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.typ {
	case TypeString:
		return len(v.strVal)
	case TypeList:
		return len(v.listVal)
	case TypeDict:
		return len(v.dictVal)
	default:
		return 0
	}
}

// Get returns a dictionary value by key, or nil if absent.
func (v *Value) Get(key string) *Value {
	if v == nil || v.typ != TypeDict {
		return nil
	}
	for _, e := range v.dictVal {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Index returns the i-th element of a list.
func (v *Value) Index(i int) (*Value, error) {
	if v == nil || v.typ != TypeList {
		return nil, fmt.Errorf("bencode: not a list")
	}
	if i < 0 || i >= len(v.listVal) {
		return nil, fmt.Errorf("bencode: index %d out of bounds (len=%d)", i, len(v.listVal))
	}
	return v.listVal[i], nil
}

// ============================================================
// Construction helpers
// ============================================================

// Set sets a dictionary entry, replacing an existing key.
func (v *Value) Set(key string, val *Value) {
	if v.typ != TypeDict {
		panic("bencode: cannot set on non-dict")
	}
	for i := range v.dictVal {
		if v.dictVal[i].Key == key {
			v.dictVal[i].Value = val
			return
		}
	}
	v.dictVal = append(v.dictVal, DictEntry{Key: key, Value: val})
}

// Append adds a value to a list.
func (v *Value) Append(val *Value) {
	if v.typ != TypeList {
		panic("bencode: cannot append to non-list")
	}
	v.listVal = append(v.listVal, val)
}

// ============================================================
// Structural comparison
// ============================================================

// Equal reports whether two values are structurally equal.
// Dictionary entries are compared in canonical key order, so two
// dictionaries built in different insertion orders are equal.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeString:
		return string(v.strVal) == string(other.strVal)
	case TypeInteger:
		return v.intVal == other.intVal
	case TypeList:
		if len(v.listVal) != len(other.listVal) {
			return false
		}
		for i := range v.listVal {
			if !v.listVal[i].Equal(other.listVal[i]) {
				return false
			}
		}
		return true
	case TypeDict:
		a := sortDictEntries(v.dictVal)
		b := sortDictEntries(other.dictVal)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i].Key != b[i].Key || !a[i].Value.Equal(b[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of the value tree.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	out := &Value{typ: v.typ, intVal: v.intVal}
	switch v.typ {
	case TypeString:
		out.strVal = append([]byte(nil), v.strVal...)
	case TypeList:
		out.listVal = make([]*Value, len(v.listVal))
		for i, elem := range v.listVal {
			out.listVal[i] = elem.Clone()
		}
	case TypeDict:
		out.dictVal = make([]DictEntry, len(v.dictVal))
		for i, e := range v.dictVal {
			out.dictVal[i] = DictEntry{Key: e.Key, Value: e.Value.Clone()}
		}
	}
	return out
}
