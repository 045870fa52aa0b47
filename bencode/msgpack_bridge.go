package bencode

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// msgpack bridge. Unlike CBOR there is no deterministic encoding mode
// in the library, so ToMsgpack output is stable only for trees without
// dictionaries of two or more keys; use ToCBOR when byte-identical
// output matters.

// ToMsgpack transcodes a Value tree to msgpack bytes.
func ToMsgpack(v *Value) ([]byte, error) {
	g, err := toGoValue(v)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(g)
}

// FromMsgpack transcodes msgpack bytes to a Value tree. Values outside
// the bencode data model (floats, booleans, nil) are rejected.
func FromMsgpack(data []byte) (*Value, error) {
	var v interface{}
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("msgpack parse error: %w", err)
	}
	return fromGoValue(v)
}
