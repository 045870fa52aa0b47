package bencode

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// CBOR bridge. Encoding uses RFC 8949 Core Deterministic options so
// that, like Encode, structurally equal trees produce byte-identical
// CBOR — the two formats' canonical forms line up.

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	dm, err := (cbor.DecOptions{}).DecMode()
	if err != nil {
		panic(err)
	}
	cborEnc, cborDec = em, dm
}

// ToCBOR transcodes a Value tree to deterministic CBOR bytes.
func ToCBOR(v *Value) ([]byte, error) {
	g, err := toGoValue(v)
	if err != nil {
		return nil, err
	}
	return cborEnc.Marshal(g)
}

// FromCBOR transcodes CBOR bytes to a Value tree. CBOR values outside
// the bencode data model (floats, booleans, null, tags) are rejected.
func FromCBOR(data []byte) (*Value, error) {
	var v interface{}
	if err := cborDec.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("CBOR parse error: %w", err)
	}
	return fromGoValue(v)
}
