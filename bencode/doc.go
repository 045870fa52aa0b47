// Package bencode implements the bencode serialization format.
//
// Bencode is a compact, self-delimiting binary encoding for nested
// data. It needs no external schema: every value announces its own
// type and extent at the byte level.
//
// # Data Model
//
// Scalars: byte string (arbitrary raw bytes), 64-bit signed integer
// Containers: list (ordered), dictionary (byte-string keys)
//
// # Wire Grammar
//
//	ByteString:  <length>:<bytes>     4:spam
//	Integer:     i<digits>e           i-10e
//	List:        l<value>*e           l4:spam4:eggse
//	Dictionary:  d(<key><value>)*e    d3:cow3:moo4:spam4:eggse
//
// Dictionary keys must appear in strictly ascending byte order;
// integers and string lengths carry no leading zeros. Decode rejects
// anything else with a typed DecodeError.
//
// # Canonical Form
//
// Encode always produces the canonical byte form: minimal integer
// digits and dictionaries re-sorted by key regardless of construction
// order. Two structurally equal trees therefore encode to identical
// bytes, which is what makes the output safe to hash or compare (see
// Digest and Infohash).
//
// # Bridges
//
// FromJSON/ToJSON, FromCBOR/ToCBOR and FromMsgpack/ToMsgpack convert
// between bencode trees and the neighbouring formats for tooling and
// interop. The bridges are lossless only for values the bencode data
// model can represent.
//
// Decode and Encode are pure functions over their inputs and safe to
// call concurrently on independent values.
package bencode
