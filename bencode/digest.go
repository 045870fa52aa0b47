package bencode

import (
	"crypto/sha1"

	"github.com/zeebo/blake3"
)

// Digest returns the BLAKE3-256 digest of the value's canonical
// encoding. Because Encode is canonical, structurally equal trees
// share a digest, making it usable as a content address.
func Digest(v *Value) [32]byte {
	return blake3.Sum256(Encode(v))
}

// DigestHex returns Digest as a lowercase hex string.
func DigestHex(v *Value) string {
	return hashToHex(Digest(v))
}

// Infohash returns the SHA-1 digest of the value's canonical
// encoding. SHA-1 over canonical bencode is the format's historical
// content address and is kept for interoperability; prefer Digest for
// new uses.
func Infohash(v *Value) [20]byte {
	return sha1.Sum(Encode(v))
}

// InfohashHex returns Infohash as a lowercase hex string.
func InfohashHex(v *Value) string {
	h := Infohash(v)
	const hextable = "0123456789abcdef"
	var buf [40]byte
	for i, b := range h {
		buf[i*2] = hextable[b>>4]
		buf[i*2+1] = hextable[b&0x0f]
	}
	return string(buf[:])
}

// hashToHex converts a 32-byte hash to a lowercase hex string.
func hashToHex(h [32]byte) string {
	const hextable = "0123456789abcdef"
	var buf [64]byte
	for i, b := range h {
		buf[i*2] = hextable[b>>4]
		buf[i*2+1] = hextable[b&0x0f]
	}
	return string(buf[:])
}
