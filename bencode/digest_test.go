package bencode

import (
	"crypto/sha1"
	"testing"
)

// ============================================================
// Digest Tests
// ============================================================

func TestDigest_InsertionOrderIndependent(t *testing.T) {
	a := Dict(Entry("spam", String("eggs")), Entry("cow", String("moo")))
	b := Dict(Entry("cow", String("moo")), Entry("spam", String("eggs")))

	if Digest(a) != Digest(b) {
		t.Error("digests differ for structurally equal trees")
	}
	if Infohash(a) != Infohash(b) {
		t.Error("infohashes differ for structurally equal trees")
	}
}

func TestDigest_DistinguishesTrees(t *testing.T) {
	a := Dict(Entry("cow", String("moo")))
	b := Dict(Entry("cow", String("boo")))

	if Digest(a) == Digest(b) {
		t.Error("different trees share a digest")
	}
}

func TestInfohash_MatchesCanonicalBytes(t *testing.T) {
	v := Dict(Entry("cow", String("moo")), Entry("spam", String("eggs")))
	want := sha1.Sum([]byte("d3:cow3:moo4:spam4:eggse"))
	if Infohash(v) != want {
		t.Error("infohash does not match SHA-1 of the canonical encoding")
	}
}

func TestDigestHex_Format(t *testing.T) {
	v := String("spam")

	hex := DigestHex(v)
	if len(hex) != 64 {
		t.Errorf("DigestHex length = %d, want 64", len(hex))
	}
	ih := InfohashHex(v)
	if len(ih) != 40 {
		t.Errorf("InfohashHex length = %d, want 40", len(ih))
	}
	for _, s := range []string{hex, ih} {
		for _, c := range s {
			if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
				t.Fatalf("non-hex character %q in %s", c, s)
			}
		}
	}
}
