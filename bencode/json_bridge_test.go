package bencode

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ============================================================
// JSON Bridge Tests
// ============================================================

func TestFromJSON_Basic(t *testing.T) {
	input := `{"cow":"moo","n":42,"list":[1,"two",[3]]}`
	got, err := FromJSON([]byte(input))
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}

	want := Dict(
		Entry("cow", String("moo")),
		Entry("list", List(Integer(1), String("two"), List(Integer(3)))),
		Entry("n", Integer(42)),
	)
	if diff := cmp.Diff(want, got, valueCmp); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestFromJSON_KeysSorted(t *testing.T) {
	got, err := FromJSON([]byte(`{"zebra":1,"apple":2}`))
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	entries, _ := got.AsDict()
	if entries[0].Key != "apple" || entries[1].Key != "zebra" {
		t.Errorf("keys not sorted: %q, %q", entries[0].Key, entries[1].Key)
	}
}

func TestFromJSON_FullInt64Precision(t *testing.T) {
	got, err := FromJSON([]byte("9007199254740993"))
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	n, _ := got.AsInt()
	if n != 9007199254740993 {
		t.Errorf("integer = %d, lost precision", n)
	}
}

func TestFromJSON_Unrepresentable(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"float", "1.5"},
		{"exponent", "1e3"},
		{"bool", "true"},
		{"null", "null"},
		{"nested float", `{"k":[1.5]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromJSON([]byte(tt.input)); err == nil {
				t.Error("FromJSON succeeded, want error")
			}
		})
	}
}

func TestToJSON_Basic(t *testing.T) {
	v := Dict(
		Entry("cow", String("moo")),
		Entry("n", Integer(-7)),
		Entry("list", List(Integer(1), String("two"))),
	)
	got, err := ToJSON(v)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	const want = `{"cow":"moo","list":[1,"two"],"n":-7}`
	if string(got) != want {
		t.Errorf("ToJSON = %s, want %s", got, want)
	}
}

func TestToJSON_BinaryStrict(t *testing.T) {
	v := Bytes([]byte{0xff, 0xfe})
	if _, err := ToJSON(v); err == nil {
		t.Error("strict mode accepted a binary string")
	}
}

func TestJSONBridge_ExtendedRoundTrip(t *testing.T) {
	opts := BridgeOpts{Extended: true}
	v := Dict(
		Entry("name", String("file.bin")),
		Entry("pieces", Bytes([]byte{0xde, 0xad, 0xbe, 0xef})),
	)

	data, err := ToJSONWithOpts(v, opts)
	if err != nil {
		t.Fatalf("ToJSONWithOpts failed: %v", err)
	}
	back, err := FromJSONWithOpts(data, opts)
	if err != nil {
		t.Fatalf("FromJSONWithOpts failed: %v", err)
	}
	if !v.Equal(back) {
		t.Errorf("extended round trip lost data: %s", data)
	}
}

func TestFromJSON_StrictIgnoresMarker(t *testing.T) {
	input := `{"$bencode:b64":"3q2+7w=="}`
	got, err := FromJSON([]byte(input))
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if got.Type() != TypeDict || got.Get("$bencode:b64") == nil {
		t.Error("strict mode should treat marker objects as plain dictionaries")
	}
}
