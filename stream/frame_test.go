package stream

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Neumenon/bencode/bencode"
)

func testValue() *bencode.Value {
	return bencode.Dict(
		bencode.Entry("cow", bencode.String("moo")),
		bencode.Entry("n", bencode.Integer(42)),
	)
}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WithWriteCRC(), WithBaseDigest())

	if err := w.WriteValue(7, 1, testValue()); err != nil {
		t.Fatalf("WriteValue failed: %v", err)
	}
	if err := w.WriteValue(7, 2, bencode.List(bencode.Integer(1))); err != nil {
		t.Fatalf("WriteValue failed: %v", err)
	}

	r := NewReader(&buf)

	frame, v, err := r.ReadValue()
	if err != nil {
		t.Fatalf("ReadValue failed: %v", err)
	}
	if frame.SID != 7 || frame.Seq != 1 || frame.Kind != KindValue {
		t.Errorf("frame header = sid=%d seq=%d kind=%s", frame.SID, frame.Seq, frame.Kind)
	}
	if !frame.HasCRC() || !frame.HasBase() {
		t.Error("expected CRC and base digest to be present")
	}
	if !v.Equal(testValue()) {
		t.Error("decoded value does not match written value")
	}

	if _, _, err := r.ReadValue(); err != nil {
		t.Fatalf("second ReadValue failed: %v", err)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestCompressedRoundTrip(t *testing.T) {
	big := bencode.List()
	for i := 0; i < 2000; i++ {
		big.Append(bencode.String("repetitive payload chunk"))
	}
	raw := bencode.Encode(big)

	var buf bytes.Buffer
	w := NewWriter(&buf, WithCompression(), WithWriteCRC())
	if err := w.WriteValue(1, 1, big); err != nil {
		t.Fatalf("WriteValue failed: %v", err)
	}
	defer w.Close()

	if buf.Len() >= len(raw) {
		t.Errorf("compressed frame (%d) not smaller than raw payload (%d)", buf.Len(), len(raw))
	}

	r := NewReader(&buf)
	defer r.Close()

	frame, v, err := r.ReadValue()
	if err != nil {
		t.Fatalf("ReadValue failed: %v", err)
	}
	if frame.Flags&FlagCompressed == 0 {
		t.Error("compressed flag not set")
	}
	if !v.Equal(big) {
		t.Error("decompressed value does not match")
	}
}

func TestCRCMismatch(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WithWriteCRC())
	if err := w.WriteValue(1, 1, testValue()); err != nil {
		t.Fatalf("WriteValue failed: %v", err)
	}

	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xff

	r := NewReader(bytes.NewReader(corrupted))
	_, err := r.Next()
	var mismatch *CRCMismatchError
	if !errors.As(err, &mismatch) {
		t.Errorf("error = %v, want *CRCMismatchError", err)
	}
}

func TestCRCVerificationDisabled(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WithWriteCRC())
	if err := w.WriteValue(1, 1, testValue()); err != nil {
		t.Fatalf("WriteValue failed: %v", err)
	}

	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xff

	r := NewReader(bytes.NewReader(corrupted), WithoutCRCVerification())
	if _, err := r.Next(); err != nil {
		t.Errorf("Next failed with verification disabled: %v", err)
	}
}

func TestBadMagic(t *testing.T) {
	garbage := strings.Repeat("X", 64)
	r := NewReader(strings.NewReader(garbage))
	if _, err := r.Next(); !errors.Is(err, ErrBadMagic) {
		t.Errorf("error = %v, want %v", err, ErrBadMagic)
	}
}

func TestMaxPayloadExceeded(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	payload := bencode.String(strings.Repeat("x", 100))
	if err := w.WriteValue(1, 1, payload); err != nil {
		t.Fatalf("WriteValue failed: %v", err)
	}

	r := NewReader(&buf, WithMaxPayload(10))
	_, err := r.Next()
	var fe *FrameError
	if !errors.As(err, &fe) {
		t.Errorf("error = %v, want *FrameError", err)
	}
}

func TestBaseMismatch(t *testing.T) {
	var wrong [32]byte
	wrong[0] = 0xaa

	var buf bytes.Buffer
	w := NewWriter(&buf)
	f := &Frame{
		Kind:    KindValue,
		Payload: bencode.Encode(testValue()),
		Base:    &wrong,
	}
	if err := w.WriteFrame(f); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	r := NewReader(&buf)
	_, _, err := r.ReadValue()
	var mismatch *BaseMismatchError
	if !errors.As(err, &mismatch) {
		t.Errorf("error = %v, want *BaseMismatchError", err)
	}
}

func TestFinalFlag(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	f := &Frame{Kind: KindValue, Payload: bencode.Encode(testValue()), Final: true}
	if err := w.WriteFrame(f); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	r := NewReader(&buf)
	frame, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if !frame.Final {
		t.Error("final flag lost in transit")
	}
}

func TestNonValueFrame(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteFrame(&Frame{Kind: KindPing}); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	r := NewReader(&buf)
	_, _, err := r.ReadValue()
	var fe *FrameError
	if !errors.As(err, &fe) {
		t.Errorf("ReadValue on ping: error = %v, want *FrameError", err)
	}
}

func TestInvalidPayloadSurfacesDecodeError(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	f := &Frame{Kind: KindValue, Payload: []byte("i03e")}
	if err := w.WriteFrame(f); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	r := NewReader(&buf)
	_, _, err := r.ReadValue()
	if !errors.Is(err, bencode.ErrInvalidInteger) {
		t.Errorf("error = %v, want %v", err, bencode.ErrInvalidInteger)
	}
}
