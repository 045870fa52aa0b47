package stream

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/Neumenon/bencode/bencode"
)

// Reader reads BNC1 frames from an io.Reader.
type Reader struct {
	r          *bufio.Reader
	maxPayload int
	verifyCRC  bool
	zdec       *zstd.Decoder
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithMaxPayload sets the maximum payload size (default: 64 MiB).
// The bound applies to both the written and the decompressed payload.
func WithMaxPayload(max int) ReaderOption {
	return func(r *Reader) {
		r.maxPayload = max
	}
}

// WithoutCRCVerification disables CRC verification (on by default).
func WithoutCRCVerification() ReaderOption {
	return func(r *Reader) {
		r.verifyCRC = false
	}
}

// NewReader creates a new BNC1 frame reader.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	reader := &Reader{
		r:          bufio.NewReader(r),
		maxPayload: MaxPayloadSize,
		verifyCRC:  true,
	}
	for _, opt := range opts {
		opt(reader)
	}
	return reader
}

// Next reads and returns the next frame, decompressing the payload if
// needed. Returns io.EOF when no more frames are available.
func (r *Reader) Next() (*Frame, error) {
	var hdr [4 + 1 + 1 + 1 + 8 + 8 + 4]byte
	if _, err := io.ReadFull(r.r, hdr[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	if !bytes.Equal(hdr[:4], magic[:]) {
		return nil, ErrBadMagic
	}

	frame := &Frame{
		Version: hdr[4],
		Kind:    FrameKind(hdr[5]),
		Flags:   Flags(hdr[6]),
		SID:     binary.BigEndian.Uint64(hdr[7:15]),
		Seq:     binary.BigEndian.Uint64(hdr[15:23]),
	}
	if frame.Version != Version {
		return nil, &FrameError{Reason: fmt.Sprintf("unsupported version %d", frame.Version)}
	}
	frame.Final = frame.Flags&FlagFinal != 0

	payloadLen := int(binary.BigEndian.Uint32(hdr[23:27]))
	if payloadLen > r.maxPayload {
		return nil, &FrameError{Reason: fmt.Sprintf("payload too large: %d > %d", payloadLen, r.maxPayload)}
	}

	if frame.Flags&FlagHasCRC != 0 {
		var u4 [4]byte
		if _, err := io.ReadFull(r.r, u4[:]); err != nil {
			return nil, fmt.Errorf("read crc: %w", err)
		}
		crc := binary.BigEndian.Uint32(u4[:])
		frame.CRC = &crc
	}

	if frame.Flags&FlagHasBase != 0 {
		var base [32]byte
		if _, err := io.ReadFull(r.r, base[:]); err != nil {
			return nil, fmt.Errorf("read base digest: %w", err)
		}
		frame.Base = &base
	}

	var payload []byte
	if payloadLen > 0 {
		payload = make([]byte, payloadLen)
		if _, err := io.ReadFull(r.r, payload); err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}
	}

	// CRC covers the payload as written, before decompression.
	if r.verifyCRC && frame.CRC != nil {
		if computed := ComputeCRC(payload); computed != *frame.CRC {
			return nil, &CRCMismatchError{Expected: *frame.CRC, Got: computed}
		}
	}

	if frame.Flags&FlagCompressed != 0 && len(payload) > 0 {
		if r.zdec == nil {
			dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(uint64(r.maxPayload)))
			if err != nil {
				return nil, fmt.Errorf("init zstd: %w", err)
			}
			r.zdec = dec
		}
		decompressed, err := r.zdec.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress payload: %w", err)
		}
		if len(decompressed) > r.maxPayload {
			return nil, &FrameError{Reason: fmt.Sprintf("decompressed payload too large: %d > %d", len(decompressed), r.maxPayload)}
		}
		payload = decompressed
	}

	frame.Payload = payload
	return frame, nil
}

// ReadValue reads the next frame, requires it to be KindValue, decodes
// the payload and verifies the base digest when present.
func (r *Reader) ReadValue() (*Frame, *bencode.Value, error) {
	frame, err := r.Next()
	if err != nil {
		return nil, nil, err
	}
	if frame.Kind != KindValue {
		return frame, nil, &FrameError{Reason: fmt.Sprintf("expected value frame, got %s", frame.Kind)}
	}

	if frame.Base != nil {
		if got := blake3.Sum256(frame.Payload); got != *frame.Base {
			return frame, nil, &BaseMismatchError{Expected: *frame.Base, Got: got}
		}
	}

	v, err := bencode.Decode(frame.Payload)
	if err != nil {
		return frame, nil, fmt.Errorf("decode payload: %w", err)
	}
	return frame, v, nil
}

// Close releases the reader's decompression resources. It does not
// close the underlying io.Reader.
func (r *Reader) Close() {
	if r.zdec != nil {
		r.zdec.Close()
	}
}
