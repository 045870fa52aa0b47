package stream

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/Neumenon/bencode/bencode"
)

// Writer writes BNC1 frames to an io.Writer.
type Writer struct {
	w        io.Writer
	withCRC  bool
	withBase bool
	compress bool
	zenc     *zstd.Encoder
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithWriteCRC makes the writer compute and include a CRC-32 for each
// frame with a payload.
func WithWriteCRC() WriterOption {
	return func(w *Writer) {
		w.withCRC = true
	}
}

// WithBaseDigest makes WriteValue include the BLAKE3 digest of the
// payload so receivers can verify what they decoded.
func WithBaseDigest() WriterOption {
	return func(w *Writer) {
		w.withBase = true
	}
}

// WithCompression enables zstd compression of frame payloads.
func WithCompression() WriterOption {
	return func(w *Writer) {
		w.compress = true
	}
}

// NewWriter creates a new BNC1 frame writer.
func NewWriter(w io.Writer, opts ...WriterOption) *Writer {
	writer := &Writer{w: w}
	for _, opt := range opts {
		opt(writer)
	}
	return writer
}

// WriteValue encodes a value and writes it as a KindValue frame.
func (w *Writer) WriteValue(sid, seq uint64, v *bencode.Value) error {
	f := &Frame{
		SID:     sid,
		Seq:     seq,
		Kind:    KindValue,
		Payload: bencode.Encode(v),
	}
	if w.withBase {
		base := blake3.Sum256(f.Payload)
		f.Base = &base
	}
	return w.WriteFrame(f)
}

// WriteFrame writes a single frame. The frame's Payload is taken
// uncompressed; the writer compresses it when compression is enabled.
func (w *Writer) WriteFrame(f *Frame) error {
	payload := f.Payload
	flags := f.Flags &^ (FlagHasCRC | FlagHasBase | FlagCompressed)

	if w.compress && len(payload) > 0 {
		if w.zenc == nil {
			enc, err := zstd.NewWriter(nil)
			if err != nil {
				return fmt.Errorf("init zstd: %w", err)
			}
			w.zenc = enc
		}
		payload = w.zenc.EncodeAll(payload, nil)
		flags |= FlagCompressed
	}

	crc := f.CRC
	if crc == nil && w.withCRC && len(payload) > 0 {
		computed := ComputeCRC(payload)
		crc = &computed
	}
	if crc != nil {
		flags |= FlagHasCRC
	}
	if f.Base != nil {
		flags |= FlagHasBase
	}
	if f.Final {
		flags |= FlagFinal
	}

	version := f.Version
	if version == 0 {
		version = Version
	}

	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 1 + 8 + 8 + 4 + len(payload) + 36)

	buf.Write(magic[:])
	buf.WriteByte(version)
	buf.WriteByte(byte(f.Kind))
	buf.WriteByte(byte(flags))

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], f.SID)
	buf.Write(u8[:])

	binary.BigEndian.PutUint64(u8[:], f.Seq)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	if crc != nil {
		binary.BigEndian.PutUint32(u4[:], *crc)
		buf.Write(u4[:])
	}
	if f.Base != nil {
		buf.Write(f.Base[:])
	}

	buf.Write(payload)

	if _, err := w.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Close releases the writer's compression resources. It does not
// close the underlying io.Writer.
func (w *Writer) Close() error {
	if w.zenc != nil {
		return w.zenc.Close()
	}
	return nil
}
