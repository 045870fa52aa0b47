// Package stream implements BNC1, a binary frame envelope for bencode
// payloads.
//
// BNC1 is a transport envelope, providing:
//   - Message boundaries and resync (magic prefix)
//   - Multiplexing via stream IDs (sid)
//   - Ordering via sequence numbers (seq)
//   - Integrity via optional CRC-32
//   - Optional zstd payload compression
//   - Optional BLAKE3 digest of the canonical payload
//
// Frame headers are NOT part of bencode canonicalization. The payload
// is a complete encoded value passed to the decoder unchanged; the
// envelope never parses partial payloads.
//
// Wire layout, big endian:
//
//	magic(4)="BNC1" | ver(1) | kind(1) | flags(1) | sid(u64) | seq(u64) |
//	plen(u32) | [crc(u32)] | [base(32)] | payload(plen)
//
// plen and crc describe the payload as written (compressed when
// FlagCompressed is set); base is the BLAKE3-256 digest of the
// uncompressed payload.
package stream

import (
	"errors"
	"fmt"
)

// Version is the BNC1 protocol version.
const Version uint8 = 1

// MaxPayloadSize is the default payload size bound (64 MiB).
const MaxPayloadSize = 64 << 20

var magic = [4]byte{'B', 'N', 'C', '1'}

// FrameKind indicates the semantic category of a frame's payload.
type FrameKind uint8

const (
	KindValue FrameKind = 0 // Payload is one encoded bencode value
	KindAck   FrameKind = 1 // Acknowledgement
	KindErr   FrameKind = 2 // Error event
	KindPing  FrameKind = 3 // Keepalive
	KindPong  FrameKind = 4 // Ping response
)

// String returns the kind name.
func (k FrameKind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindAck:
		return "ack"
	case KindErr:
		return "err"
	case KindPing:
		return "ping"
	case KindPong:
		return "pong"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Flags for BNC1 frames.
type Flags uint8

const (
	FlagHasCRC     Flags = 0x01 // CRC-32 is present
	FlagHasBase    Flags = 0x02 // BLAKE3 payload digest is present
	FlagFinal      Flags = 0x04 // End-of-stream for this SID
	FlagCompressed Flags = 0x08 // Payload is zstd-compressed
)

// Frame represents a single BNC1 frame.
type Frame struct {
	// Required fields
	Version uint8     // Protocol version (must be 1)
	SID     uint64    // Stream identifier
	Seq     uint64    // Sequence number (per-SID, monotonic)
	Kind    FrameKind // Frame kind
	Payload []byte    // Uncompressed payload bytes

	// Optional fields
	CRC   *uint32   // CRC-32 of the written payload (nil if not present)
	Base  *[32]byte // BLAKE3-256 digest of the payload (nil if not present)
	Flags Flags     // Flag bits
	Final bool      // End-of-stream marker
}

// HasCRC returns true if CRC is present.
func (f *Frame) HasCRC() bool {
	return f.CRC != nil
}

// HasBase returns true if the payload digest is present.
func (f *Frame) HasBase() bool {
	return f.Base != nil
}

// ErrBadMagic is returned when a frame does not start with "BNC1".
var ErrBadMagic = errors.New("stream: bad frame magic")

// FrameError reports a malformed frame.
type FrameError struct {
	Reason string
}

func (e *FrameError) Error() string {
	return "stream: " + e.Reason
}

// CRCMismatchError reports a payload integrity failure.
type CRCMismatchError struct {
	Expected uint32
	Got      uint32
}

func (e *CRCMismatchError) Error() string {
	return fmt.Sprintf("stream: CRC mismatch: expected %08x, got %08x", e.Expected, e.Got)
}

// BaseMismatchError reports a payload digest failure.
type BaseMismatchError struct {
	Expected [32]byte
	Got      [32]byte
}

func (e *BaseMismatchError) Error() string {
	return fmt.Sprintf("stream: payload digest mismatch: expected %x, got %x", e.Expected, e.Got)
}
