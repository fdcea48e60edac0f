package format

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// StreamMagic is the fixed 13-byte magic at the start of every stream
// (trailing NUL included).
const StreamMagic = "btrfs-stream\x00"

// StreamVersion is the only stream format version this package understands.
const StreamVersion uint32 = 1

// StreamHeaderSize is the encoded size of the stream header in bytes.
// Layout: Magic(13) + Version(4) = 17 bytes
const StreamHeaderSize = len(StreamMagic) + 4

// Stream header errors. Both are fatal: a stream with the wrong magic
// or version cannot be partially recovered.
var (
	ErrBadMagic           = errors.New("send stream magic does not match")
	ErrUnsupportedVersion = errors.New("unsupported send stream version")
)

// StreamHeader represents the fixed header at the start of a send stream.
//
// Binary format (little-endian):
//
//	[Magic:13][Version:4]
type StreamHeader struct {
	// Version is the stream format version (must be 1).
	Version uint32
}

// Marshal encodes the stream header into binary format.
func (h *StreamHeader) Marshal() []byte {
	buf := make([]byte, StreamHeaderSize)
	copy(buf, StreamMagic)
	binary.LittleEndian.PutUint32(buf[len(StreamMagic):], h.Version)
	return buf
}

// ReadStreamHeader reads and validates the stream header from r.
func ReadStreamHeader(r io.Reader) (*StreamHeader, error) {
	buf := make([]byte, StreamHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("failed to read stream header: %w", err)
	}

	if !bytes.Equal(buf[:len(StreamMagic)], []byte(StreamMagic)) {
		return nil, ErrBadMagic
	}

	version := binary.LittleEndian.Uint32(buf[len(StreamMagic):])
	if version != StreamVersion {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrUnsupportedVersion, StreamVersion, version)
	}

	return &StreamHeader{Version: version}, nil
}
