package format

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrChecksumMismatch indicates a command whose stored checksum does
// not match the one recomputed over its wire bytes. Unlike structural
// errors it is recoverable in inspection mode; the sanitizing
// transform always aborts on it.
var ErrChecksumMismatch = errors.New("command checksum mismatch")

// CmdHeaderSize is the size of the command header in bytes.
// Layout: PayloadLen(4) + Type(2) + Checksum(4) = 10 bytes
const CmdHeaderSize = 10

// Cmd is a single decoded command from a send stream.
//
// Binary format (little-endian):
//
//	[PayloadLen:4][Type:2][Checksum:4][Payload:PayloadLen]
//
// The checksum covers the header with the checksum field zeroed,
// followed by the payload, using the CRC32C variant in this package.
//
// Payload holds the untouched wire bytes; Attrs alias into it. A Cmd
// is never mutated after decode — rewriting produces fresh bytes via
// MarshalCmd so decode and re-encode representations cannot alias.
type Cmd struct {
	// Type is the command type code.
	Type CmdType

	// Attrs is the ordered attribute sequence. Order is significant
	// and preserved on re-encoding.
	Attrs []Attr

	// Crc is the checksum captured from the wire.
	Crc uint32

	// Payload is the raw payload bytes as read from the wire.
	Payload []byte
}

// CommandChecksum computes the checksum a well-formed command with the
// given type and payload must carry: CRC32C over the 10-byte header
// with the checksum field zeroed, followed by the payload.
func CommandChecksum(cmdType CmdType, payload []byte) uint32 {
	var hdr [CmdHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(payload))) //nolint:gosec // G115: payload length validated on encode
	binary.LittleEndian.PutUint16(hdr[4:6], uint16(cmdType))
	// hdr[6:10] stays zero: the checksum field's own bytes.
	crc := Compute(ChecksumSeed, hdr[:])
	crc = Compute(crc, payload)
	return crc ^ 0xFFFFFFFF
}

// Verify recomputes the command checksum over the wire bytes and
// compares it to the stored value. A mismatch is an integrity failure,
// not a structural one: the caller decides whether to continue.
func (c *Cmd) Verify() bool {
	return CommandChecksum(c.Type, c.Payload) == c.Crc
}

// ComputedChecksum returns the checksum recomputed from the wire bytes.
func (c *Cmd) ComputedChecksum() uint32 {
	return CommandChecksum(c.Type, c.Payload)
}

// MarshalCmd encodes a complete command: header carrying a freshly
// computed checksum, followed by the payload. Returns an error if the
// payload cannot be represented in the 4-byte length field.
func MarshalCmd(cmdType CmdType, payload []byte) ([]byte, error) {
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("command payload too large: %d bytes", len(payload))
	}
	buf := make([]byte, CmdHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(payload)))
	binary.LittleEndian.PutUint16(buf[4:6], uint16(cmdType))
	binary.LittleEndian.PutUint32(buf[6:10], CommandChecksum(cmdType, payload))
	copy(buf[CmdHeaderSize:], payload)
	return buf, nil
}

// ParseCmdHeader decodes a 10-byte command header.
func ParseCmdHeader(hdr []byte) (payloadLen uint32, cmdType CmdType, crc uint32, err error) {
	if len(hdr) != CmdHeaderSize {
		return 0, 0, 0, fmt.Errorf("invalid command header length: %d (expected %d)", len(hdr), CmdHeaderSize)
	}
	payloadLen = binary.LittleEndian.Uint32(hdr[0:4])
	cmdType = CmdType(binary.LittleEndian.Uint16(hdr[4:6]))
	crc = binary.LittleEndian.Uint32(hdr[6:10])
	return payloadLen, cmdType, crc, nil
}
