package format

import (
	"encoding/binary"
	"fmt"
)

// AttrHeaderSize is the size of the attribute TLV header in bytes.
// Layout: Type(2) + Length(2) = 4 bytes
const AttrHeaderSize = 4

// Attr is a single type-length-value attribute within a command
// payload. Value holds the raw wire bytes; semantic decoding (Uint,
// Timestamp, DevNum, ...) is applied on demand by type, never stored.
//
// Binary format (little-endian):
//
//	[Type:2][Length:2][Value:Length]
type Attr struct {
	// Type is the attribute type code.
	Type AttrType

	// Value is the raw value bytes as read from the wire.
	Value []byte
}

// EncodedSize returns the encoded size of the attribute including its
// TLV header.
func (a *Attr) EncodedSize() int {
	return AttrHeaderSize + len(a.Value)
}

// AppendEncode appends the TLV encoding of the attribute to buf and
// returns the extended slice.
func (a *Attr) AppendEncode(buf []byte) []byte {
	var hdr [AttrHeaderSize]byte
	binary.LittleEndian.PutUint16(hdr[0:2], uint16(a.Type))
	binary.LittleEndian.PutUint16(hdr[2:4], uint16(len(a.Value))) //nolint:gosec // G115: value length is validated against uint16 on decode
	buf = append(buf, hdr[:]...)
	return append(buf, a.Value...)
}

// ParseAttrs slices a command payload into its attribute sequence.
// The returned attributes alias the payload; callers that outlive the
// payload must copy. The attributes must account for every payload
// byte exactly: a TLV that runs past the end of the payload means the
// stream is truncated or corrupt.
func ParseAttrs(payload []byte) ([]Attr, error) {
	var attrs []Attr
	n := 0
	for n < len(payload) {
		if len(payload)-n < AttrHeaderSize {
			return nil, fmt.Errorf("attribute header at payload offset %d overruns payload (%d bytes left)", n, len(payload)-n)
		}
		typ := AttrType(binary.LittleEndian.Uint16(payload[n : n+2]))
		length := int(binary.LittleEndian.Uint16(payload[n+2 : n+4]))
		n += AttrHeaderSize
		if len(payload)-n < length {
			return nil, fmt.Errorf("attribute %s value (%d bytes) at payload offset %d overruns payload (%d bytes left)",
				typ, length, n-AttrHeaderSize, len(payload)-n)
		}
		attrs = append(attrs, Attr{Type: typ, Value: payload[n : n+length]})
		n += length
	}
	return attrs, nil
}

// EncodeAttrs concatenates the TLV encodings of attrs in order,
// producing a command payload.
func EncodeAttrs(attrs []Attr) []byte {
	size := 0
	for i := range attrs {
		size += attrs[i].EncodedSize()
	}
	buf := make([]byte, 0, size)
	for i := range attrs {
		buf = attrs[i].AppendEncode(buf)
	}
	return buf
}

// Uint decodes the value as a little-endian unsigned integer of
// whatever width the value has. Values wider than 8 bytes are
// truncated to the low 64 bits.
func (a *Attr) Uint() uint64 {
	var v uint64
	b := a.Value
	if len(b) > 8 {
		b = b[:8]
	}
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// DevNum is a decoded device number.
type DevNum struct {
	Major uint64
	Minor uint64
}

// DevNum decodes the value as a packed device number using the legacy
// glibc bit layout.
func (a *Attr) DevNum() DevNum {
	dev := a.Uint()
	return DevNum{
		Major: (dev & 0xFFF00) >> 8,
		Minor: (dev & 0xFF) | ((dev >> 12) & 0xFFF00),
	}
}

// Timestamp is a decoded second/nanosecond pair.
type Timestamp struct {
	Sec  int64
	Nsec uint32
}

// TimestampSize is the encoded size of a timestamp value.
// Layout: Sec(8) + Nsec(4) = 12 bytes
const TimestampSize = 12

// Timestamp decodes the value as an 8-byte LE seconds + 4-byte LE
// nanoseconds pair. Returns an error if the value has the wrong size.
func (a *Attr) Timestamp() (Timestamp, error) {
	if len(a.Value) != TimestampSize {
		return Timestamp{}, fmt.Errorf("invalid timestamp length: %d (expected %d)", len(a.Value), TimestampSize)
	}
	return Timestamp{
		Sec:  int64(binary.LittleEndian.Uint64(a.Value[0:8])), //nolint:gosec // G115: Safe int64 conversion
		Nsec: binary.LittleEndian.Uint32(a.Value[8:12]),
	}, nil
}

// UUIDSize is the encoded size of a UUID value.
const UUIDSize = 16

// UUID returns the value as a 16-byte UUID. Returns an error if the
// value has the wrong size.
func (a *Attr) UUID() ([UUIDSize]byte, error) {
	var u [UUIDSize]byte
	if len(a.Value) != UUIDSize {
		return u, fmt.Errorf("invalid UUID length: %d (expected %d)", len(a.Value), UUIDSize)
	}
	copy(u[:], a.Value)
	return u, nil
}
