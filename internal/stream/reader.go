// Package stream provides a sequential pull-based reader over a send
// stream, decoding one command at a time.
package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/vnykmshr/sendstream/internal/format"
)

// ErrDone is returned by Next after the terminal END command has been
// delivered. Reading past the end of the stream is caller misuse, not
// a stream error.
var ErrDone = errors.New("sendstream: read past end of stream")

// Reader decodes commands sequentially from a send stream. The stream
// header is read and validated on construction; each Next call reads
// exactly one command. Memory use is bounded by the largest single
// command, not the stream length.
type Reader struct {
	r      io.Reader
	header *format.StreamHeader

	done     bool
	cmdIndex int
	offset   int64
}

// NewReader validates the stream header on r and returns a Reader
// positioned at the first command. Bad magic or an unsupported version
// is fatal.
func NewReader(r io.Reader) (*Reader, error) {
	header, err := format.ReadStreamHeader(r)
	if err != nil {
		return nil, err
	}
	return &Reader{
		r:      r,
		header: header,
		offset: int64(format.StreamHeaderSize),
	}, nil
}

// Header returns the validated stream header.
func (r *Reader) Header() *format.StreamHeader {
	return r.header
}

// Done reports whether the terminal command has been read.
func (r *Reader) Done() bool {
	return r.done
}

// Next reads and decodes the next command. After the terminal END
// command has been returned, further calls return ErrDone. Hitting
// end-of-input before the terminal command is a fatal truncation
// error. Checksums are not verified here; see Cmd.Verify.
func (r *Reader) Next() (*format.Cmd, error) {
	if r.done {
		return nil, ErrDone
	}

	hdr := make([]byte, format.CmdHeaderSize)
	if _, err := io.ReadFull(r.r, hdr); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("command %d at offset %d: unexpected end of stream before END command: %w",
				r.cmdIndex, r.offset, io.ErrUnexpectedEOF)
		}
		return nil, fmt.Errorf("command %d at offset %d: failed to read command header: %w", r.cmdIndex, r.offset, err)
	}

	payloadLen, cmdType, crc, err := format.ParseCmdHeader(hdr)
	if err != nil {
		return nil, fmt.Errorf("command %d at offset %d: %w", r.cmdIndex, r.offset, err)
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		return nil, fmt.Errorf("command %d at offset %d: failed to read %d-byte payload: %w",
			r.cmdIndex, r.offset, payloadLen, err)
	}

	attrs, err := format.ParseAttrs(payload)
	if err != nil {
		return nil, fmt.Errorf("command %d (%s) at offset %d: %w", r.cmdIndex, cmdType, r.offset, err)
	}

	cmd := &format.Cmd{
		Type:    cmdType,
		Attrs:   attrs,
		Crc:     crc,
		Payload: payload,
	}

	r.offset += int64(format.CmdHeaderSize) + int64(payloadLen)
	r.cmdIndex++
	if cmdType == format.CmdEnd {
		r.done = true
	}
	return cmd, nil
}
