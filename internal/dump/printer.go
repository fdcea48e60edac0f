// Package dump renders decoded send-stream commands as human-readable
// text.
package dump

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/vnykmshr/sendstream/internal/format"
)

// DefaultStringLimit is the default maximum number of opaque value
// bytes shown before truncation.
const DefaultStringLimit = 32

// Printer writes a text rendering of commands and their attributes.
// Output is one line per command followed by one indented line per
// attribute.
type Printer struct {
	w io.Writer

	// ShowChecksum prints each command's stored checksum, annotated
	// when it does not match the recomputed value.
	ShowChecksum bool

	// StringLimit bounds the preview length for opaque byte values.
	// Zero means DefaultStringLimit.
	StringLimit int
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, StringLimit: DefaultStringLimit}
}

// PrintCmd renders one command. Returns the first write error.
func (p *Printer) PrintCmd(cmd *format.Cmd) error {
	if _, err := fmt.Fprintln(p.w, cmd.Type); err != nil {
		return err
	}
	if p.ShowChecksum {
		if cmd.Verify() {
			if _, err := fmt.Fprintf(p.w, "  crc %#x\n", cmd.Crc); err != nil {
				return err
			}
		} else if _, err := fmt.Fprintf(p.w, "  crc %#x (mismatch, computed %#x)\n", cmd.Crc, cmd.ComputedChecksum()); err != nil {
			return err
		}
	}
	for i := range cmd.Attrs {
		if err := p.printAttr(&cmd.Attrs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printAttr(a *format.Attr) error {
	_, err := fmt.Fprintf(p.w, "  %s %s\n", a.Type, p.formatValue(a))
	return err
}

// formatValue renders an attribute value per its type's class. Values
// that fail semantic decoding (wrong length for the class) fall back
// to the opaque byte rendering rather than erroring: the stream is
// structurally valid either way.
func (p *Printer) formatValue(a *format.Attr) string {
	switch a.Type.Class() {
	case format.ClassPath:
		return strconv.Quote(string(a.Value))
	case format.ClassUint:
		if a.Type == format.AttrMode {
			return "0" + strconv.FormatUint(a.Uint(), 8)
		}
		return strconv.FormatUint(a.Uint(), 10)
	case format.ClassDevNum:
		dev := a.DevNum()
		return fmt.Sprintf("%d, %d", dev.Major, dev.Minor)
	case format.ClassTimestamp:
		ts, err := a.Timestamp()
		if err != nil {
			return p.formatBytes(a.Value)
		}
		return time.Unix(ts.Sec, int64(ts.Nsec)).UTC().Format("2006-01-02 15:04:05.999999999")
	case format.ClassUUID:
		u, err := uuid.FromBytes(a.Value)
		if err != nil {
			return p.formatBytes(a.Value)
		}
		return u.String()
	default:
		return p.formatBytes(a.Value)
	}
}

// formatBytes renders an opaque value as "[N bytes]" plus a quoted,
// possibly truncated preview.
func (p *Printer) formatBytes(value []byte) string {
	limit := p.StringLimit
	if limit <= 0 {
		limit = DefaultStringLimit
	}
	preview := value
	ellipsis := ""
	if len(preview) > limit {
		preview = preview[:limit]
		ellipsis = "..."
	}
	return fmt.Sprintf("[%d bytes] %s%s", len(value), strconv.Quote(string(preview)), ellipsis)
}
