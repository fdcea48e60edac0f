package stream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/vnykmshr/sendstream/internal/format"
)

// buildStream assembles a well-formed stream from commands, each given
// as a type plus attribute list.
func buildStream(t *testing.T, cmds ...testCmd) []byte {
	t.Helper()
	var buf bytes.Buffer
	header := &format.StreamHeader{Version: format.StreamVersion}
	buf.Write(header.Marshal())
	for _, c := range cmds {
		data, err := format.MarshalCmd(c.typ, format.EncodeAttrs(c.attrs))
		if err != nil {
			t.Fatalf("MarshalCmd failed: %v", err)
		}
		buf.Write(data)
	}
	return buf.Bytes()
}

type testCmd struct {
	typ   format.CmdType
	attrs []format.Attr
}

func TestReader_SingleEndCommand(t *testing.T) {
	data := buildStream(t, testCmd{typ: format.CmdEnd})

	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if r.Header().Version != format.StreamVersion {
		t.Errorf("header version = %d, want %d", r.Header().Version, format.StreamVersion)
	}

	cmd, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if cmd.Type != format.CmdEnd {
		t.Errorf("command type = %s, want END", cmd.Type)
	}
	if len(cmd.Attrs) != 0 || len(cmd.Payload) != 0 {
		t.Errorf("END command has %d attrs, %d payload bytes; want 0, 0", len(cmd.Attrs), len(cmd.Payload))
	}
	if !cmd.Verify() {
		t.Error("END command does not verify")
	}
	if !r.Done() {
		t.Error("reader not done after END")
	}

	if _, err := r.Next(); !errors.Is(err, ErrDone) {
		t.Errorf("Next after END = %v, want ErrDone", err)
	}
}

func TestReader_MultipleCommands(t *testing.T) {
	data := buildStream(t,
		testCmd{typ: format.CmdMkfile, attrs: []format.Attr{
			{Type: format.AttrPath, Value: []byte("o256-7-0")},
			{Type: format.AttrIno, Value: []byte{0, 1, 0, 0, 0, 0, 0, 0}},
		}},
		testCmd{typ: format.CmdWrite, attrs: []format.Attr{
			{Type: format.AttrPath, Value: []byte("o256-7-0")},
			{Type: format.AttrFileOffset, Value: []byte{0, 0, 0, 0, 0, 0, 0, 0}},
			{Type: format.AttrData, Value: bytes.Repeat([]byte{0xaa}, 4096)},
		}},
		testCmd{typ: format.CmdEnd},
	)

	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	var types []format.CmdType
	for !r.Done() {
		cmd, err := r.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if !cmd.Verify() {
			t.Errorf("command %s does not verify", cmd.Type)
		}
		types = append(types, cmd.Type)
	}

	want := []format.CmdType{format.CmdMkfile, format.CmdWrite, format.CmdEnd}
	if len(types) != len(want) {
		t.Fatalf("read %d commands, want %d", len(types), len(want))
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("command %d = %s, want %s", i, types[i], want[i])
		}
	}
}

func TestReader_TrailingGarbageIgnored(t *testing.T) {
	data := buildStream(t, testCmd{typ: format.CmdEnd})
	data = append(data, []byte("trailing garbage after END")...)

	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if _, err := r.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if !r.Done() {
		t.Error("reader not done after END despite trailing bytes")
	}
}

func TestReader_BadMagic(t *testing.T) {
	data := []byte("definitely not a send stream")
	if _, err := NewReader(bytes.NewReader(data)); !errors.Is(err, format.ErrBadMagic) {
		t.Errorf("NewReader = %v, want ErrBadMagic", err)
	}
}

func TestReader_UnsupportedVersion(t *testing.T) {
	data := make([]byte, format.StreamHeaderSize)
	copy(data, format.StreamMagic)
	binary.LittleEndian.PutUint32(data[len(format.StreamMagic):], 99)

	if _, err := NewReader(bytes.NewReader(data)); !errors.Is(err, format.ErrUnsupportedVersion) {
		t.Errorf("NewReader = %v, want ErrUnsupportedVersion", err)
	}
}

func TestReader_TruncatedBeforeEnd(t *testing.T) {
	full := buildStream(t,
		testCmd{typ: format.CmdMkdir, attrs: []format.Attr{
			{Type: format.AttrPath, Value: []byte("d")},
		}},
		testCmd{typ: format.CmdEnd},
	)

	tests := []struct {
		name string
		data []byte
	}{
		{"header only", full[:format.StreamHeaderSize]},
		{"partial command header", full[:format.StreamHeaderSize+4]},
		{"partial payload", full[:format.StreamHeaderSize+format.CmdHeaderSize+2]},
		{"missing END", full[:len(full)-format.CmdHeaderSize]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(bytes.NewReader(tt.data))
			if err != nil {
				t.Fatalf("NewReader failed: %v", err)
			}
			for {
				_, err = r.Next()
				if err != nil {
					break
				}
			}
			if errors.Is(err, ErrDone) {
				t.Fatal("truncated stream reported clean completion")
			}
			if !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
				t.Errorf("error = %v, want EOF-derived truncation error", err)
			}
		})
	}
}

func TestReader_AttrOverrunsPayload(t *testing.T) {
	// Hand-build a command whose attribute TLV claims more bytes than
	// the payload holds. The command checksum is valid; the failure
	// must come from length accounting.
	payload := []byte{
		0x0f, 0x00, // PATH
		0x40, 0x00, // claims 64 value bytes
		'x', 'y', // only 2 present
	}
	var buf bytes.Buffer
	header := &format.StreamHeader{Version: format.StreamVersion}
	buf.Write(header.Marshal())
	data, err := format.MarshalCmd(format.CmdMkfile, payload)
	if err != nil {
		t.Fatalf("MarshalCmd failed: %v", err)
	}
	buf.Write(data)

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if _, err := r.Next(); err == nil {
		t.Fatal("expected length accounting error")
	}
}

func TestReader_UnknownCommandType(t *testing.T) {
	data := buildStream(t,
		testCmd{typ: format.CmdType(300), attrs: []format.Attr{
			{Type: format.AttrType(301), Value: []byte{1, 2}},
		}},
		testCmd{typ: format.CmdEnd},
	)

	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	cmd, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if cmd.Type != format.CmdType(300) {
		t.Errorf("command type = %d, want 300", uint16(cmd.Type))
	}
	if cmd.Type.Known() {
		t.Error("unknown command type reported as known")
	}
	if len(cmd.Attrs) != 1 || cmd.Attrs[0].Type != format.AttrType(301) {
		t.Errorf("unknown attribute not preserved: %+v", cmd.Attrs)
	}
}
