package sendstream

import (
	"github.com/vnykmshr/sendstream/internal/format"
	"github.com/vnykmshr/sendstream/internal/stream"
)

// Common errors returned by sendstream operations. These are the
// sentinels wrapped by the internal packages, re-exported so callers
// can match with errors.Is.
var (
	// ErrBadMagic indicates the input does not start with the send
	// stream magic. Fatal.
	ErrBadMagic = format.ErrBadMagic

	// ErrUnsupportedVersion indicates a stream version this package
	// does not understand. Fatal.
	ErrUnsupportedVersion = format.ErrUnsupportedVersion

	// ErrChecksumMismatch indicates a command whose stored checksum
	// does not match its wire bytes. Non-fatal in inspection mode;
	// always fatal during sanitization.
	ErrChecksumMismatch = format.ErrChecksumMismatch

	// ErrDone indicates a read past the terminal END command. This is
	// caller misuse, not a stream error.
	ErrDone = stream.ErrDone
)
