package sendstream

import "github.com/rs/zerolog"

// SaltSize is the size of a sanitization salt in bytes.
const SaltSize = 32

// Salt keys path-component hashing for one sanitize run. See
// SanitizeOptions.Salt.
type Salt [SaltSize]byte

// DumpOptions contains configuration parameters for Dump.
type DumpOptions struct {
	// ShowChecksum prints each command's checksum, annotated when it
	// does not verify.
	// Default: false
	ShowChecksum bool

	// StringLimit is the maximum number of opaque value bytes shown
	// before truncation.
	// Default: 32
	StringLimit int

	// Strict aborts the dump on the first checksum mismatch instead
	// of annotating and continuing.
	// Default: false
	Strict bool
}

// DefaultDumpOptions returns the default configuration for Dump.
func DefaultDumpOptions() DumpOptions {
	return DumpOptions{
		StringLimit: 32,
	}
}

// SanitizeOptions contains configuration parameters for Sanitize.
type SanitizeOptions struct {
	// Salt fixes the path-hashing salt instead of drawing a fresh
	// random one. Fixed salts make output reproducible, which defeats
	// the cross-run anonymity property; intended for tests.
	// Default: nil (fresh random salt per run)
	Salt *Salt

	// Identity disables all redaction: commands and attribute values
	// pass through unchanged, checksums are still recomputed. The
	// output of an identity run over a valid stream is byte-identical
	// to the input.
	// Default: false
	Identity bool

	// Logger receives debug output. The salt is never logged.
	// Default: no-op logger
	Logger zerolog.Logger
}

// DefaultSanitizeOptions returns the default configuration for Sanitize.
func DefaultSanitizeOptions() SanitizeOptions {
	return SanitizeOptions{}
}
