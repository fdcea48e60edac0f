// Package sendstream decodes, verifies and sanitizes btrfs send
// streams.
//
// A send stream is a sequence of typed commands, each carrying TLV
// attributes and protected by a CRC32C checksum. This package offers
// three operations over that wire format:
//
//   - Dump renders a stream as human-readable text
//   - Verify recomputes every command checksum and reports mismatches
//   - Sanitize rewrites sensitive attribute values (hashing path
//     components, zeroing file data and identity fields) while keeping
//     the output a valid, independently verifiable stream
//
// Example usage:
//
//	f, err := os.Open("snapshot.send")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	if err := sendstream.Sanitize(f, os.Stdout, sendstream.DefaultSanitizeOptions()); err != nil {
//	    log.Fatal(err)
//	}
//
// All operations stream one command at a time; memory use is bounded
// by the largest single command, not the stream length.
package sendstream

import (
	"fmt"
	"io"

	"github.com/vnykmshr/sendstream/internal/dump"
	"github.com/vnykmshr/sendstream/internal/format"
	"github.com/vnykmshr/sendstream/internal/sanitize"
	"github.com/vnykmshr/sendstream/internal/stream"
)

// Version is the current version of sendstream.
// This is the single source of truth for the application version.
const Version = "1.0.0"

// Dump renders every command in the stream as text on w. Checksum
// mismatches are annotated inline (when opts.ShowChecksum is set) and
// counted, but only abort when opts.Strict is set. Structural errors
// always abort.
func Dump(r io.Reader, w io.Writer, opts DumpOptions) (*Stats, error) {
	sr, err := stream.NewReader(r)
	if err != nil {
		return nil, err
	}

	printer := dump.NewPrinter(w)
	printer.ShowChecksum = opts.ShowChecksum
	printer.StringLimit = opts.StringLimit

	stats := newStats()
	for !sr.Done() {
		cmd, err := sr.Next()
		if err != nil {
			return stats, err
		}
		stats.observe(cmd)
		if err := printer.PrintCmd(cmd); err != nil {
			return stats, fmt.Errorf("failed to write dump output: %w", err)
		}
		if opts.Strict && !cmd.Verify() {
			return stats, fmt.Errorf("command %d (%s): %w: stored=%08x computed=%08x",
				stats.Commands-1, cmd.Type, ErrChecksumMismatch, cmd.Crc, cmd.ComputedChecksum())
		}
	}
	return stats, nil
}

// CommandFailure identifies one command whose checksum did not verify.
type CommandFailure struct {
	// Index is the zero-based position of the command in the stream.
	Index int

	// Type is the command type name.
	Type string

	// Stored is the checksum carried on the wire.
	Stored uint32

	// Computed is the checksum recomputed over the wire bytes.
	Computed uint32
}

// VerifyResult reports the outcome of a Verify pass.
type VerifyResult struct {
	// Commands is the total number of commands decoded.
	Commands int

	// Failures lists every command with a checksum mismatch, in
	// stream order. Empty means the stream verified clean.
	Failures []CommandFailure
}

// OK reports whether every command verified.
func (r *VerifyResult) OK() bool {
	return len(r.Failures) == 0
}

// Verify decodes the whole stream and recomputes every command's
// checksum. Checksum mismatches are collected, not fatal; structural
// errors abort.
func Verify(r io.Reader) (*VerifyResult, error) {
	sr, err := stream.NewReader(r)
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{}
	for !sr.Done() {
		cmd, err := sr.Next()
		if err != nil {
			return result, err
		}
		if !cmd.Verify() {
			result.Failures = append(result.Failures, CommandFailure{
				Index:    result.Commands,
				Type:     cmd.Type.String(),
				Stored:   cmd.Crc,
				Computed: cmd.ComputedChecksum(),
			})
		}
		result.Commands++
	}
	return result, nil
}

// Sanitize rewrites the stream from r onto w per opts. With default
// options every run uses a fresh random salt, so sanitized output
// from separate runs cannot be correlated. Any structural error or
// checksum mismatch aborts; partial output may already have been
// written when that happens.
func Sanitize(r io.Reader, w io.Writer, opts SanitizeOptions) error {
	var policy sanitize.Policy
	if opts.Identity {
		policy = sanitize.Identity()
	} else {
		salt, err := runSalt(opts)
		if err != nil {
			return err
		}
		policy = sanitize.Redact(salt)
	}

	s := sanitize.New(sanitize.Options{
		Policy: policy,
		Logger: opts.Logger,
	})
	return s.Run(r, w)
}

func runSalt(opts SanitizeOptions) (sanitize.Salt, error) {
	if opts.Salt != nil {
		return sanitize.Salt(*opts.Salt), nil
	}
	return sanitize.NewSalt()
}

// CollectStats decodes the whole stream and aggregates per-type
// command counts, attribute counts, payload bytes and checksum
// failures.
func CollectStats(r io.Reader) (*Stats, error) {
	sr, err := stream.NewReader(r)
	if err != nil {
		return nil, err
	}

	stats := newStats()
	for !sr.Done() {
		cmd, err := sr.Next()
		if err != nil {
			return stats, err
		}
		stats.observe(cmd)
	}
	return stats, nil
}

func (s *Stats) observe(cmd *format.Cmd) {
	s.Commands++
	s.CommandsByType[cmd.Type.String()]++
	s.Attributes += len(cmd.Attrs)
	s.PayloadBytes += int64(len(cmd.Payload))
	if !cmd.Verify() {
		s.ChecksumFailures++
	}
}
