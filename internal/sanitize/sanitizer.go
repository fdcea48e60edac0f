package sanitize

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/vnykmshr/sendstream/internal/format"
	"github.com/vnykmshr/sendstream/internal/stream"
)

// Options configures a Sanitizer.
type Options struct {
	// Policy decides what gets rewritten or elided. Required.
	Policy Policy

	// Logger receives debug/trace output. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// Sanitizer streams a send stream from input to output, rewriting
// attribute values per its policy and recomputing each command's
// checksum. One command is decoded, rewritten and emitted at a time;
// memory use is bounded by the largest single command.
type Sanitizer struct {
	policy Policy
	log    zerolog.Logger

	// Run counters, reported via Stats after a run.
	commandsIn  uint64
	commandsOut uint64
	elided      uint64
}

// Stats describes what one sanitizer run did.
type Stats struct {
	// CommandsIn is the number of commands decoded from the input.
	CommandsIn uint64

	// CommandsOut is the number of commands written to the output.
	CommandsOut uint64

	// Elided is the number of commands suppressed by policy.
	Elided uint64
}

// New creates a Sanitizer with the given options.
func New(opts Options) *Sanitizer {
	s := &Sanitizer{
		policy: opts.Policy,
		log:    opts.Logger,
	}
	if s.policy.ElideCommand == nil || s.policy.RewriteValue == nil {
		s.policy = Identity()
	}
	return s
}

// Stats returns the counters from the most recent Run.
func (s *Sanitizer) Stats() Stats {
	return Stats{
		CommandsIn:  s.commandsIn,
		CommandsOut: s.commandsOut,
		Elided:      s.elided,
	}
}

// Run copies a complete send stream from r to w, applying the policy.
// Any structural decode failure or checksum mismatch aborts with an
// error: there is no safe partial sanitization of a corrupt stream.
// The output is independently well-formed and passes verification.
func (s *Sanitizer) Run(r io.Reader, w io.Writer) error {
	s.commandsIn, s.commandsOut, s.elided = 0, 0, 0

	sr, err := stream.NewReader(r)
	if err != nil {
		return err
	}
	if _, err := w.Write(sr.Header().Marshal()); err != nil {
		return fmt.Errorf("failed to write stream header: %w", err)
	}

	for !sr.Done() {
		cmd, err := sr.Next()
		if err != nil {
			return err
		}
		s.commandsIn++

		// A corrupt command cannot be redacted safely; abort rather
		// than emit a sanitized version of bytes we cannot trust.
		if !cmd.Verify() {
			return fmt.Errorf("command %d (%s): %w: stored=%08x computed=%08x",
				s.commandsIn-1, cmd.Type, format.ErrChecksumMismatch, cmd.Crc, cmd.ComputedChecksum())
		}

		if cmd.Type != format.CmdEnd && s.policy.ElideCommand(cmd.Type) {
			s.elided++
			s.log.Debug().Stringer("cmd", cmd.Type).Msg("elided command")
			continue
		}

		attrs := make([]format.Attr, len(cmd.Attrs))
		for i, a := range cmd.Attrs {
			attrs[i] = format.Attr{
				Type:  a.Type,
				Value: s.policy.RewriteValue(a.Type, a.Value),
			}
		}

		out, err := format.MarshalCmd(cmd.Type, format.EncodeAttrs(attrs))
		if err != nil {
			return fmt.Errorf("command %d (%s): %w", s.commandsIn-1, cmd.Type, err)
		}
		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("command %d (%s): failed to write: %w", s.commandsIn-1, cmd.Type, err)
		}
		s.commandsOut++
	}

	s.log.Debug().
		Uint64("in", s.commandsIn).
		Uint64("out", s.commandsOut).
		Uint64("elided", s.elided).
		Msg("sanitize run complete")
	return nil
}
