// Command sendstream inspects, verifies and sanitizes btrfs send
// streams.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vnykmshr/sendstream/internal/logging"
	"github.com/vnykmshr/sendstream/pkg/sendstream"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "sendstream",
		Short: "Inspect, verify and sanitize btrfs send streams",
		Long: `sendstream decodes the btrfs send-stream wire format: a checksummed
sequence of typed commands carrying TLV attributes.

It can dump a stream in a human-readable form, verify every command's
CRC32C checksum, and sanitize a stream for sharing by hashing path
components and zeroing file contents, timestamps and ownership, while
keeping the output a valid stream.`,
		Version: sendstream.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newVerifyCmd())
	rootCmd.AddCommand(newSanitizeCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func newDumpCmd() *cobra.Command {
	opts := sendstream.DefaultDumpOptions()

	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Print a send stream in a human-readable format",
		Long: `Dump decodes a send stream (from a file or stdin) and prints each
command with its attributes, formatted by type: quoted paths, UUIDs,
octal modes, calendar timestamps, decimal integers and truncated byte
previews.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(args)
			if err != nil {
				return err
			}
			defer in.Close()

			stats, err := sendstream.Dump(in, os.Stdout, opts)
			if err != nil {
				return err
			}
			if stats.ChecksumFailures > 0 {
				log.Warn().Int("failures", stats.ChecksumFailures).Msg("stream contains checksum mismatches")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.StringLimit, "string-limit", "s", opts.StringLimit, "Maximum string size to print")
	cmd.Flags().BoolVarP(&opts.ShowChecksum, "crc", "c", false, "Show CRCs of commands")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Abort on the first checksum mismatch")

	return cmd
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [file]",
		Short: "Recompute and check every command checksum",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(args)
			if err != nil {
				return err
			}
			defer in.Close()

			result, err := sendstream.Verify(in)
			if err != nil {
				return err
			}
			for _, f := range result.Failures {
				fmt.Printf("command %d (%s): checksum mismatch: stored=%08x computed=%08x\n",
					f.Index, f.Type, f.Stored, f.Computed)
			}
			if !result.OK() {
				return fmt.Errorf("%d of %d commands failed verification", len(result.Failures), result.Commands)
			}
			fmt.Printf("%d commands verified\n", result.Commands)
			return nil
		},
	}
}

func newSanitizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize [input [output]]",
		Short: "Sanitize a send stream for public sharing",
		Long: `Sanitize rewrites a send stream so it can be shared without leaking
its contents: path components are replaced by salted hashes, file
data, timestamps, uids and gids are zeroed, and xattr commands are
dropped. Every checksum is recomputed, so the output is itself a
valid send stream.

The salt is drawn fresh from the OS for every run, so the same input
sanitized twice produces uncorrelatable output.

Reads stdin and writes stdout unless file arguments are given.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(args)
			if err != nil {
				return err
			}
			defer in.Close()

			out := io.WriteCloser(os.Stdout)
			if len(args) >= 2 {
				f, err := os.Create(args[1])
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			opts := sendstream.DefaultSanitizeOptions()
			opts.Logger = logging.New("sanitize")
			return sendstream.Sanitize(in, out, opts)
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [file]",
		Short: "Show aggregate statistics for a send stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(args)
			if err != nil {
				return err
			}
			defer in.Close()

			stats, err := sendstream.CollectStats(in)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Stream Statistics")
			fmt.Fprintln(w, "=================")
			fmt.Fprintf(w, "Commands:\t%d\n", stats.Commands)
			fmt.Fprintf(w, "Attributes:\t%d\n", stats.Attributes)
			fmt.Fprintf(w, "Payload Bytes:\t%d\n", stats.PayloadBytes)
			fmt.Fprintf(w, "Checksum Failures:\t%d\n", stats.ChecksumFailures)
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Commands by Type")
			fmt.Fprintln(w, "----------------")
			names := make([]string, 0, len(stats.CommandsByType))
			for name := range stats.CommandsByType {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(w, "%s:\t%d\n", name, stats.CommandsByType[name])
			}
			return w.Flush()
		},
	}
}

// openInput returns the first file argument opened for reading, or
// stdin when no argument is given.
func openInput(args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	return f, nil
}
