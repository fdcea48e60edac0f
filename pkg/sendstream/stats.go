package sendstream

// Stats contains aggregate counts for a decoded stream.
type Stats struct {
	// Commands is the total number of commands, terminal END included.
	Commands int

	// CommandsByType counts commands keyed by type name (numeric
	// fallback for unknown types).
	CommandsByType map[string]int

	// Attributes is the total attribute count across all commands.
	Attributes int

	// PayloadBytes is the total command payload size, headers excluded.
	PayloadBytes int64

	// ChecksumFailures is the number of commands whose stored
	// checksum did not match their wire bytes.
	ChecksumFailures int
}

func newStats() *Stats {
	return &Stats{CommandsByType: make(map[string]int)}
}
