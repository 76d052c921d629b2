package log

// Standard attribute keys for recording operations. Using these keys keeps
// log lines filterable by key, session mode, and rank across the module.
const (
	// KeyKey names the reference key being recorded or checked.
	KeyKey = "key"

	// ModeKey is the session mode, "train" or "test".
	ModeKey = "mode"

	// OpKey is the recording operation, e.g. "root_add_val", "par_add_sum".
	OpKey = "op"

	// RankKey is the calling process rank within the communicator.
	RankKey = "rank"

	// SizeKey is the communicator size.
	SizeKey = "size"

	// PathKey is the reference file path bound to the session.
	PathKey = "path"

	// EntriesKey is the number of registry entries, logged at flush.
	EntriesKey = "entries"
)
