package runner

import "time"

// Result holds the output of a single solution execution.
type Result struct {
	RunID     string        // unique identifier for this execution
	ExitCode  int           // process exit code; meaningless when TimedOut
	Stdout    []byte        // captured stdout (may be truncated); nil when TimedOut
	Stderr    []byte        // captured stderr (may be truncated); nil when TimedOut
	Truncated bool          // true if output exceeded the size cap
	TimedOut  bool          // true if the process was killed by the timeout
	Duration  time.Duration // wall-clock time until the process was reaped
}
