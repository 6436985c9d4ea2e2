package runner

// Sentinel return codes. Real child exit codes are always >= 0; a
// negative code means the runner itself failed before, or instead of,
// the child. Callers branch on the code alone, never on Stderr text.
const (
	CodeUnknown     = -1 // unclassified failure
	CodeBadCommand  = -2 // malformed Command, no process spawned
	CodeTimeout     = -3 // deadline exceeded, child killed
	CodeNotFound    = -4 // executable not resolvable
	CodePermission  = -5 // OS denied the launch
	CodeInterrupted = -6 // caller's context cancelled
)

// Outcome is the result of one Invocation. Execute always produces one;
// no failure escapes as an error. Stdout is nil for failures where no
// process output applies (bad command, not found, permission denied,
// interrupt, unknown) and non-nil otherwise, including the partial
// output kept when a run times out.
type Outcome struct {
	RunID      string  `json:"run_id"`
	Stdout     *string `json:"stdout"`
	Stderr     string  `json:"stderr"`
	ReturnCode int     `json:"return_code"`
	TimedOut   bool    `json:"timed_out,omitempty"`
}

// Failed reports whether the runner itself failed (negative sentinel
// code). A non-zero child exit is a normal outcome, not a failure.
func (o *Outcome) Failed() bool {
	return o.ReturnCode < 0
}
