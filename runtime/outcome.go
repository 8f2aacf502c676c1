package runtime

import "github.com/fenceline-io/fenceline/types"

// StatusFor maps an execution result to a terminal status and reason.
//
// Mapping:
//   - deadline expired      → errored, timeout
//   - interrupted           → errored, canceled
//   - exit 0                → passed
//   - any non-zero exit     → failed
func StatusFor(result *ExecResult) (types.RunStatus, string) {
	switch {
	case result.TimedOut:
		return types.StatusErrored, types.ReasonTimeout
	case result.Canceled:
		return types.StatusErrored, types.ReasonCanceled
	case result.ExitCode == 0:
		return types.StatusPassed, ""
	default:
		return types.StatusFailed, ""
	}
}
