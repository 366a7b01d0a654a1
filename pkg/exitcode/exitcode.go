// Package exitcode provides standardized exit codes for docguard
package exitcode

// Exit codes for the docguard CLI. LintFailure is distinct from
// GeneralError so CI can tell a failed gate from a crashed run.
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	ValidationError = 3
	FileSystemError = 4
	LintFailure     = 5
	TimeoutError    = 7
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case ValidationError:
		return "Validation error"
	case FileSystemError:
		return "File system error"
	case LintFailure:
		return "Lint gate failure"
	case TimeoutError:
		return "Timeout error"
	default:
		return "Unknown error"
	}
}
