// Package diag implements the severity-classified diagnostic sink shared by
// the markup parser and project model: a Severity scale, a Problem record,
// an ordered Bag, and a threshold-gated Reporter.
package diag

// Severity ranks a Problem's importance. Lower values are less severe.
type Severity uint8

const (
	Debug Severity = iota
	Info
	Warning
	Error
	// Critical is not a severity any Problem ever carries; it exists only
	// as an --unacceptable-level value meaning "never abort", since no
	// Problem is ever classified above Error.
	Critical
)

// String renders the severity the way diagnostics are printed on the
// command line and in --format json output.
func (s Severity) String() string {
	switch s {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity accepts the --ignore-level/--unacceptable-level flag values.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "DEBUG", "debug":
		return Debug, true
	case "INFO", "info":
		return Info, true
	case "WARNING", "warning", "WARN", "warn":
		return Warning, true
	case "ERROR", "error":
		return Error, true
	case "CRITICAL", "critical":
		return Critical, true
	default:
		return 0, false
	}
}
