// Package output handles formatting CLI output as table, JSON, or compact.
package output

// Format represents an output format.
type Format int

const (
	// FormatAuto uses the default format (table).
	FormatAuto Format = iota
	// FormatJSON outputs JSON.
	FormatJSON
	// FormatTable outputs a human-readable table.
	FormatTable
	// FormatCompact outputs one-line-per-record compact format.
	FormatCompact
)

// Detect returns the format selected by flags, falling back to the
// configured or environment default. Default is table.
func Detect(jsonFlag, tableFlag, compactFlag bool, fallback string) Format {
	if jsonFlag {
		return FormatJSON
	}
	if compactFlag {
		return FormatCompact
	}
	if tableFlag {
		return FormatTable
	}

	switch fallback {
	case "json":
		return FormatJSON
	case "compact", "oneline":
		return FormatCompact
	}
	return FormatTable
}
