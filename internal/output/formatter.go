package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rpgo/investment-calculator/internal/domain"
)

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic formatting).
type Formatter interface {
	Format(report *domain.ProjectionReport) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID string
	F  func(*domain.ProjectionReport) ([]byte, error)
}

func (ff FormatterFunc) Format(r *domain.ProjectionReport) ([]byte, error) { return ff.F(r) }
func (ff FormatterFunc) Name() string                                      { return ff.ID }

// WriteFormatted runs a formatter and writes output to a timestamped file with
// extension ext inside dir. The timestamp comes from the report, so reruns
// of the same report overwrite rather than accumulate.
func WriteFormatted(f Formatter, report *domain.ProjectionReport, dir, ext string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	suffix := ""
	if strings.Contains(f.Name(), "-") {
		suffix = "_" + strings.ReplaceAll(f.Name(), "-", "_")
	}
	filename := filepath.Join(dir, fmt.Sprintf("investment_projection_%s%s.%s", report.GeneratedAt.Format("20060102_150405"), suffix, ext))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// builtInFormatters stores available formatters.
var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	CSVSummarizer{},
	CSVAnnualExporter{},
	CSVDetailedExporter{},
	JSONFormatter{},
}

// extensions maps canonical formatter names to file extensions.
var extensions = map[string]string{
	"console":      "txt",
	"csv":          "csv",
	"annual-csv":   "csv",
	"detailed-csv": "csv",
	"json":         "json",
}

// GetFormatterByName fetches a registered formatter.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"text":         "console",
	"table":        "console",
	"csv-summary":  "csv",
	"summary":      "csv",
	"csv-annual":   "annual-csv",
	"annual":       "annual-csv",
	"yearly":       "annual-csv",
	"csv-detailed": "detailed-csv",
	"ledger":       "detailed-csv",
	"monthly":      "detailed-csv",
	"json-pretty":  "json",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// NeedsLedger reports whether a format renders per-month ledger rows, so
// callers know to request them from the engine.
func NeedsLedger(format string) bool {
	switch NormalizeFormatName(format) {
	case "detailed-csv", "all":
		return true
	}
	return false
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
