package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/investment-calculator/internal/domain"
)

// allFormats are the formatters written by the "all" pseudo-format.
var allFormats = []string{"console", "csv", "detailed-csv"}

// GenerateReport writes the report in the named format (or every format for
// "all") into dir and returns the files written.
func GenerateReport(report *domain.ProjectionReport, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var files []string
		for _, name := range allFormats {
			written, err := GenerateReport(report, name, dir)
			if err != nil {
				return files, err
			}
			files = append(files, written...)
		}
		return files, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		// enrich error with available formatters and aliases
		return nil, fmt.Errorf("%w: %q. Try one of: %s, all (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	filename, err := WriteFormatted(f, report, dir, extensions[f.Name()])
	if err != nil {
		return nil, err
	}
	return []string{filename}, nil
}

// SaveConfiguration writes a configuration as YAML, TOML or JSON depending on
// the file extension (YAML when unrecognized).
func SaveConfiguration(config *domain.Configuration, filename string) error {
	var (
		b   []byte
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(config)
		b = buf.Bytes()
	case ".json":
		b, err = json.MarshalIndent(config, "", "  ")
	default:
		b, err = yaml.Marshal(config)
	}
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return os.WriteFile(filename, b, 0644)
}
