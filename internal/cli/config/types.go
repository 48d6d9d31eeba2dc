// Package config loads inspectomop CLI configuration.
//
// Values are layered with koanf: built-in defaults, then inspectomop.yaml,
// then INSPECTOMOP_* environment variables, then flags set on the command
// line.
package config

// Config holds all CLI configuration options.
type Config struct {
	URL                string         `koanf:"url"`
	OutputFormat       string         `koanf:"output"`
	ChunkSize          int            `koanf:"chunk_size"`
	Verbose            bool           `koanf:"verbose"`
	History            bool           `koanf:"history"`
	HistoryPath        string         `koanf:"history_path"`
	ReflectConcurrency int            `koanf:"reflect_concurrency"`
	Attach             []AttachConfig `koanf:"attach"`
	// Params are passed to the database adapter, e.g. DuckDB extensions
	// and settings.
	Params map[string]any `koanf:"params"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// AttachConfig names an extra SQLite database file and the schema it is
// attached as.
type AttachConfig struct {
	File   string `koanf:"file" yaml:"file"`
	Schema string `koanf:"schema" yaml:"schema"`
}

// Default configuration values.
const (
	DefaultConfigFile         = "inspectomop.yaml"
	DefaultHistoryFile        = ".inspectomop/history.db"
	DefaultOutput             = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultReflectConcurrency = 4
)

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		OutputFormat:       DefaultOutput,
		History:            true,
		HistoryPath:        DefaultHistoryFile,
		ReflectConcurrency: DefaultReflectConcurrency,
	}
}

func defaultValues() map[string]any {
	d := Default()
	return map[string]any{
		"url":                 d.URL,
		"output":              d.OutputFormat,
		"chunk_size":          d.ChunkSize,
		"verbose":             d.Verbose,
		"history":             d.History,
		"history_path":        d.HistoryPath,
		"reflect_concurrency": d.ReflectConcurrency,
	}
}
