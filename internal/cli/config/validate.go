package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/leapstack-labs/inspectomop/pkg/adapter"
)

// ErrNoURL is returned by RequireURL when no database is configured.
var ErrNoURL = errors.New("no database url configured (use --url, INSPECTOMOP_URL or url in inspectomop.yaml)")

var outputModes = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(outputModes, c.OutputFormat) {
		return fmt.Errorf("output must be one of %v, got %q", outputModes, c.OutputFormat)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk_size must not be negative, got %d", c.ChunkSize)
	}
	if c.ReflectConcurrency < 1 {
		return fmt.Errorf("reflect_concurrency must be at least 1, got %d", c.ReflectConcurrency)
	}
	if c.History && c.HistoryPath == "" {
		return errors.New("history_path is required when history is enabled")
	}

	seen := make(map[string]bool, len(c.Attach))
	for _, a := range c.Attach {
		if a.File == "" || a.Schema == "" {
			return fmt.Errorf("attach entries need both file and schema, got %+v", a)
		}
		if seen[a.Schema] {
			return fmt.Errorf("schema %q is attached more than once", a.Schema)
		}
		seen[a.Schema] = true
	}

	if c.URL != "" {
		cfg, err := adapter.ParseURL(c.URL)
		if err != nil {
			return err
		}
		if len(c.Attach) > 0 && cfg.Type != "sqlite" {
			return fmt.Errorf("attach is only supported for sqlite, not %s", cfg.Type)
		}
	}
	return nil
}

// RequireURL returns ErrNoURL when no database url is set.
func (c *Config) RequireURL() error {
	if c.URL == "" {
		return ErrNoURL
	}
	return nil
}
