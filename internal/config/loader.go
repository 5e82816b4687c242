package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ValidTranscriberNames lists known transcriber provider names. [Validate]
// warns about unrecognised names rather than failing, so a newer binary's
// config keeps loading on an older one.
var ValidTranscriberNames = []string{"elevenlabs"}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader] and
// [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	validateTranscriberName("transcription.primary", cfg.Transcription.Primary.Name)
	if cfg.Transcription.Fallback != nil {
		validateTranscriberName("transcription.fallback", cfg.Transcription.Fallback.Name)
		if cfg.Transcription.Primary.Name == "" {
			errs = append(errs, errors.New("transcription.fallback is set but transcription.primary is not"))
		}
	}

	if cfg.Transcription.Primary.Name != "" && cfg.Transcription.Primary.APIKey == "" {
		errs = append(errs, fmt.Errorf("transcription.primary %q is configured without an api_key", cfg.Transcription.Primary.Name))
	}
	if cfg.Transcription.Fallback != nil && cfg.Transcription.Fallback.Name != "" && cfg.Transcription.Fallback.APIKey == "" {
		errs = append(errs, fmt.Errorf("transcription.fallback %q is configured without an api_key", cfg.Transcription.Fallback.Name))
	}

	if cfg.Transcription.Primary.Name == "" {
		slog.Warn("no transcription provider configured; voice uploads will be rejected")
	}
	if cfg.Database.PostgresDSN == "" {
		slog.Warn("database.postgres_dsn is not set; using the in-memory store, records are lost on restart")
	}

	return errors.Join(errs...)
}

func validateTranscriberName(field, name string) {
	if name == "" {
		return
	}
	if !slices.Contains(ValidTranscriberNames, name) {
		slog.Warn("unrecognised transcriber provider name",
			"field", field,
			"name", name,
			"known", ValidTranscriberNames,
		)
	}
}
