// Package config provides the configuration schema, loader, and transcriber
// registry for the frontdesk intake server.
package config

// LogLevel controls log verbosity for the frontdesk server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for frontdesk.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Intake        IntakeConfig        `yaml:"intake"`
}

// ServerConfig holds network and logging settings for the frontdesk server.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`
}

// DatabaseConfig selects the visit record store. An empty PostgresDSN runs
// the server on the in-memory store, which loses all records on restart.
type DatabaseConfig struct {
	// PostgresDSN is the PostgreSQL connection string for the visit store.
	PostgresDSN string `yaml:"postgres_dsn"`
}

// TranscriptionConfig configures the speech-to-text backends for voice
// uploads. Both entries are [TranscriberEntry] blocks; Fallback is optional
// and becomes the failover backend when the primary's circuit breaker opens.
type TranscriptionConfig struct {
	Primary  TranscriberEntry  `yaml:"primary"`
	Fallback *TranscriberEntry `yaml:"fallback"`
}

// TranscriberEntry is the configuration block shared by all transcriber
// providers. The Name field is used to look up the constructor in the
// [Registry].
type TranscriberEntry struct {
	// Name selects the registered provider implementation (e.g., "elevenlabs").
	Name string `yaml:"name"`

	// APIKey is the authentication key for the provider's API.
	APIKey string `yaml:"api_key"`

	// Model selects a specific model within the provider (e.g., "scribe_v1").
	Model string `yaml:"model"`

	// BaseURL overrides the provider's default API endpoint.
	// Leave empty to use the provider's built-in default.
	BaseURL string `yaml:"base_url"`
}

// IntakeConfig holds toggles for the optional extraction enrichments.
type IntakeConfig struct {
	// NameCorrection enables phonetic correction of extracted names against
	// the known-patient roster before reconciliation.
	NameCorrection bool `yaml:"name_correction"`

	// SpokenDigits enables the spoken digit-word pre-pass for phone captures
	// containing letters ("five five five...").
	SpokenDigits bool `yaml:"spoken_digits"`
}
