// Package config provides configuration loading, validation, and management
// for the RoborNET site backend. It reads a YAML file, applies environment
// overrides, fills defaults and validates the result.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Chat providers supported by the text assistant.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config defines the application configuration parameters for all components
// of the site backend.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Voice     VoiceConfig     `mapstructure:"voice"`
	Relay     RelayConfig     `mapstructure:"relay"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LoggerConfig controls the slog handler.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// HTTPConfig holds the fiber server settings.
type HTTPConfig struct {
	Addr          string        `mapstructure:"addr"           validate:"required"`
	StaticDir     string        `mapstructure:"static_dir"`
	AllowOrigins  string        `mapstructure:"allow_origins"  validate:"required"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"   validate:"min=1s"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"  validate:"min=1s"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"   validate:"min=1s"`
	VisitorCookie string        `mapstructure:"visitor_cookie" validate:"required"`
	// AdminToken guards the operator endpoints; they answer 404 while it is empty.
	AdminToken string `mapstructure:"admin_token" validate:"omitempty,min=16"`
}

// DatabaseConfig points at the SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ChatConfig configures the text assistant.
type ChatConfig struct {
	Provider       string        `mapstructure:"provider"        validate:"oneof=gemini openai"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"     validate:"min=1m"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"min=1s,max=5m"`
}

// GeminiConfig holds Google Gemini settings shared by text chat and voice.
type GeminiConfig struct {
	APIKey            string  `mapstructure:"api_key"             validate:"required"`
	ModelName         string  `mapstructure:"model_name"          validate:"required"`
	Temperature       float32 `mapstructure:"temperature"         validate:"min=0,max=2"`
	MaxRetries        int     `mapstructure:"max_retries"         validate:"min=0,max=5"`
	RetryDelaySeconds int     `mapstructure:"retry_delay_seconds" validate:"min=0,max=60"`
}

// OpenAIConfig is only required when chat.provider is "openai".
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"    validate:"omitempty,url"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature" validate:"min=0,max=2"`
}

// VoiceConfig configures the realtime voice bridge.
type VoiceConfig struct {
	ModelName        string        `mapstructure:"model_name"         validate:"required"`
	VoiceName        string        `mapstructure:"voice_name"         validate:"required"`
	InputSampleRate  int           `mapstructure:"input_sample_rate"  validate:"min=8000,max=48000"`
	OutputSampleRate int           `mapstructure:"output_sample_rate" validate:"min=8000,max=48000"`
	PlaybackLead     time.Duration `mapstructure:"playback_lead"      validate:"min=0,max=5s"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"    validate:"min=1s,max=1m"`
}

// RelayConfig configures the helpdesk/CRM relay.
type RelayConfig struct {
	URL          string        `mapstructure:"url"           validate:"required,url"`
	MaxExchanges int           `mapstructure:"max_exchanges" validate:"min=1,max=50"`
	Timeout      time.Duration `mapstructure:"timeout"       validate:"min=1s,max=5m"`
	Workers      int           `mapstructure:"workers"       validate:"min=1,max=64"`
	Retention    time.Duration `mapstructure:"retention"     validate:"min=1h"`

	// BreakerFailures consecutive failed posts stop relaying for BreakerCooldown.
	BreakerFailures int           `mapstructure:"breaker_failures" validate:"min=1,max=100"`
	BreakerCooldown time.Duration `mapstructure:"breaker_cooldown" validate:"min=1s,max=1h"`
}

// SchedulerConfig lists the scheduled tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig enables a task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// ErrOpenAINotConfigured is returned when the openai provider is selected
// without credentials.
var ErrOpenAINotConfigured = errors.New("openai provider selected but openai.api_key or openai.model is empty")

// validateProvider checks the cross-section rules struct tags cannot express.
func (c *Config) validateProvider() error {
	if c.Chat.Provider != ProviderOpenAI {
		return nil
	}
	if c.OpenAI.APIKey == "" || c.OpenAI.Model == "" {
		return fmt.Errorf("chat provider %q: %w", c.Chat.Provider, ErrOpenAINotConfigured)
	}
	return nil
}
