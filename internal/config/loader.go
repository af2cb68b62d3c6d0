package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// ROBORNET_GEMINI_API_KEY overrides gemini.api_key.
const EnvPrefix = "ROBORNET"

// LoadConfig reads configuration from the given YAML file, applies .env and
// ROBORNET_* environment overrides on top of the defaults, and validates the
// result. A missing file is not an error; defaults and environment are used.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Plain GEMINI_API_KEY is what the Google tooling documents.
	if err := v.BindEnv("gemini.api_key", EnvPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind gemini api key env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			slog.Info("Configuration file not found, using defaults and environment", "path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := cfg.validateProvider(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	slog.Info("Configuration loaded",
		"path", path,
		"http_addr", cfg.HTTP.Addr,
		"chat_provider", cfg.Chat.Provider,
		"voice_model", cfg.Voice.ModelName,
		"db_path", cfg.Database.Path)
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", false)

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.static_dir", "./web/dist")
	v.SetDefault("http.allow_origins", "*")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 60*time.Second)
	v.SetDefault("http.idle_timeout", 2*time.Minute)
	v.SetDefault("http.visitor_cookie", "robornet_visitor")
	v.SetDefault("http.admin_token", "")

	v.SetDefault("database.path", "robornet.db")

	v.SetDefault("chat.provider", ProviderGemini)
	v.SetDefault("chat.session_ttl", 2*time.Hour)
	v.SetDefault("chat.request_timeout", 45*time.Second)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-2.5-flash")
	v.SetDefault("gemini.temperature", 0.7)
	// Text chat makes a single attempt per send.
	v.SetDefault("gemini.max_retries", 0)
	v.SetDefault("gemini.retry_delay_seconds", 2)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "")
	v.SetDefault("openai.temperature", 0.7)

	v.SetDefault("voice.model_name", "gemini-2.5-flash-native-audio-preview-12-2025")
	v.SetDefault("voice.voice_name", "Charon")
	v.SetDefault("voice.input_sample_rate", 16000)
	v.SetDefault("voice.output_sample_rate", 24000)
	v.SetDefault("voice.playback_lead", 300*time.Millisecond)
	v.SetDefault("voice.connect_timeout", 15*time.Second)

	v.SetDefault("relay.url", "https://aida.smit34.ru/chat")
	v.SetDefault("relay.max_exchanges", 14)
	v.SetDefault("relay.timeout", 30*time.Second)
	v.SetDefault("relay.workers", 4)
	v.SetDefault("relay.retention", 90*24*time.Hour)
	v.SetDefault("relay.breaker_failures", 5)
	v.SetDefault("relay.breaker_cooldown", time.Minute)

	v.SetDefault("scheduler.tasks", map[string]any{
		"sql_maintenance":    map[string]any{"enabled": true, "schedule": "0 0 4 * * *"},
		"chat_session_sweep": map[string]any{"enabled": true, "schedule": "0 */10 * * * *"},
		"relay_retention":    map[string]any{"enabled": true, "schedule": "0 30 3 * * *"},
	})
}
