package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/edgard/robornet/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ROBORNET_GEMINI_API_KEY", "test-key")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Gemini.APIKey != "test-key" {
		t.Errorf("Gemini.APIKey = %q, want %q", cfg.Gemini.APIKey, "test-key")
	}
	if cfg.Relay.MaxExchanges != 14 {
		t.Errorf("Relay.MaxExchanges = %d, want 14", cfg.Relay.MaxExchanges)
	}
	if cfg.Relay.BreakerFailures != 5 || cfg.Relay.BreakerCooldown != time.Minute {
		t.Errorf("relay breaker = %d/%v, want 5/1m", cfg.Relay.BreakerFailures, cfg.Relay.BreakerCooldown)
	}
	if cfg.Voice.InputSampleRate != 16000 || cfg.Voice.OutputSampleRate != 24000 {
		t.Errorf("sample rates = %d/%d, want 16000/24000", cfg.Voice.InputSampleRate, cfg.Voice.OutputSampleRate)
	}
	if cfg.Gemini.MaxRetries != 0 {
		t.Errorf("Gemini.MaxRetries = %d, want 0", cfg.Gemini.MaxRetries)
	}
	if cfg.Chat.Provider != config.ProviderGemini {
		t.Errorf("Chat.Provider = %q, want %q", cfg.Chat.Provider, config.ProviderGemini)
	}
	task, ok := cfg.Scheduler.Tasks["sql_maintenance"]
	if !ok || !task.Enabled || task.Schedule == "" {
		t.Errorf("sql_maintenance task = %+v (present %v), want enabled with schedule", task, ok)
	}
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	t.Setenv("ROBORNET_GEMINI_API_KEY", "from-env")

	path := writeConfig(t, `
logger:
  level: debug
http:
  addr: ":9090"
relay:
  url: "https://relay.example.com/chat"
  max_exchanges: 5
  timeout: 10s
chat:
  session_ttl: 30m
`)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Logger.Level != "debug" {
		t.Errorf("Logger.Level = %q, want debug", cfg.Logger.Level)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("HTTP.Addr = %q, want :9090", cfg.HTTP.Addr)
	}
	if cfg.Relay.URL != "https://relay.example.com/chat" || cfg.Relay.MaxExchanges != 5 {
		t.Errorf("Relay = %+v", cfg.Relay)
	}
	if cfg.Relay.Timeout != 10*time.Second {
		t.Errorf("Relay.Timeout = %v, want 10s", cfg.Relay.Timeout)
	}
	if cfg.Chat.SessionTTL != 30*time.Minute {
		t.Errorf("Chat.SessionTTL = %v, want 30m", cfg.Chat.SessionTTL)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("ROBORNET_GEMINI_API_KEY", "k")
	t.Setenv("ROBORNET_HTTP_ADDR", ":7070")

	path := writeConfig(t, "http:\n  addr: \":9090\"\n")

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.HTTP.Addr != ":7070" {
		t.Errorf("HTTP.Addr = %q, want :7070", cfg.HTTP.Addr)
	}
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		body string
	}{
		{
			name: "missing gemini key",
			body: "logger:\n  level: info\n",
		},
		{
			name: "bad log level",
			env:  map[string]string{"ROBORNET_GEMINI_API_KEY": "k"},
			body: "logger:\n  level: verbose\n",
		},
		{
			name: "relay budget out of range",
			env:  map[string]string{"ROBORNET_GEMINI_API_KEY": "k"},
			body: "relay:\n  max_exchanges: 0\n",
		},
		{
			name: "relay url not a url",
			env:  map[string]string{"ROBORNET_GEMINI_API_KEY": "k"},
			body: "relay:\n  url: not-a-url\n",
		},
		{
			name: "admin token too short",
			env:  map[string]string{"ROBORNET_GEMINI_API_KEY": "k"},
			body: "http:\n  admin_token: short\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ROBORNET_GEMINI_API_KEY", "")
			t.Setenv("GEMINI_API_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := config.LoadConfig(writeConfig(t, tt.body)); err == nil {
				t.Fatal("LoadConfig() error = nil, want validation error")
			}
		})
	}
}

func TestLoadConfig_OpenAIProviderRequiresCredentials(t *testing.T) {
	t.Setenv("ROBORNET_GEMINI_API_KEY", "k")

	_, err := config.LoadConfig(writeConfig(t, "chat:\n  provider: openai\n"))
	if !errors.Is(err, config.ErrOpenAINotConfigured) {
		t.Fatalf("LoadConfig() error = %v, want ErrOpenAINotConfigured", err)
	}
}
