package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	gopenai "github.com/sashabaranov/go-openai"

	"github.com/edgard/robornet/internal/chat"
	"github.com/edgard/robornet/internal/config"
)

func newTestServer(t *testing.T, status int, reply string, got *gopenai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(gopenai.ChatCompletionResponse{
			Choices: []gopenai.ChatCompletionChoice{{
				Message: gopenai.ChatCompletionMessage{Role: gopenai.ChatMessageRoleAssistant, Content: reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClientRequiresCredentials(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(config.OpenAIConfig{Model: "gpt"}, "", nil); !errors.Is(err, config.ErrOpenAINotConfigured) {
		t.Errorf("NewClient() error = %v, want ErrOpenAINotConfigured", err)
	}
}

func TestComplete(t *testing.T) {
	t.Parallel()

	var req gopenai.ChatCompletionRequest
	srv := newTestServer(t, http.StatusOK, " Подключим! ", &req)

	c, err := NewClient(config.OpenAIConfig{APIKey: "k", Model: "gpt-test", BaseURL: srv.URL}, "Ты консультант", nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	history := []chat.Message{{Role: chat.RoleAssistant, Text: "Здравствуйте!"}}
	got, err := c.Complete(context.Background(), history, "Хочу интернет")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "Подключим!" {
		t.Errorf("Complete() = %q, want Подключим!", got)
	}

	type msg struct{ Role, Content string }
	var sent []msg
	for _, m := range req.Messages {
		sent = append(sent, msg{m.Role, m.Content})
	}
	want := []msg{
		{gopenai.ChatMessageRoleSystem, "Ты консультант"},
		{gopenai.ChatMessageRoleAssistant, "Здравствуйте!"},
		{gopenai.ChatMessageRoleUser, "Хочу интернет"},
	}
	if diff := cmp.Diff(want, sent); diff != "" {
		t.Errorf("request messages mismatch (-want +got):\n%s", diff)
	}
	if req.Model != "gpt-test" {
		t.Errorf("model = %q", req.Model)
	}
}

func TestCompleteErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		reply  string
	}{
		{"server error", http.StatusServiceUnavailable, ""},
		{"empty reply", http.StatusOK, "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var req gopenai.ChatCompletionRequest
			srv := newTestServer(t, tt.status, tt.reply, &req)
			c, err := NewClient(config.OpenAIConfig{APIKey: "k", Model: "m", BaseURL: srv.URL}, "", nil)
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}
			if _, err := c.Complete(context.Background(), nil, "привет"); err == nil {
				t.Error("Complete() error = nil, want error")
			}
		})
	}
}
