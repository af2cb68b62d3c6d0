// Package openai provides an OpenAI-compatible chat completer, selectable in
// place of Gemini for the text assistant.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	gopenai "github.com/sashabaranov/go-openai"

	"github.com/edgard/robornet/internal/chat"
	"github.com/edgard/robornet/internal/config"
)

// Client answers chat messages through the chat completions API.
type Client struct {
	client      *gopenai.Client
	model       string
	temperature float32
	instruction string
	log         *slog.Logger
}

var _ chat.Completer = (*Client)(nil)

// NewClient creates a completer using instruction as the system prompt.
func NewClient(cfg config.OpenAIConfig, instruction string, log *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" || cfg.Model == "" {
		return nil, config.ErrOpenAINotConfigured
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	aiConfig := gopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		aiConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		client:      gopenai.NewClientWithConfig(aiConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		instruction: instruction,
		log:         log.With("component", "openai_client"),
	}, nil
}

// Complete implements chat.Completer.
func (c *Client) Complete(ctx context.Context, history []chat.Message, text string) (string, error) {
	messages := make([]gopenai.ChatCompletionMessage, 0, len(history)+2)
	if c.instruction != "" {
		messages = append(messages, gopenai.ChatCompletionMessage{
			Role:    gopenai.ChatMessageRoleSystem,
			Content: c.instruction,
		})
	}
	for _, m := range history {
		role := gopenai.ChatMessageRoleUser
		if m.Role == chat.RoleAssistant {
			role = gopenai.ChatMessageRoleAssistant
		}
		messages = append(messages, gopenai.ChatCompletionMessage{Role: role, Content: m.Text})
	}
	messages = append(messages, gopenai.ChatCompletionMessage{Role: gopenai.ChatMessageRoleUser, Content: text})

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, gopenai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	})
	if err != nil {
		c.log.ErrorContext(ctx, "Chat completion failed", "error", err)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response choices returned")
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", errors.New("empty response content")
	}

	c.log.DebugContext(ctx, "Chat completion received",
		"api_ms", time.Since(start).Milliseconds(),
		"tokens", resp.Usage.TotalTokens)
	return reply, nil
}
