// Package chat runs the text assistant: one conversation per session, one
// completion call per user message, suggestion chips parsed from replies.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Role identifies who wrote a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat bubble.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
	// HTML is the rendered assistant text, set when the manager has a renderer.
	HTML string `json:"html,omitempty"`
}

// Greeting opens every new session.
const Greeting = "Привет! Я AI-консультант РоборНЭТ. ⚡️ Помогу подобрать тариф, изучить ТВ-пакеты или ответить на вопросы. Что вас интересует?"

// InitialSuggestions are offered before the first reply.
var InitialSuggestions = []string{
	"Хочу подключить интернет 🌐",
	"Какие тарифы есть? 📋",
	"Уже клиент, есть проблема 🔧",
	"Стоимость подключения 💰",
}

var (
	// ErrSessionNotFound is returned for unknown or evicted sessions.
	ErrSessionNotFound = errors.New("chat session not found")
	// ErrSessionClosed is returned when the session was closed, including
	// when it was closed while a reply was in flight. Such a reply is dropped.
	ErrSessionClosed = errors.New("chat session closed")
	// ErrBusy is returned when a send is already in flight.
	ErrBusy = errors.New("chat session is waiting for a reply")
	// ErrEmptyMessage is returned for blank input.
	ErrEmptyMessage = errors.New("message is empty")
)

// Completer produces the assistant reply to text given the prior history.
type Completer interface {
	Complete(ctx context.Context, history []Message, text string) (string, error)
}

// Snapshot is a copy of the session state.
type Snapshot struct {
	ID           string    `json:"id"`
	Messages     []Message `json:"messages"`
	Suggestions  []string  `json:"suggestions"`
	Busy         bool      `json:"busy"`
	Closed       bool      `json:"closed"`
	LastActivity time.Time `json:"last_activity"`
}

type session struct {
	id           string
	messages     []Message
	suggestions  []string
	busy         bool
	closed       bool
	generation   uint64
	lastActivity time.Time
}

func (s *session) snapshot() Snapshot {
	return Snapshot{
		ID:           s.id,
		Messages:     append([]Message(nil), s.messages...),
		Suggestions:  append([]string{}, s.suggestions...),
		Busy:         s.busy,
		Closed:       s.closed,
		LastActivity: s.lastActivity,
	}
}

// Options configures a Manager.
type Options struct {
	// FallbackPhone is shown in the message that replaces a failed reply.
	FallbackPhone string
	// RequestTimeout bounds a single completion call.
	RequestTimeout time.Duration
	// Render, if set, fills Message.HTML for assistant messages.
	Render func(text string) string
	Clock  clockwork.Clock
	Logger *slog.Logger
}

// Manager owns all chat sessions.
type Manager struct {
	completer Completer
	clock     clockwork.Clock
	log       *slog.Logger
	fallback  string
	timeout   time.Duration
	render    func(string) string

	mu       sync.Mutex
	sessions map[string]*session
}

// NewManager creates a session manager backed by completer.
func NewManager(completer Completer, opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		completer: completer,
		clock:     opts.Clock,
		log:       opts.Logger.With("component", "chat"),
		fallback:  FallbackText(opts.FallbackPhone),
		timeout:   opts.RequestTimeout,
		render:    opts.Render,
		sessions:  make(map[string]*session),
	}
}

// FallbackText is the message shown when the assistant cannot be reached.
func FallbackText(phone string) string {
	return "Ошибка соединения. Позвоните нам: " + phone
}

// Create starts a session seeded with the greeting and initial suggestions.
func (m *Manager) Create() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked().snapshot()
}

func (m *Manager) createLocked() *session {
	s := &session{
		id:           uuid.NewString(),
		messages:     []Message{m.assistant(Greeting)},
		suggestions:  append([]string(nil), InitialSuggestions...),
		lastActivity: m.clock.Now(),
	}
	m.sessions[s.id] = s
	m.log.Debug("Chat session created", "session_id", s.id)
	return s
}

// Get returns the current state of a session.
func (m *Manager) Get(id string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}
	return s.snapshot(), nil
}

// Open opens the session with the given id, or a new one when id is empty or
// unknown, and re-opens it if it was closed. A non-empty pending message is
// sent right away.
func (m *Manager) Open(ctx context.Context, id, pending string) (Snapshot, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		s = m.createLocked()
	}
	if s.closed {
		s.closed = false
		s.lastActivity = m.clock.Now()
	}
	id = s.id
	snap := s.snapshot()
	m.mu.Unlock()

	if strings.TrimSpace(pending) == "" {
		return snap, nil
	}
	return m.Send(ctx, id, pending)
}

// Close marks the session closed. A reply still in flight is discarded when
// it arrives.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.closed = true
	s.busy = false
	s.generation++
	s.lastActivity = m.clock.Now()
	return nil
}

// Send appends the user message, asks the completer once and appends the
// reply. If the completer fails, a single fallback message with the contact
// phone is appended instead and the send itself succeeds.
func (m *Manager) Send(ctx context.Context, id, text string) (Snapshot, error) {
	if strings.TrimSpace(text) == "" {
		return Snapshot{}, ErrEmptyMessage
	}

	m.mu.Lock()
	s, ok := m.sessions[id]
	switch {
	case !ok:
		m.mu.Unlock()
		return Snapshot{}, ErrSessionNotFound
	case s.closed:
		m.mu.Unlock()
		return Snapshot{}, ErrSessionClosed
	case s.busy:
		m.mu.Unlock()
		return Snapshot{}, ErrBusy
	}
	history := append([]Message(nil), s.messages...)
	s.messages = append(s.messages, Message{Role: RoleUser, Text: text})
	s.suggestions = nil
	s.busy = true
	s.lastActivity = m.clock.Now()
	gen := s.generation
	m.mu.Unlock()

	reply, err := m.complete(ctx, history, text)

	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.sessions[id]; !ok || cur != s || s.generation != gen {
		m.log.InfoContext(ctx, "Discarding reply for closed chat session", "session_id", id)
		return Snapshot{}, ErrSessionClosed
	}

	s.busy = false
	s.lastActivity = m.clock.Now()
	if err != nil {
		m.log.WarnContext(ctx, "Chat completion failed, showing fallback", "session_id", id, "error", err)
		s.messages = append(s.messages, m.assistant(m.fallback))
		return s.snapshot(), nil
	}

	clean, suggestions := ParseReply(reply)
	s.messages = append(s.messages, m.assistant(clean))
	s.suggestions = suggestions
	return s.snapshot(), nil
}

func (m *Manager) assistant(text string) Message {
	msg := Message{Role: RoleAssistant, Text: text}
	if m.render != nil {
		msg.HTML = m.render(text)
	}
	return msg
}

func (m *Manager) complete(ctx context.Context, history []Message, text string) (string, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	reply, err := m.completer.Complete(ctx, history, text)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	return reply, nil
}

// Notice appends an assistant message from outside the conversation, such
// as the voice-call summary, and replaces the suggestions.
func (m *Manager) Notice(id, text string, suggestions []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.messages = append(s.messages, m.assistant(text))
	s.suggestions = append([]string(nil), suggestions...)
	s.lastActivity = m.clock.Now()
	return nil
}

// Sweep evicts sessions idle for longer than ttl and returns how many were
// removed. Sessions with a reply in flight are kept.
func (m *Manager) Sweep(ttl time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.clock.Now().Add(-ttl)
	removed := 0
	for id, s := range m.sessions {
		if s.busy || s.lastActivity.After(cutoff) {
			continue
		}
		delete(m.sessions, id)
		removed++
	}
	if removed > 0 {
		m.log.Info("Evicted idle chat sessions", "removed", removed, "remaining", len(m.sessions))
	}
	return removed
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
