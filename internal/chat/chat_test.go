package chat_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonboulle/clockwork"

	"github.com/edgard/robornet/internal/chat"
	"github.com/edgard/robornet/internal/sanitize"
)

type stubCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	history [][]chat.Message
	texts   []string
	// release, when set, blocks Complete until closed.
	release chan struct{}
	started chan struct{}
}

func (s *stubCompleter) Complete(ctx context.Context, history []chat.Message, text string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.history = append(s.history, history)
	s.texts = append(s.texts, text)
	release, started := s.release, s.started
	s.mu.Unlock()

	if started != nil {
		close(started)
	}
	if release != nil {
		<-release
	}
	return s.reply, s.err
}

func TestParseReply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		in              string
		wantText        string
		wantSuggestions []string
	}{
		{
			name:            "chips at the end",
			in:              "Рекомендую **Оптимум** за 699 ₽.\n💡 \"Подключить Оптимум\" \"Сравнить тарифы\"",
			wantText:        "Рекомендую **Оптимум** за 699 ₽.",
			wantSuggestions: []string{"Подключить Оптимум", "Сравнить тарифы"},
		},
		{
			name:     "no chips",
			in:       "  Здравствуйте!  ",
			wantText: "Здравствуйте!",
		},
		{
			name:            "several lines",
			in:              "💡 \"A\"\nТекст\n💡 \"B\" и \"C\"",
			wantText:        "Текст",
			wantSuggestions: []string{"A", "B", "C"},
		},
		{
			name:     "marker without quotes",
			in:       "Ответ\n💡 варианты потом",
			wantText: "Ответ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			text, sugg := chat.ParseReply(tt.in)
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if diff := cmp.Diff(tt.wantSuggestions, sugg, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCreateSeedsGreeting(t *testing.T) {
	t.Parallel()

	m := chat.NewManager(&stubCompleter{}, chat.Options{})
	snap := m.Create()

	want := []chat.Message{{Role: chat.RoleAssistant, Text: chat.Greeting}}
	if diff := cmp.Diff(want, snap.Messages); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(chat.InitialSuggestions, snap.Suggestions); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestSend(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{reply: "Есть четыре тарифа.\n💡 \"Самый быстрый\""}
	m := chat.NewManager(stub, chat.Options{})
	id := m.Create().ID

	snap, err := m.Send(context.Background(), id, "Какие тарифы есть?")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	want := []chat.Message{
		{Role: chat.RoleAssistant, Text: chat.Greeting},
		{Role: chat.RoleUser, Text: "Какие тарифы есть?"},
		{Role: chat.RoleAssistant, Text: "Есть четыре тарифа."},
	}
	if diff := cmp.Diff(want, snap.Messages); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Самый быстрый"}, snap.Suggestions); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
	if stub.calls != 1 {
		t.Errorf("completer called %d times, want 1", stub.calls)
	}
	// History excludes the message being answered.
	if diff := cmp.Diff(want[:1], stub.history[0]); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestSendRendersAssistantHTML(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{reply: "Тариф **Оптимум**\n💡 \"Подключить\""}
	m := chat.NewManager(stub, chat.Options{Render: sanitize.NewChatPolicy().HTML})
	id := m.Create().ID

	snap, err := m.Send(context.Background(), id, "<b>привет</b>")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got := snap.Messages[0].HTML; got == "" {
		t.Error("greeting HTML is empty")
	}
	if got := snap.Messages[1]; got.HTML != "" || got.Text != "<b>привет</b>" {
		t.Errorf("user message = %+v, want raw text without HTML", got)
	}
	if got, want := snap.Messages[2].HTML, "<p>Тариф <strong>Оптимум</strong></p>"; got != want {
		t.Errorf("reply HTML = %q, want %q", got, want)
	}
}

func TestSendFailureAppendsSingleFallback(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{err: errors.New("unavailable")}
	m := chat.NewManager(stub, chat.Options{FallbackPhone: "50-50-34"})
	id := m.Create().ID

	snap, err := m.Send(context.Background(), id, "Привет")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if stub.calls != 1 {
		t.Errorf("completer called %d times, want exactly 1", stub.calls)
	}
	last := snap.Messages[len(snap.Messages)-1]
	if last.Role != chat.RoleAssistant || last.Text != "Ошибка соединения. Позвоните нам: 50-50-34" {
		t.Errorf("last message = %+v, want fallback", last)
	}
	if len(snap.Messages) != 3 || len(snap.Suggestions) != 0 || snap.Busy {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestSendRejections(t *testing.T) {
	t.Parallel()

	m := chat.NewManager(&stubCompleter{reply: "ok"}, chat.Options{})
	id := m.Create().ID
	ctx := context.Background()

	if _, err := m.Send(ctx, id, "   "); !errors.Is(err, chat.ErrEmptyMessage) {
		t.Errorf("Send(blank) error = %v, want ErrEmptyMessage", err)
	}
	if _, err := m.Send(ctx, "missing", "hi"); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Errorf("Send(unknown) error = %v, want ErrSessionNotFound", err)
	}
	if err := m.Close(id); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := m.Send(ctx, id, "hi"); !errors.Is(err, chat.ErrSessionClosed) {
		t.Errorf("Send(closed) error = %v, want ErrSessionClosed", err)
	}
}

func TestSendWhileBusy(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{reply: "ok", release: make(chan struct{}), started: make(chan struct{})}
	m := chat.NewManager(stub, chat.Options{})
	id := m.Create().ID
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := m.Send(ctx, id, "first")
		done <- err
	}()
	<-stub.started

	if _, err := m.Send(ctx, id, "second"); !errors.Is(err, chat.ErrBusy) {
		t.Errorf("concurrent Send() error = %v, want ErrBusy", err)
	}
	close(stub.release)
	if err := <-done; err != nil {
		t.Fatalf("first Send() error = %v", err)
	}
}

func TestReplyAfterCloseIsDiscarded(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{reply: "late reply", release: make(chan struct{}), started: make(chan struct{})}
	m := chat.NewManager(stub, chat.Options{})
	id := m.Create().ID

	done := make(chan error, 1)
	go func() {
		_, err := m.Send(context.Background(), id, "question")
		done <- err
	}()
	<-stub.started

	if err := m.Close(id); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	close(stub.release)

	if err := <-done; !errors.Is(err, chat.ErrSessionClosed) {
		t.Fatalf("Send() error = %v, want ErrSessionClosed", err)
	}
	snap, err := m.Get(id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	for _, msg := range snap.Messages {
		if msg.Text == "late reply" {
			t.Fatal("reply that arrived after close was applied")
		}
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{reply: "Подключим!"}
	m := chat.NewManager(stub, chat.Options{})
	ctx := context.Background()

	snap, err := m.Open(ctx, "", "")
	if err != nil || snap.ID == "" || len(snap.Messages) != 1 {
		t.Fatalf("Open(new) = %+v, %v", snap, err)
	}
	id := snap.ID

	if err := m.Close(id); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	snap, err = m.Open(ctx, id, "Хочу подключить интернет")
	if err != nil {
		t.Fatalf("Open(pending) error = %v", err)
	}
	if snap.ID != id || snap.Closed || len(snap.Messages) != 3 {
		t.Errorf("Open(pending) = %+v, want reopened session with the pending exchange", snap)
	}
	if stub.texts[0] != "Хочу подключить интернет" {
		t.Errorf("completer got %q", stub.texts[0])
	}
}

func TestNotice(t *testing.T) {
	t.Parallel()

	m := chat.NewManager(&stubCompleter{}, chat.Options{})
	id := m.Create().ID

	if err := m.Notice(id, "Голосовой разговор завершён.", []string{"Уточнить тариф 📋"}); err != nil {
		t.Fatalf("Notice() error = %v", err)
	}
	snap, _ := m.Get(id)
	if got := snap.Messages[len(snap.Messages)-1].Text; got != "Голосовой разговор завершён." {
		t.Errorf("last message = %q", got)
	}
	if diff := cmp.Diff([]string{"Уточнить тариф 📋"}, snap.Suggestions); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
	if err := m.Notice("missing", "x", nil); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Errorf("Notice(unknown) error = %v", err)
	}
}

func TestSweep(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	m := chat.NewManager(&stubCompleter{reply: "ok"}, chat.Options{Clock: clock})
	old := m.Create().ID
	clock.Advance(90 * time.Minute)
	fresh := m.Create().ID
	clock.Advance(40 * time.Minute)

	if removed := m.Sweep(2 * time.Hour); removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if _, err := m.Get(old); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Errorf("Get(old) error = %v, want ErrSessionNotFound", err)
	}
	if _, err := m.Get(fresh); err != nil {
		t.Errorf("Get(fresh) error = %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}
