package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/edgard/robornet/internal/chat"
	"github.com/edgard/robornet/internal/voice"
)

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type echoLive struct {
	events chan voice.ServerEvent
	done   chan struct{}
	once   sync.Once
}

func (l *echoLive) SendText(string) error      { return nil }
func (l *echoLive) SendAudio(pcm []byte) error { return nil }

func (l *echoLive) Receive() (voice.ServerEvent, error) {
	select {
	case ev := <-l.events:
		return ev, nil
	case <-l.done:
		return voice.ServerEvent{}, voice.ErrLiveClosed
	}
}

func (l *echoLive) Close() error {
	l.once.Do(func() { close(l.done) })
	return nil
}

type echoConnector struct{ live *echoLive }

func (c echoConnector) Connect(context.Context) (voice.LiveSession, error) { return c.live, nil }

func TestVoiceSocket(t *testing.T) {
	t.Parallel()

	live := &echoLive{events: make(chan voice.ServerEvent, 8), done: make(chan struct{})}
	env := newTestEnv(t, stubCompleter{reply: "ok"}, echoConnector{live: live})
	chatSession := env.deps.Chat.Create()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = env.app.Listener(ln) }()
	t.Cleanup(func() { _ = env.app.Shutdown() })

	url := "ws://" + ln.Addr().String() + "/api/voice?chat=" + chatSession.ID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	defer conn.Close()

	next := func(pred func(voice.Event) bool) voice.Event {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if mt != websocket.TextMessage {
				continue
			}
			var ev voice.Event
			if err := json.Unmarshal(data, &ev); err != nil {
				t.Fatalf("event %q: %v", data, err)
			}
			if pred(ev) {
				return ev
			}
		}
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"start"}`)); err != nil {
		t.Fatalf("write start: %v", err)
	}
	next(func(ev voice.Event) bool { return ev.Type == voice.EventStatus && ev.State == voice.StateConnected })

	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{0, 0, 1, 0}); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	live.events <- voice.ServerEvent{InputTranscript: "Алло", OutputTranscript: "Здравствуйте!", TurnComplete: true}
	next(func(ev voice.Event) bool { return ev.Type == voice.EventTranscript && ev.Final && ev.Role == "assistant" })

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"stop"}`)); err != nil {
		t.Fatalf("write stop: %v", err)
	}
	ended := next(func(ev voice.Event) bool { return ev.Type == voice.EventEnded })
	if ended.Message != voice.EndMessage {
		t.Errorf("ended message = %q", ended.Message)
	}
	next(func(ev voice.Event) bool { return ev.Type == voice.EventStatus && ev.State == voice.StateIdle })

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`not json`)); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	next(func(ev voice.Event) bool { return ev.Type == voice.EventError })

	snap, err := env.deps.Chat.Get(chatSession.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	last := snap.Messages[len(snap.Messages)-1]
	if last.Role != chat.RoleAssistant || last.Text != voice.EndMessage {
		t.Errorf("chat notice = %+v, want the voice end message", last)
	}
}
