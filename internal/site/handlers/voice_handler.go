package handlers

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/edgard/robornet/internal/voice"
)

// wsSink serializes writes to the socket.
type wsSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSink) SendEvent(ev voice.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(ev)
}

func (s *wsSink) SendAudio(pcm []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.BinaryMessage, pcm)
}

// NewVoiceHandler bridges one WebSocket to one voice session. Binary frames
// are microphone PCM; text frames are JSON commands. Passing ?chat=<id> posts
// the closing notice into that chat session.
func NewVoiceHandler(deps HandlerDeps) fiber.Handler {
	log := deps.Logger.With("handler", "voice")

	return websocket.New(func(c *websocket.Conn) {
		sink := &wsSink{conn: c}

		opts := deps.Voice
		if chatID := c.Query("chat"); chatID != "" && deps.Chat != nil {
			opts.OnEnded = func(message string, suggestions []string) {
				if err := deps.Chat.Notice(chatID, message, suggestions); err != nil {
					log.Debug("Could not post voice notice to chat", "chat_id", chatID, "error", err)
				}
			}
		}

		ctx, cancel := context.WithCancel(context.Background())
		session := voice.NewSession(sink, opts)
		defer func() {
			session.Close()
			cancel()
		}()

		log.Info("Voice socket opened")
		for {
			mt, data, err := c.ReadMessage()
			if err != nil {
				log.Debug("Voice socket closed", "error", err)
				return
			}

			switch mt {
			case websocket.BinaryMessage:
				session.PushAudio(data)
			case websocket.TextMessage:
				var cmd voice.Command
				if err := json.Unmarshal(data, &cmd); err != nil {
					_ = sink.SendEvent(voice.Event{Type: voice.EventError, Message: "invalid command"})
					continue
				}
				if err := session.Handle(ctx, cmd); err != nil {
					log.Debug("Voice command rejected", "command", cmd.Type, "error", err)
					_ = sink.SendEvent(voice.Event{Type: voice.EventError, Message: err.Error()})
				}
			}
		}
	})
}
