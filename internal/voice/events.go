package voice

import (
	"context"
	"errors"
)

// Event types sent to the browser as JSON text frames. Playback audio goes
// out as binary frames.
const (
	EventStatus      = "status"
	EventTranscript  = "transcript"
	EventInterrupted = "interrupted"
	EventError       = "error"
	EventEnded       = "ended"
)

// Commands the browser sends as JSON text frames. Microphone audio comes in
// as binary frames.
const (
	CommandStart     = "start"
	CommandStop      = "stop"
	CommandMicDenied = "mic_denied"
	CommandAudio     = "audio"
)

// Event is a server-to-browser message.
type Event struct {
	Type        string   `json:"type"`
	State       State    `json:"state,omitempty"`
	Role        string   `json:"role,omitempty"`
	Text        string   `json:"text,omitempty"`
	Final       bool     `json:"final,omitempty"`
	Message     string   `json:"message,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Command is a browser-to-server message. Data carries base64 PCM16 for
// CommandAudio.
type Command struct {
	Type string `json:"type"`
	Data string `json:"data,omitempty"`
}

// User-facing texts.
const (
	MsgSessionClosed = "Сессия завершена"
	MsgErrorPrefix   = "Ошибка: "
	MsgConnectFailed = "Не удалось подключиться: "
	MsgMicDenied     = "Нет доступа к микрофону"
	EndMessage       = "Голосовой разговор завершён. Ваша заявка обработана. Если есть вопросы — напишите!"
)

// EndSuggestions are offered after a voice conversation with a transcript.
var EndSuggestions = []string{"Уточнить тариф 📋", "Позвонить сейчас 📞", "Написать в Telegram 💬"}

// ErrLiveClosed is returned by LiveSession.Receive when the remote side
// closed the session normally.
var ErrLiveClosed = errors.New("live session closed")

// ServerEvent is one message from the realtime model, reduced to what the
// session acts on. Audio holds the first inline audio part, if any.
type ServerEvent struct {
	Interrupted      bool
	InputTranscript  string
	OutputTranscript string
	TurnComplete     bool
	Audio            []byte
}

// LiveSession is an open realtime connection.
type LiveSession interface {
	SendText(text string) error
	SendAudio(pcm []byte) error
	// Receive blocks for the next server message. It returns ErrLiveClosed
	// on a normal remote close.
	Receive() (ServerEvent, error)
	Close() error
}

// Connector opens realtime sessions.
type Connector interface {
	Connect(ctx context.Context) (LiveSession, error)
}

// Sink is the browser side of a session. Implementations serialize writes.
type Sink interface {
	SendEvent(ev Event) error
	SendAudio(pcm []byte) error
}

func shortError(err error) string {
	r := []rune(err.Error())
	if len(r) > 80 {
		r = r[:80]
	}
	return string(r)
}
