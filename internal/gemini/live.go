package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/gorilla/websocket"
	"google.golang.org/genai"

	"github.com/edgard/robornet/internal/audio"
	"github.com/edgard/robornet/internal/config"
	"github.com/edgard/robornet/internal/voice"
)

// liveConn is the part of genai.Session the bridge uses.
type liveConn interface {
	SendClientContent(input genai.LiveClientContentInput) error
	SendRealtimeInput(input genai.LiveRealtimeInput) error
	Receive() (*genai.LiveServerMessage, error)
	Close() error
}

// LiveConnector opens Gemini Live sessions answering with audio in a
// prebuilt voice, with transcription of both sides enabled.
type LiveConnector struct {
	live      *genai.Live
	model     string
	config    *genai.LiveConnectConfig
	inputMIME string
}

var _ voice.Connector = (*LiveConnector)(nil)

// NewLiveConnector configures live sessions for cfg using instruction as the
// system prompt.
func NewLiveConnector(gi *genai.Client, cfg config.VoiceConfig, instruction string) *LiveConnector {
	return &LiveConnector{
		live:      gi.Live,
		model:     cfg.ModelName,
		config:    liveConfig(cfg, instruction),
		inputMIME: audio.MIMEType(cfg.InputSampleRate),
	}
}

func liveConfig(cfg config.VoiceConfig, instruction string) *genai.LiveConnectConfig {
	return &genai.LiveConnectConfig{
		ResponseModalities: []genai.Modality{genai.ModalityAudio},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: cfg.VoiceName},
			},
		},
		SystemInstruction:        &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
		InputAudioTranscription:  &genai.AudioTranscriptionConfig{},
		OutputAudioTranscription: &genai.AudioTranscriptionConfig{},
	}
}

// Connect implements voice.Connector.
func (c *LiveConnector) Connect(ctx context.Context) (voice.LiveSession, error) {
	s, err := c.live.Connect(ctx, c.model, c.config)
	if err != nil {
		return nil, fmt.Errorf("failed to open live session: %w", err)
	}
	return &liveSession{conn: s, inputMIME: c.inputMIME}, nil
}

type liveSession struct {
	conn      liveConn
	inputMIME string
}

func (s *liveSession) SendText(text string) error {
	return s.conn.SendClientContent(genai.LiveClientContentInput{
		Turns:        []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		TurnComplete: genai.Ptr(true),
	})
}

func (s *liveSession) SendAudio(pcm []byte) error {
	return s.conn.SendRealtimeInput(genai.LiveRealtimeInput{
		Media: &genai.Blob{MIMEType: s.inputMIME, Data: pcm},
	})
}

func (s *liveSession) Receive() (voice.ServerEvent, error) {
	for {
		msg, err := s.conn.Receive()
		if err != nil {
			if isNormalClose(err) {
				return voice.ServerEvent{}, voice.ErrLiveClosed
			}
			return voice.ServerEvent{}, err
		}
		if ev, ok := toServerEvent(msg); ok {
			return ev, nil
		}
	}
}

func (s *liveSession) Close() error {
	return s.conn.Close()
}

func isNormalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}

// toServerEvent keeps the server content of msg. Messages without content
// (setup acks, usage metadata, go-away notices) report ok=false.
func toServerEvent(msg *genai.LiveServerMessage) (voice.ServerEvent, bool) {
	if msg == nil || msg.ServerContent == nil {
		return voice.ServerEvent{}, false
	}
	sc := msg.ServerContent

	ev := voice.ServerEvent{
		Interrupted:  sc.Interrupted,
		TurnComplete: sc.TurnComplete,
	}
	if sc.InputTranscription != nil {
		ev.InputTranscript = sc.InputTranscription.Text
	}
	if sc.OutputTranscription != nil {
		ev.OutputTranscript = sc.OutputTranscription.Text
	}
	if sc.ModelTurn != nil {
		for _, p := range sc.ModelTurn.Parts {
			if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
				ev.Audio = p.InlineData.Data
				break
			}
		}
	}
	return ev, true
}
