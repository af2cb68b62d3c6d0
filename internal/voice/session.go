package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/robornet/internal/audio"
	"github.com/edgard/robornet/internal/lead"
)

// LeadSubmitter queues a lead for relay without blocking.
type LeadSubmitter interface {
	Submit(l lead.Lead) bool
}

// Options configures a Session.
type Options struct {
	Connector Connector
	Relay     LeadSubmitter
	Extractor lead.Extractor
	Clock     clockwork.Clock
	Logger    *slog.Logger

	OutputSampleRate int
	PlaybackLead     time.Duration
	ConnectTimeout   time.Duration

	// Kickoff is sent as the first client turn once connected.
	Kickoff string

	// OnEnded, if set, receives the closing notice of a conversation that
	// produced a transcript.
	OnEnded func(message string, suggestions []string)
}

// Session drives one voice conversation for one browser connection.
type Session struct {
	opts   Options
	log    *slog.Logger
	sink   Sink
	player *Player

	audioIn chan []byte

	mu      sync.Mutex
	machine *Machine
	acc     Accumulator
	gen     uint64
	cancel  context.CancelFunc

	wg sync.WaitGroup
}

// NewSession creates an idle session writing to sink.
func NewSession(sink Sink, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Extractor == nil {
		opts.Extractor = lead.RegexExtractor{}
	}
	if opts.OutputSampleRate <= 0 {
		opts.OutputSampleRate = audio.OutputSampleRate
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 15 * time.Second
	}
	return &Session{
		opts:    opts,
		log:     opts.Logger.With("component", "voice"),
		sink:    sink,
		player:  NewPlayer(opts.Clock, opts.OutputSampleRate, opts.PlaybackLead),
		audioIn: make(chan []byte, 64),
		machine: NewMachine(),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.State()
}

// Transcript returns the committed turns of the current or last conversation.
func (s *Session) Transcript() []lead.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acc.Turns()
}

// Handle dispatches a browser command.
func (s *Session) Handle(ctx context.Context, cmd Command) error {
	switch cmd.Type {
	case CommandStart:
		return s.Start(ctx)
	case CommandStop:
		s.Stop()
		return nil
	case CommandMicDenied:
		s.MicDenied()
		return nil
	case CommandAudio:
		pcm, err := audio.Decode(cmd.Data)
		if err != nil {
			return err
		}
		s.PushAudio(pcm)
		return nil
	default:
		return fmt.Errorf("unknown voice command %q", cmd.Type)
	}
}

// Start begins connecting to the realtime model. It returns once the session
// is in the connecting state; the outcome is reported through the sink.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if err := s.machine.Transition(StateConnecting); err != nil {
		s.mu.Unlock()
		return err
	}
	s.gen++
	gen := s.gen
	connCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.acc.Reset()
	s.player.Interrupt()
	s.drainAudio()
	s.mu.Unlock()

	s.emit(Event{Type: EventStatus, State: StateConnecting})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.connect(connCtx, gen)
	}()
	return nil
}

func (s *Session) connect(ctx context.Context, gen uint64) {
	dialCtx, cancelDial := context.WithTimeout(ctx, s.opts.ConnectTimeout)
	live, err := s.opts.Connector.Connect(dialCtx)
	cancelDial()
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Error("Failed to open live session", "error", err)
		s.fail(gen, MsgConnectFailed+shortError(err))
		return
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		_ = live.Close()
		return
	}
	if err := s.machine.Transition(StateConnected); err != nil {
		s.mu.Unlock()
		_ = live.Close()
		return
	}
	s.mu.Unlock()

	// The live session is closed whenever this connection is torn down.
	stopClose := context.AfterFunc(ctx, func() { _ = live.Close() })
	defer stopClose()

	s.log.Info("Voice session connected")
	s.emit(Event{Type: EventStatus, State: StateConnected})

	if s.opts.Kickoff != "" {
		if err := live.SendText(s.opts.Kickoff); err != nil {
			s.log.Warn("Failed to send kickoff", "error", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.receive(gctx, gen, live) })
	g.Go(func() error { return s.forwardAudio(gctx, live) })
	g.Go(func() error { return s.player.Run(gctx, s.sink.SendAudio) })
	if err := g.Wait(); err != nil {
		s.log.Debug("Voice streams stopped", "error", err)
	}
}

func (s *Session) receive(ctx context.Context, gen uint64, live LiveSession) error {
	for {
		ev, err := live.Receive()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, ErrLiveClosed) {
				s.fail(gen, MsgSessionClosed)
			} else {
				s.log.Warn("Live session error", "error", err)
				s.fail(gen, MsgErrorPrefix+shortError(err))
			}
			return nil
		}
		s.apply(gen, ev)
	}
}

func (s *Session) forwardAudio(ctx context.Context, live LiveSession) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case pcm := <-s.audioIn:
			if err := live.SendAudio(pcm); err != nil {
				s.log.Debug("Dropped microphone frame", "error", err)
			}
		}
	}
}

func (s *Session) apply(gen uint64, ev ServerEvent) {
	s.mu.Lock()
	if gen != s.gen || s.machine.State() != StateConnected {
		s.mu.Unlock()
		return
	}

	if ev.Interrupted {
		dropped := s.player.Interrupt()
		s.mu.Unlock()
		s.log.Debug("Playback interrupted", "dropped_chunks", dropped)
		s.emit(Event{Type: EventInterrupted})
		return
	}

	var out []Event
	if strings.TrimSpace(ev.InputTranscript) != "" {
		pending := s.acc.AddUser(ev.InputTranscript)
		out = append(out, Event{Type: EventTranscript, Role: string(lead.RoleUser), Text: pending})
	}
	s.acc.AddAssistant(ev.OutputTranscript)
	if ev.TurnComplete {
		for _, t := range s.acc.Commit() {
			out = append(out, Event{Type: EventTranscript, Role: string(t.Role), Text: t.Text, Final: true})
		}
	}
	if len(ev.Audio) > 0 {
		s.player.Schedule(ev.Audio)
	}
	s.mu.Unlock()

	for _, e := range out {
		s.emit(e)
	}
}

// PushAudio forwards a microphone frame. Frames are dropped when the session
// is not connected or the outbound buffer is full.
func (s *Session) PushAudio(pcm []byte) bool {
	if s.State() != StateConnected {
		return false
	}
	select {
	case s.audioIn <- pcm:
		return true
	default:
		return false
	}
}

// MicDenied reports that the browser could not capture the microphone.
func (s *Session) MicDenied() {
	s.mu.Lock()
	state, gen := s.machine.State(), s.gen
	s.mu.Unlock()
	if state != StateConnecting && state != StateConnected {
		return
	}
	s.fail(gen, MsgMicDenied)
}

// fail moves connection gen to the error state. It is a no-op when gen is no
// longer current.
func (s *Session) fail(gen uint64, msg string) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	if err := s.machine.Transition(StateError); err != nil {
		s.mu.Unlock()
		return
	}
	s.gen++
	s.teardownLocked()
	s.mu.Unlock()

	s.log.Warn("Voice session dropped", "reason", msg)
	s.emit(Event{Type: EventError, Message: msg})
	s.emit(Event{Type: EventStatus, State: StateError, Message: msg})
}

// Stop ends the conversation at the visitor's request. A transcript with at
// least one exchange is handed to the relay without waiting for it.
func (s *Session) Stop() {
	s.mu.Lock()
	switch s.machine.State() {
	case StateIdle, StateEnded:
		s.mu.Unlock()
		return
	case StateError:
		_ = s.machine.Transition(StateIdle)
		s.mu.Unlock()
		s.emit(Event{Type: EventStatus, State: StateIdle})
		return
	}
	s.gen++
	s.teardownLocked()
	_ = s.machine.Transition(StateEnded)
	turns := s.acc.Turns()
	s.mu.Unlock()

	s.submit(turns)
	if len(turns) > 0 {
		s.emit(Event{Type: EventEnded, Message: EndMessage, Suggestions: EndSuggestions})
		if s.opts.OnEnded != nil {
			s.opts.OnEnded(EndMessage, append([]string(nil), EndSuggestions...))
		}
	}

	s.mu.Lock()
	_ = s.machine.Transition(StateIdle)
	s.mu.Unlock()
	s.emit(Event{Type: EventStatus, State: StateIdle})
	s.log.Info("Voice session ended", "turns", len(turns))
}

// Close stops any active conversation and waits for its goroutines.
func (s *Session) Close() {
	s.Stop()
	s.wg.Wait()
}

func (s *Session) submit(turns []lead.Turn) {
	if !HasExchange(turns) || s.opts.Relay == nil {
		return
	}
	l, fields, ok := lead.FromTranscript(turns, s.opts.Extractor)
	if !ok {
		return
	}
	_, hasPhone := fields.Phone.Get()
	if !s.opts.Relay.Submit(l) {
		s.log.Warn("Voice lead was not queued for relay", "name", l.Name)
		return
	}
	s.log.Info("Voice lead queued for relay", "name", l.Name, "has_phone", hasPhone)
}

func (s *Session) teardownLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.player.Interrupt()
}

func (s *Session) drainAudio() {
	for {
		select {
		case <-s.audioIn:
		default:
			return
		}
	}
}

func (s *Session) emit(ev Event) {
	if err := s.sink.SendEvent(ev); err != nil {
		s.log.Debug("Failed to send voice event", "type", ev.Type, "error", err)
	}
}
