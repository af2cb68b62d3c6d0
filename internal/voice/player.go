package voice

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/edgard/robornet/internal/audio"
)

type scheduledChunk struct {
	start time.Time
	data  []byte
}

// Player schedules model audio for gapless playback. Each chunk starts at the
// later of "now" and the end of the previous chunk. Chunks are handed to the
// browser at most lead ahead of their start time, so an interruption only
// has to flush what the browser already buffered.
type Player struct {
	clock clockwork.Clock
	rate  int
	lead  time.Duration

	mu    sync.Mutex
	queue []scheduledChunk
	next  time.Time

	wake chan struct{}
}

// NewPlayer creates a player for PCM16 mono audio at rate.
func NewPlayer(clock clockwork.Clock, rate int, lead time.Duration) *Player {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if rate <= 0 {
		rate = audio.OutputSampleRate
	}
	return &Player{
		clock: clock,
		rate:  rate,
		lead:  lead,
		wake:  make(chan struct{}, 1),
	}
}

// Schedule queues a chunk and returns its start time.
func (p *Player) Schedule(data []byte) time.Time {
	p.mu.Lock()
	now := p.clock.Now()
	start := p.next
	if start.Before(now) {
		start = now
	}
	p.next = start.Add(audio.Duration(data, p.rate))
	p.queue = append(p.queue, scheduledChunk{start: start, data: data})
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
	return start
}

// Interrupt drops every queued chunk and resets the playback clock so the
// next chunk starts immediately. It returns how many chunks were dropped.
func (p *Player) Interrupt() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.queue)
	p.queue = nil
	p.next = time.Time{}
	return n
}

// Speaking reports whether scheduled audio is still playing.
func (p *Player) Speaking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clock.Now().Before(p.next)
}

// Pending returns the number of chunks not yet handed out.
func (p *Player) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Due pops the chunks whose start time is within lead of now, in order.
func (p *Player) Due() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	horizon := p.clock.Now().Add(p.lead)
	var out [][]byte
	for len(p.queue) > 0 && !p.queue[0].start.After(horizon) {
		out = append(out, p.queue[0].data)
		p.queue = p.queue[1:]
	}
	return out
}

func (p *Player) untilNext() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return 0, false
	}
	wait := p.queue[0].start.Sub(p.clock.Now()) - p.lead
	if wait < 0 {
		wait = 0
	}
	return wait, true
}

// Run hands due chunks to out until ctx is done or out fails.
func (p *Player) Run(ctx context.Context, out func([]byte) error) error {
	for {
		for _, chunk := range p.Due() {
			if err := out(chunk); err != nil {
				return err
			}
		}

		var (
			timer clockwork.Timer
			fire  <-chan time.Time
		)
		if wait, ok := p.untilNext(); ok {
			timer = p.clock.NewTimer(wait)
			fire = timer.Chan()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case <-p.wake:
		case <-fire:
		}
		if timer != nil {
			timer.Stop()
		}
	}
}
