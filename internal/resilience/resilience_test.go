package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errBackend = errors.New("backend down")

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "relay", MaxFailures: 2, Cooldown: time.Hour})
	calls := 0
	failing := func(context.Context) error {
		calls++
		return errBackend
	}

	for i := 0; i < 2; i++ {
		if err := cb.Execute(context.Background(), failing); !errors.Is(err, errBackend) {
			t.Fatalf("Execute() #%d error = %v, want %v", i, err, errBackend)
		}
	}
	if cb.State() != StateOpen {
		t.Fatalf("State() = %v, want OPEN", cb.State())
	}

	err := cb.Execute(context.Background(), failing)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("Execute() while open error = %v, want ErrCircuitOpen", err)
	}
	if calls != 2 {
		t.Errorf("operation called %d times, want 2", calls)
	}
}

func TestCircuitBreakerRecoversAfterCooldown(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "relay", MaxFailures: 1, Cooldown: 20 * time.Millisecond})
	_ = cb.Execute(context.Background(), func(context.Context) error { return errBackend })
	if cb.State() != StateOpen {
		t.Fatalf("State() = %v, want OPEN", cb.State())
	}

	time.Sleep(50 * time.Millisecond)
	if err := cb.Execute(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("Execute() trial call error = %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("State() after trial call = %v, want CLOSED", cb.State())
	}
}

func TestCircuitBreakerIgnoresCancellation(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "relay", MaxFailures: 1, Cooldown: time.Hour})
	err := cb.Execute(context.Background(), func(context.Context) error { return context.Canceled })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Execute() error = %v, want context.Canceled", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("State() = %v, want CLOSED", cb.State())
	}
}

func TestCircuitBreakerWrapsDeadline(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "relay", Timeout: 10 * time.Millisecond})
	err := cb.Execute(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, ErrTimeout) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Execute() error = %v, want ErrTimeout wrapping DeadlineExceeded", err)
	}
}

func TestCircuitStateString(t *testing.T) {
	t.Parallel()

	tests := map[CircuitState]string{
		StateClosed:     "CLOSED",
		StateHalfOpen:   "HALF-OPEN",
		StateOpen:       "OPEN",
		CircuitState(9): "UNKNOWN",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("CircuitState(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
