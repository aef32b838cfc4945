package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	breaker := NewCircuitBreaker(2, time.Minute, 1)

	if err := breaker.Allow(); err != nil {
		t.Fatalf("closed breaker must allow: %v", err)
	}
	breaker.RecordFailure()
	breaker.RecordFailure()

	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if breaker.State() != CircuitStateOpen {
		t.Fatalf("expected open state, got %s", breaker.State())
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	breaker := NewCircuitBreaker(1, time.Minute, 1)
	current := time.Unix(1700000000, 0)
	breaker.now = func() time.Time { return current }

	breaker.RecordFailure()
	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}

	current = current.Add(2 * time.Minute)
	if err := breaker.Allow(); err != nil {
		t.Fatalf("half-open probe must be allowed: %v", err)
	}
	breaker.RecordSuccess()

	if breaker.State() != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", breaker.State())
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	breaker := NewCircuitBreaker(1, time.Minute, 1)
	current := time.Unix(1700000000, 0)
	breaker.now = func() time.Time { return current }

	breaker.RecordFailure()
	current = current.Add(2 * time.Minute)
	if err := breaker.Allow(); err != nil {
		t.Fatalf("half-open probe must be allowed: %v", err)
	}
	breaker.RecordFailure()

	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected reopened circuit, got %v", err)
	}
}
