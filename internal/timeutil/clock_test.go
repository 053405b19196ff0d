package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := RealClock{}
	before := time.Now()
	now := clock.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Errorf("Now() = %v, expected between %v and %v", now, before, after)
	}
}

func TestRealClock_Since(t *testing.T) {
	clock := RealClock{}
	past := time.Now().Add(-time.Second)
	if d := clock.Since(past); d < time.Second {
		t.Errorf("Since() returned %v, expected >= 1s", d)
	}
}

func TestMockClock_Advance(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	if got := clock.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}

	clock.Advance(90 * time.Second)
	if got := clock.Since(start); got != 90*time.Second {
		t.Errorf("Since(start) = %v, want 90s", got)
	}
}

func TestMockClock_SleepAdvances(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	clock.Sleep(50 * time.Millisecond)
	clock.Sleep(50 * time.Millisecond)

	if got := clock.Since(start); got != 100*time.Millisecond {
		t.Errorf("clock advanced %v during sleeps, want 100ms", got)
	}
	if sleeps := clock.Sleeps(); len(sleeps) != 2 {
		t.Errorf("recorded %d sleeps, want 2", len(sleeps))
	}
}

func TestMockClock_Set(t *testing.T) {
	clock := NewMockClock(time.Unix(0, 0))
	target := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock.Set(target)
	if got := clock.Now(); !got.Equal(target) {
		t.Errorf("Now() = %v, want %v", got, target)
	}
}
