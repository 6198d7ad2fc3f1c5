package httpx

import (
	"testing"
	"time"
)

func TestBackoffGrowsAndCaps(t *testing.T) {
	b := NewBackoff(100*time.Millisecond, time.Second, 0)

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, time.Second},
		{20, time.Second},
	}
	for _, tc := range cases {
		if got := b.ForAttempt(tc.attempt); got != tc.want {
			t.Fatalf("ForAttempt(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}

func TestBackoffDefaults(t *testing.T) {
	b := NewBackoff(0, 0, -1)
	if b.BaseDelay != 50*time.Millisecond {
		t.Fatalf("BaseDelay = %v", b.BaseDelay)
	}
	if b.MaxDelay != time.Second {
		t.Fatalf("MaxDelay = %v", b.MaxDelay)
	}
	if b.Jitter != 0 {
		t.Fatalf("Jitter = %v", b.Jitter)
	}
}

func TestBackoffJitterStaysBounded(t *testing.T) {
	b := NewBackoff(100*time.Millisecond, time.Second, 0.5)
	for i := 0; i < 100; i++ {
		got := b.ForAttempt(1)
		if got < 100*time.Millisecond || got > 300*time.Millisecond {
			t.Fatalf("jittered delay %v outside [100ms, 300ms]", got)
		}
	}
}
