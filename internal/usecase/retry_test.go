package usecase

import (
	"testing"
	"time"
)

func TestRetryPolicyNextDelay(t *testing.T) {
	p := DefaultRetryPolicy()

	tests := []struct {
		attempt   int
		wantDelay time.Duration
		wantOK    bool
	}{
		{1, time.Second, true},
		{2, 2 * time.Second, true},
		{3, 0, false}, // max attempts reached
		{4, 0, false},
	}
	for _, tt := range tests {
		delay, ok := p.NextDelay(tt.attempt)
		if delay != tt.wantDelay || ok != tt.wantOK {
			t.Errorf("NextDelay(%d) = (%v, %v), want (%v, %v)",
				tt.attempt, delay, ok, tt.wantDelay, tt.wantOK)
		}
	}
}

func TestRetryPolicyDelayCap(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 10, BaseDelay: time.Second, MaxDelay: 10 * time.Second}

	delay, ok := p.NextDelay(6) // 1s * 2^5 = 32s, capped
	if !ok {
		t.Fatal("attempt 6 of 10 must allow another try")
	}
	if delay != 10*time.Second {
		t.Errorf("delay = %v, want cap 10s", delay)
	}
}

func TestRetryPolicyConfigurableMax(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 1, BaseDelay: time.Second, MaxDelay: 10 * time.Second}
	if _, ok := p.NextDelay(1); ok {
		t.Error("single-attempt policy must stop after the first failure")
	}
}
