package httpapi

import (
	"testing"
	"time"
)

func TestLoginLimiterBlocksEleventhAttempt(t *testing.T) {
	l := newLoginLimiter()
	now := time.Now()

	for i := 0; i < 10; i++ {
		if !l.Allow("ip:1.2.3.4", now.Add(time.Duration(i)*time.Second)) {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("ip:1.2.3.4", now.Add(10*time.Second)) {
		t.Fatalf("11th attempt should be blocked")
	}
	if !l.Allow("ip:5.6.7.8", now.Add(10*time.Second)) {
		t.Fatalf("other keys are independent")
	}
	if !l.Allow("ip:1.2.3.4", now.Add(5*time.Minute+time.Second)) {
		t.Fatalf("attempts should be allowed again after the window")
	}
}
