package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 100; i++ {
		if !limiter.Allow("openai") {
			t.Fatalf("request %d rejected by unlimited limiter", i)
		}
	}
}

func TestLimiter_WaitURL(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.WaitURL(ctx, "http://example.com/foo"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	if err := limiter.WaitURL(ctx, "not a url"); err == nil {
		t.Error("expected error for url without host")
	}
}

func TestLimiter_Delay(t *testing.T) {
	limiter := NewLimiter(100, 1)
	limiter.SetDelay("example.com", 50*time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	if err := limiter.WaitURL(ctx, "http://EXAMPLE.com/report"); err != nil {
		t.Fatalf("WaitURL failed: %v", err)
	}

	if d := time.Since(start); d < 50*time.Millisecond {
		t.Errorf("expected delay >= 50ms, got %v", d)
	}

	limiter.SetDelay("example.com", 0)
	if limiter.delay("example.com") != 0 {
		t.Error("expected delay to be cleared")
	}
}

func TestLimiter_DelayCancelled(t *testing.T) {
	limiter := NewLimiter(100, 1)
	limiter.SetDelay("slow.com", time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "slow.com"); err == nil {
		t.Error("expected context error during delay")
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	// 1 rps, burst 1
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("example.com") {
		t.Errorf("first request should pass")
	}

	if limiter.Allow("example.com") {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	// Different key should be allowed
	if !limiter.Allow("other.com") {
		t.Errorf("expected allow for other key")
	}
}

func TestLimiter_SetRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	limiter.SetRate("slow.com", 0.1, 1)

	if !limiter.Allow("slow.com") {
		t.Errorf("first request should pass")
	}
	if limiter.Allow("slow.com") {
		t.Errorf("second request should fail")
	}
	if !limiter.Allow("fast.com") {
		t.Errorf("other key should pass")
	}
}

func TestHostOf(t *testing.T) {
	host, err := HostOf("http://Example.com/foo")
	if err != nil {
		t.Fatalf("HostOf failed: %v", err)
	}
	if host != "example.com" {
		t.Errorf("expected example.com, got %s", host)
	}

	if _, err := HostOf("::invalid"); err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
