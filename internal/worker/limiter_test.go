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
	if l2.defaultBurst != 2 {
		t.Errorf("expected default burst 2 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "groq"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// A different provider has its own bucket
	if err := limiter.Wait(ctx, "ollama"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx, "groq"); err != nil {
			t.Fatalf("wait failed: %v", err)
		}
	}
	elapsed := time.Since(start)

	// 100 rps with burst 1: second and third calls wait ~10ms each
	if elapsed < 15*time.Millisecond {
		t.Errorf("expected pacing delay, got %v", elapsed)
	}
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("groq") {
		t.Error("first call should be allowed")
	}
	if limiter.Allow("groq") {
		t.Error("second immediate call should be throttled")
	}

	// Other providers are unaffected
	if !limiter.Allow("ollama") {
		t.Error("different provider should have its own budget")
	}
}

func TestLimiter_SetProviderRate(t *testing.T) {
	limiter := NewLimiter(1, 1)
	limiter.SetProviderRate("ollama", 1000, 10)

	for i := 0; i < 10; i++ {
		if !limiter.Allow("ollama") {
			t.Fatalf("call %d should fit in the raised burst", i)
		}
	}

	if !limiter.Allow("groq") {
		t.Error("default provider should still allow its first call")
	}
	if limiter.Allow("groq") {
		t.Error("default provider should keep the default burst")
	}
}

func TestLimiter_WaitCanceled(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	ctx, cancel := context.WithCancel(context.Background())

	// Drain the burst so the next Wait blocks
	if err := limiter.Wait(ctx, "groq"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	cancel()
	if err := limiter.Wait(ctx, "groq"); err == nil {
		t.Error("expected error from canceled context")
	}
}
