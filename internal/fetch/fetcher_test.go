package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/liuharry07/Connections-See-It/internal/browser"
)

// deadManager returns a manager whose debugger URL points nowhere, so
// every Open fails fast without launching a real browser.
func deadManager() *browser.Manager {
	cfg := browser.DefaultConfig()
	cfg.DebuggerURL = "ws://127.0.0.1:1/devtools/browser/dead"
	return browser.NewManager(cfg, nil)
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.URL == "" {
		t.Error("default URL empty")
	}
	if cfg.ItemIDPrefix != "item-" {
		t.Errorf("ItemIDPrefix=%q", cfg.ItemIDPrefix)
	}
	if cfg.Attempts < 2 {
		t.Errorf("Attempts=%d, want a retry by default", cfg.Attempts)
	}

	var zero Config
	if zero.renderTimeout() == 0 {
		t.Error("zero config renderTimeout must fall back")
	}
	if zero.attempts() != 1 {
		t.Errorf("zero config attempts=%d, want 1", zero.attempts())
	}
	if zero.backoff() == 0 {
		t.Error("zero config backoff must fall back")
	}
}

func TestFetch_BackoffDoublesBetweenAttempts(t *testing.T) {
	// No browser behind the manager: every attempt fails at Open. The
	// sleep hook records the backoff schedule without real waiting.
	cfg := DefaultConfig()
	cfg.URL = "http://127.0.0.1:0/nowhere"
	cfg.Attempts = 3
	cfg.BackoffMs = 100

	f := New(cfg, deadManager(), nil)
	var slept []time.Duration
	f.sleepFn = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	_, err := f.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected failure without a browser")
	}
	if !errors.Is(err, ErrLoadTimeout) {
		t.Errorf("err=%v, want ErrLoadTimeout", err)
	}

	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}
	if len(slept) != len(want) {
		t.Fatalf("slept %v, want %v", slept, want)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("backoff[%d]=%v, want %v", i, slept[i], want[i])
		}
	}
}

func TestFetch_StopsWhenContextCancelled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "http://127.0.0.1:0/nowhere"
	cfg.Attempts = 5

	ctx, cancel := context.WithCancel(context.Background())
	f := New(cfg, deadManager(), nil)
	f.sleepFn = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := f.Fetch(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err=%v, want context.Canceled", err)
	}
}

func TestSleepCtx(t *testing.T) {
	if err := sleepCtx(context.Background(), time.Millisecond); err != nil {
		t.Errorf("sleepCtx: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepCtx(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled sleepCtx: %v", err)
	}
}
