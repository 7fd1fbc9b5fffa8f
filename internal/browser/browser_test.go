package browser

import (
	"context"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Headless {
		t.Fatal("default config should be headless")
	}
	if cfg.ViewportWidth != 1280 || cfg.ViewportHeight != 900 {
		t.Fatalf("unexpected viewport: %dx%d", cfg.ViewportWidth, cfg.ViewportHeight)
	}
	if cfg.NavTimeout() != 30*time.Second {
		t.Fatalf("NavTimeout = %v, want 30s", cfg.NavTimeout())
	}
}

func TestConfig_ZeroValuesFallBack(t *testing.T) {
	var cfg Config
	if cfg.NavTimeout() != 30*time.Second {
		t.Fatalf("NavTimeout = %v, want 30s", cfg.NavTimeout())
	}
	if cfg.viewportWidth() != 1280 || cfg.viewportHeight() != 900 {
		t.Fatalf("unexpected viewport fallback: %dx%d", cfg.viewportWidth(), cfg.viewportHeight())
	}
}

func TestNewManager_NilLogger(t *testing.T) {
	m := NewManager(DefaultConfig(), nil)
	if m.logger == nil {
		t.Fatal("nil logger should be replaced, not kept")
	}
	if m.IsConnected() {
		t.Fatal("fresh manager should not report a connection")
	}
	if m.ControlURL() != "" {
		t.Fatal("fresh manager should have no control URL")
	}
}

func TestClose_UnknownSession(t *testing.T) {
	m := NewManager(DefaultConfig(), nil)
	if err := m.Close("no-such-session"); err == nil {
		t.Fatal("closing an unknown session should error")
	}
}

func TestShutdown_Idle(t *testing.T) {
	m := NewManager(DefaultConfig(), nil)
	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("idle shutdown: %v", err)
	}
}
