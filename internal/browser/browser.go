// Package browser owns the headless Chrome instance used to render the
// puzzle page. The target populates its grid with client-side script, so a
// plain HTTP GET returns an empty shell; pages opened here execute page
// JavaScript and wait for the load event before they are handed out.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds browser configuration.
type Config struct {
	// DebuggerURL connects to an already-running Chrome instead of
	// launching one.
	DebuggerURL    string   `yaml:"debugger_url"`
	Bin            string   `yaml:"bin"`
	LaunchFlags    []string `yaml:"launch_flags"`
	Headless       bool     `yaml:"headless"`
	ViewportWidth  int      `yaml:"viewport_width"`
	ViewportHeight int      `yaml:"viewport_height"`
	NavTimeoutMs   int      `yaml:"nav_timeout_ms"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:       true,
		ViewportWidth:  1280,
		ViewportHeight: 900,
		NavTimeoutMs:   30000,
	}
}

// NavTimeout returns the navigation timeout.
func (c Config) NavTimeout() time.Duration {
	if c.NavTimeoutMs == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavTimeoutMs) * time.Millisecond
}

func (c Config) viewportWidth() int {
	if c.ViewportWidth == 0 {
		return 1280
	}
	return c.ViewportWidth
}

func (c Config) viewportHeight() int {
	if c.ViewportHeight == 0 {
		return 900
	}
	return c.ViewportHeight
}

// PageSession is the metadata for a page opened by the manager.
type PageSession struct {
	ID        string
	URL       string
	CreatedAt time.Time
}

// Manager owns the Chrome instance and tracks the pages it opened.
type Manager struct {
	cfg    Config
	logger *zap.Logger

	mu         sync.Mutex
	browser    *rod.Browser
	controlURL string
	pages      map[string]*rod.Page
}

// NewManager creates a manager. A nil logger is replaced by a no-op logger.
func NewManager(cfg Config, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		cfg:    cfg,
		logger: logger.Named("browser"),
		pages:  make(map[string]*rod.Page),
	}
}

// Start connects to an existing Chrome or launches a new one. Calling Start
// on a healthy manager is a no-op.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		if _, err := m.browser.Version(); err == nil {
			return nil
		}
		m.logger.Warn("stale browser connection, reconnecting")
		_ = m.browser.Close()
		m.browser = nil
		m.controlURL = ""
		m.pages = make(map[string]*rod.Page)
	}

	controlURL := m.cfg.DebuggerURL
	if controlURL == "" {
		url, err := m.launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}

	m.browser = b
	m.controlURL = controlURL
	m.logger.Debug("browser connected", zap.String("control_url", controlURL))
	return nil
}

// launch starts a Chrome process via the rod launcher. Configured flags are
// applied best-effort; if the flagged launch fails, a plain launch is tried
// before giving up.
func (m *Manager) launch() (string, error) {
	l := launcher.New().Headless(m.cfg.Headless)
	if m.cfg.Bin != "" {
		l = l.Bin(m.cfg.Bin)
	}
	for _, raw := range m.cfg.LaunchFlags {
		name, val, hasVal := strings.Cut(strings.TrimLeft(raw, "-"), "=")
		if hasVal {
			l = l.Set(flags.Flag(name), val)
		} else {
			l = l.Set(flags.Flag(name))
		}
	}

	url, err := l.Launch()
	if err == nil {
		return url, nil
	}
	fallback := launcher.New().Headless(m.cfg.Headless)
	if m.cfg.Bin != "" {
		fallback = fallback.Bin(m.cfg.Bin)
	}
	if alt, altErr := fallback.Launch(); altErr == nil {
		return alt, nil
	} else {
		return "", fmt.Errorf("%w (fallback: %v)", err, altErr)
	}
}

func (m *Manager) ensureStarted(ctx context.Context) error {
	m.mu.Lock()
	started := m.browser != nil
	m.mu.Unlock()
	if started {
		return nil
	}
	return m.Start(ctx)
}

// ControlURL returns the DevTools WebSocket URL.
func (m *Manager) ControlURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controlURL
}

// IsConnected reports whether a browser is attached.
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.browser != nil
}

// Open creates a page in a fresh incognito context, applies the viewport,
// navigates to url, and blocks until the page fires its load event. The
// load wait is bounded by the configured navigation timeout.
func (m *Manager) Open(ctx context.Context, url string) (*rod.Page, *PageSession, error) {
	if err := m.ensureStarted(ctx); err != nil {
		return nil, nil, err
	}
	m.mu.Lock()
	b := m.browser
	m.mu.Unlock()
	if b == nil {
		return nil, nil, errors.New("browser not connected")
	}

	incognito, err := b.Incognito()
	if err != nil {
		return nil, nil, fmt.Errorf("incognito context: %w", err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, nil, fmt.Errorf("create page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             m.cfg.viewportWidth(),
		Height:            m.cfg.viewportHeight(),
		DeviceScaleFactor: 1.0,
	}).Call(page); err != nil {
		m.logger.Warn("set viewport failed", zap.Error(err))
	}

	timed := page.Context(ctx).Timeout(m.cfg.NavTimeout())
	if err := timed.Navigate(url); err != nil {
		_ = page.Close()
		return nil, nil, fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := timed.WaitLoad(); err != nil {
		_ = page.Close()
		return nil, nil, fmt.Errorf("wait load %s: %w", url, err)
	}

	sess := &PageSession{
		ID:        uuid.NewString(),
		URL:       url,
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.pages[sess.ID] = page
	m.mu.Unlock()

	m.logger.Debug("page loaded", zap.String("session", sess.ID), zap.String("url", url))
	return page, sess, nil
}

// Close closes a single tracked page.
func (m *Manager) Close(sessionID string) error {
	m.mu.Lock()
	page, ok := m.pages[sessionID]
	delete(m.pages, sessionID)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown session: %s", sessionID)
	}
	return page.Close()
}

// Shutdown closes all tracked pages and the browser itself.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, page := range m.pages {
		_ = page.Close()
		delete(m.pages, id)
	}

	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	m.controlURL = ""
	return err
}
