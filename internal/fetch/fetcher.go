// Package fetch implements the word-extraction pipeline: load the puzzle
// page in a rendering context, wait for the client-side grid to appear,
// serialize the 16 item nodes with an injected script, and parse the
// markup into an ordered word list.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"

	"github.com/liuharry07/Connections-See-It/internal/browser"
)

// WordCount is the number of words a complete puzzle carries.
const WordCount = 16

// Config holds the extraction settings.
type Config struct {
	// URL of the puzzle page.
	URL string `yaml:"url"`

	// ItemIDPrefix names the grid nodes: ItemIDPrefix+"0" through
	// ItemIDPrefix+"15".
	ItemIDPrefix string `yaml:"item_id_prefix"`

	// WordClass is the CSS class marking the text element inside each
	// item's serialized markup.
	WordClass string `yaml:"word_class"`

	// RenderTimeoutMs bounds the wait for the client-side render after
	// the load event.
	RenderTimeoutMs int `yaml:"render_timeout_ms"`

	// Attempts and BackoffMs control the retry policy. Backoff doubles
	// after each failed attempt.
	Attempts  int `yaml:"attempts"`
	BackoffMs int `yaml:"backoff_ms"`
}

// DefaultConfig returns the extraction defaults for the daily puzzle.
func DefaultConfig() Config {
	return Config{
		URL:             "https://www.nytimes.com/games/connections",
		ItemIDPrefix:    "item-",
		WordClass:       "item",
		RenderTimeoutMs: 15000,
		Attempts:        3,
		BackoffMs:       2000,
	}
}

func (c Config) renderTimeout() time.Duration {
	if c.RenderTimeoutMs == 0 {
		return 15 * time.Second
	}
	return time.Duration(c.RenderTimeoutMs) * time.Millisecond
}

func (c Config) attempts() int {
	if c.Attempts <= 0 {
		return 1
	}
	return c.Attempts
}

func (c Config) backoff() time.Duration {
	if c.BackoffMs <= 0 {
		return time.Second
	}
	return time.Duration(c.BackoffMs) * time.Millisecond
}

// serializeScript collects the outerHTML of the addressed item nodes into
// one string. A missing node contributes nothing; the short result is
// detected after parsing, not here.
const serializeScript = `(prefix, count) => {
	let out = '';
	for (let i = 0; i < count; i++) {
		const el = document.getElementById(prefix + i);
		if (el) {
			out += el.outerHTML;
		}
	}
	return out;
}`

// Fetcher runs the one-shot extraction.
type Fetcher struct {
	cfg     Config
	mgr     *browser.Manager
	logger  *zap.Logger
	sleepFn func(context.Context, time.Duration) error
}

// New creates a Fetcher backed by mgr. A nil logger is replaced by a no-op
// logger.
func New(cfg Config, mgr *browser.Manager, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		cfg:     cfg,
		mgr:     mgr,
		logger:  logger.Named("fetch"),
		sleepFn: sleepCtx,
	}
}

// Fetch retrieves the puzzle words, retrying with doubling backoff on
// failure. On success the returned slice holds exactly WordCount words in
// document order.
func (f *Fetcher) Fetch(ctx context.Context) ([]string, error) {
	backoff := f.cfg.backoff()
	var lastErr error

	for attempt := 1; attempt <= f.cfg.attempts(); attempt++ {
		if attempt > 1 {
			f.logger.Info("retrying fetch",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			if err := f.sleepFn(ctx, backoff); err != nil {
				return nil, err
			}
			backoff *= 2
		}

		words, err := f.fetchOnce(ctx)
		if err == nil {
			f.logger.Info("puzzle fetched", zap.Int("words", len(words)))
			return words, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("fetch %s: %w", f.cfg.URL, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context) ([]string, error) {
	page, sess, err := f.mgr.Open(ctx, f.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadTimeout, err)
	}
	defer func() {
		if err := f.mgr.Close(sess.ID); err != nil {
			f.logger.Debug("close page", zap.Error(err))
		}
	}()

	markup, err := f.serializeItems(ctx, page)
	if err != nil {
		return nil, err
	}

	words, err := extractWords(markup, f.cfg.WordClass)
	if err != nil {
		return nil, err
	}
	if err := validateCount(words); err != nil {
		return nil, err
	}
	return words, nil
}

// validateCount enforces the 16-slot grid invariant before the puzzle may
// start. Schema drift on the page fails here instead of truncating.
func validateCount(words []string) error {
	if len(words) != WordCount {
		return &IncompleteExtractionError{Found: len(words), Want: WordCount}
	}
	return nil
}

// serializeItems waits for the grid's last item to exist, then evaluates
// the serialization script in the page. The page fills the grid after the
// load event, so the element wait is the real render barrier.
func (f *Fetcher) serializeItems(ctx context.Context, page *rod.Page) (string, error) {
	timed := page.Context(ctx).Timeout(f.cfg.renderTimeout())

	lastItem := fmt.Sprintf("#%s%d", f.cfg.ItemIDPrefix, WordCount-1)
	if _, err := timed.Element(lastItem); err != nil {
		return "", fmt.Errorf("%w: %s never appeared: %v", ErrLoadTimeout, lastItem, err)
	}

	res, err := timed.Evaluate(&rod.EvalOptions{
		JS:      serializeScript,
		JSArgs:  []interface{}{f.cfg.ItemIDPrefix, WordCount},
		ByValue: true,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrScriptExecution, err)
	}
	if res == nil || res.Value.Nil() {
		return "", fmt.Errorf("%w: script returned no value", ErrScriptExecution)
	}

	markup := res.Value.Str()
	if markup == "" {
		return "", fmt.Errorf("%w: script returned empty markup", ErrScriptExecution)
	}
	return markup, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
