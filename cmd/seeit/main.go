package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/liuharry07/Connections-See-It/cmd/seeit/ui"
	"github.com/liuharry07/Connections-See-It/internal/browser"
	"github.com/liuharry07/Connections-See-It/internal/config"
	"github.com/liuharry07/Connections-See-It/internal/fetch"
	"github.com/liuharry07/Connections-See-It/internal/puzzle"
)

var (
	// Global flags
	cfgPath   string
	verbose   bool
	timeout   time.Duration
	headless  bool
	wordsFlag string
	wordsFile string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd launches the interactive board. Without --words or --file it
// fetches today's puzzle first.
var rootCmd = &cobra.Command{
	Use:   "seeit",
	Short: "See It - rearrange the day's Connections words",
	Long: `seeit fetches the sixteen words of today's NYT Connections puzzle
and puts them on an interactive 4x4 board.

Swap tiles freely, lock a row once you have spotted a group, and shuffle
the rest. Locked rows float to the top and keep their color; nothing you
do here touches the real game.

Run with --words or --file to skip the fetch and arrange your own list.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPath
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("timeout") {
			cfg.Fetch.RenderTimeoutMs = int(timeout.Milliseconds())
		}
		if cmd.Flags().Changed("headless") {
			cfg.Browser.Headless = headless
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		zcfg := zap.NewProductionConfig()
		if cfg.Logging.Format == "console" {
			zcfg.Encoding = "console"
			zcfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		}
		var level zapcore.Level
		if err := level.Set(cfg.Logging.Level); err == nil {
			zcfg.Level = zap.NewAtomicLevelAt(level)
		}
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		if cfg.Logging.File != "" {
			zcfg.OutputPaths = []string{cfg.Logging.File}
		} else {
			// The TUI owns stdout; keep log noise on stderr.
			zcfg.OutputPaths = []string{"stderr"}
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runBoard,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Second, "page render timeout")
	rootCmd.PersistentFlags().BoolVar(&headless, "headless", true, "run the browser headless")

	rootCmd.Flags().StringVar(&wordsFlag, "words", "", "comma-separated list of 16 words (skips the fetch)")
	rootCmd.Flags().StringVar(&wordsFile, "file", "", "file with one word per line (skips the fetch)")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(configCmd)
}

func runBoard(cmd *cobra.Command, args []string) error {
	var model ui.Model

	switch {
	case wordsFlag != "" || wordsFile != "":
		words, err := offlineWords()
		if err != nil {
			return err
		}
		board, err := puzzle.New(words)
		if err != nil {
			return err
		}
		model = ui.NewModelWithWords(board, uiOptions(), logger)
	default:
		mgr := browser.NewManager(cfg.Browser, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mgr.Shutdown(ctx); err != nil {
				logger.Warn("browser shutdown", zap.Error(err))
			}
		}()
		fetcher := fetch.New(cfg.Fetch, mgr, logger)
		model = ui.NewModel(fetcher.Fetch, uiOptions(), logger)
	}

	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func uiOptions() ui.Options {
	return ui.Options{
		Theme:     cfg.UI.Theme,
		ASCIIOnly: cfg.UI.ASCIIOnly,
	}
}

// offlineWords reads the word list from --words or --file.
func offlineWords() ([]string, error) {
	if wordsFlag != "" {
		var words []string
		for _, w := range strings.Split(wordsFlag, ",") {
			if w = strings.TrimSpace(w); w != "" {
				words = append(words, w)
			}
		}
		return words, nil
	}

	f, err := os.Open(wordsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read word file: %w", err)
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" {
			words = append(words, w)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word file: %w", err)
	}
	return words, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
