package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/liuharry07/Connections-See-It/internal/browser"
	"github.com/liuharry07/Connections-See-It/internal/fetch"
)

var fetchJSON bool

// fetchCmd prints today's words without starting the board.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch today's sixteen words and print them",
	Long: `Loads the puzzle page in a headless browser, extracts the sixteen
words in their on-page order and prints them one per line.

With --json the words are printed as a JSON array, ready to pipe into
other tools or back into seeit --file.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "print the words as a JSON array")
}

func runFetch(cmd *cobra.Command, args []string) error {
	mgr := browser.NewManager(cfg.Browser, logger)
	defer func() {
		if err := mgr.Shutdown(cmd.Context()); err != nil {
			logger.Warn("browser shutdown", zap.Error(err))
		}
	}()

	fetcher := fetch.New(cfg.Fetch, mgr, logger)
	words, err := fetcher.Fetch(cmd.Context())
	if err != nil {
		return err
	}

	if fetchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(words)
	}
	for _, w := range words {
		fmt.Println(w)
	}
	return nil
}
