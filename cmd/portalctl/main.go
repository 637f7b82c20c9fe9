// Command portalctl drives the investor portal from a terminal: chat with the
// dashboard assistant, inspect widgets and check intent lexicon files.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/investor-portal/internal/bootstrap"
	"github.com/GregMSThompson/investor-portal/internal/config"
)

var (
	// Global flags
	verbose bool
	uid     string
	storage string
	lexicon string
)

var rootCmd = &cobra.Command{
	Use:   "portalctl",
	Short: "Operator CLI for the investor portal",
	Long: `portalctl runs the investor portal services in-process.

By default dashboards and chat transcripts live in memory and vanish on exit.
Set --storage firestore (with PROJECTID) to work against a deployed project.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&uid, "uid", "demo-investor", "investor uid to act as")
	rootCmd.PersistentFlags().StringVar(&storage, "storage", "", "memory or firestore (default from STORAGE)")
	rootCmd.PersistentFlags().StringVar(&lexicon, "lexicon", "", "intent lexicon TOML override (default from INTENTLEXICON)")

	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "cli", "chat session id")
	chatCmd.Flags().StringVarP(&chatContext, "context", "c", "dashboard", "chat context: dashboard, documents, communication or calendar")

	widgetsCmd.AddCommand(widgetsListCmd, widgetsTypesCmd, widgetsResetCmd, widgetsInsightsCmd)
	lexiconCmd.AddCommand(lexiconShowCmd, lexiconCheckCmd)
	rootCmd.AddCommand(chatCmd, widgetsCmd, lexiconCmd)
}

// boot wires the same service graph as the API server. The assistant answers
// immediately and no identity provider is contacted.
func boot(ctx context.Context) (*bootstrap.App, func(), error) {
	cfg := config.New()
	cfg.ThinkDelay = 0
	cfg.AuthMode = config.AuthNone
	cfg.LogFormat = "text"
	cfg.LogLevel = "warn"
	if verbose {
		cfg.LogLevel = "debug"
	}
	if storage != "" {
		cfg.Storage = storage
	}
	if lexicon != "" {
		cfg.IntentLexicon = lexicon
	}

	bs, err := bootstrap.Run(ctx, cfg)
	if err != nil {
		if bs != nil {
			bs.Close()
		}
		return nil, nil, err
	}
	app := bootstrap.NewApp(cfg, bs)
	return app, func() {
		app.Close()
		bs.Close()
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
