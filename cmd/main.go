package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tracker-alert-sync/internal/api"
	"tracker-alert-sync/internal/config"
	"tracker-alert-sync/internal/credentials"
	"tracker-alert-sync/internal/emailprocessor"
	imapclient "tracker-alert-sync/internal/imap"
	"tracker-alert-sync/internal/logging"
	"tracker-alert-sync/internal/models"
	"tracker-alert-sync/internal/store"
)

var (
	configPath string
	syncLimit  int
)

var rootCmd = &cobra.Command{
	Use:   "tracker-alert-sync",
	Short: "Pulls bike tracker alert emails into a queryable in-memory cache",
	Long: `tracker-alert-sync reads tracker alert notifications from an IMAP mailbox,
extracts and classifies each alert, and serves the results over HTTP.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one mailbox sync and print the result",
	RunE:  runSync,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the YAML configuration file")
	syncCmd.Flags().IntVar(&syncLimit, "limit", 0, "Maximum number of recent messages to inspect (default from config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the wired pipeline shared by every subcommand
type app struct {
	cfg       *models.Config
	store     *store.Store
	provider  *credentials.Provider
	mailbox   *imapclient.Mailbox
	processor *emailprocessor.Processor
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}
	logging.SetLevel(cfg.LogLevel)

	st := store.New(store.WithExcerptLength(cfg.Sync.ExcerptLength))
	provider := credentials.NewProvider(models.Credentials{
		Email:       cfg.Email.Login,
		AppPassword: cfg.Email.Password,
	})
	mailbox := imapclient.NewMailbox(cfg.Email)

	return &app{
		cfg:       cfg,
		store:     st,
		provider:  provider,
		mailbox:   mailbox,
		processor: emailprocessor.NewProcessor(mailbox, provider, st, cfg.Email.SenderFilter),
	}, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Log.Infof("Starting tracker alert API, mailbox configured: %t", a.provider.Configured())

	handler := api.NewHandler(a.store, a.provider, a.mailbox, a.processor, a.cfg)
	return handler.Start(ctx, ":"+a.cfg.Server.Port)
}

func runSync(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	limit := a.cfg.Sync.DefaultLimit
	if syncLimit != 0 {
		if syncLimit < 1 {
			return &models.ValidationError{Field: "limit", Message: "must be at least 1"}
		}
		limit = syncLimit
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := a.processor.Sync(ctx, limit)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d new alerts synced, %d cached\n", result.NewAlerts, result.TotalCached)
	return nil
}
