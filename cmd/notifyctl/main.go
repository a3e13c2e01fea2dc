// Command notifyctl is the Listing Notify operations CLI.
//
// Usage:
//
//	notifyctl scan run --limit 25
//	notifyctl prefs get --owner 42
//	notifyctl prefs set --owner 42 --activity=false
//	notifyctl send test --to someone@mailbox.example
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/oddmarket/listing-notify/internal/config"
	"github.com/oddmarket/listing-notify/internal/db"
	"github.com/oddmarket/listing-notify/internal/listing"
	"github.com/oddmarket/listing-notify/internal/mailer"
	"github.com/oddmarket/listing-notify/internal/notify"
	"github.com/oddmarket/listing-notify/internal/scan"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "notifyctl",
		Short: "Listing Notify operations CLI",
	}

	root.AddCommand(scanCmd())
	root.AddCommand(prefsCmd())
	root.AddCommand(sendCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// scan command
// --------------------------------------------------------------------------

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Reminder scan operations",
	}
	cmd.AddCommand(scanRunCmd())
	return cmd
}

func scanRunCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one reminder scan now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				orch, links := buildEngine(cfg, pool)
				scanner := scan.New(pool.Pool, orch, links, cfg.ListingType, limit, logger)
				result := scanner.Run(ctx)
				logger.Info("Scan finished", "summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("scan error", "error", e)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum candidates per scan")
	return cmd
}

// --------------------------------------------------------------------------
// prefs command
// --------------------------------------------------------------------------

func prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Owner notification preferences",
	}
	cmd.AddCommand(prefsGetCmd())
	cmd.AddCommand(prefsSetCmd())
	return cmd
}

func prefsGetCmd() *cobra.Command {
	var ownerID int64
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show an owner's notification toggles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ownerID <= 0 {
				return fmt.Errorf("--owner is required")
			}
			return withDeps(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				prefs := notify.NewPrefs(notify.NewPGPrefStore(pool.Pool), logger)
				fmt.Printf("owner=%d activity=%v reminder=%v\n", ownerID,
					prefs.ActivityEnabled(ctx, ownerID),
					prefs.ReminderEnabled(ctx, ownerID))
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&ownerID, "owner", 0, "Owner id")
	return cmd
}

func prefsSetCmd() *cobra.Command {
	var ownerID int64
	var activity, reminder bool
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set an owner's notification toggles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ownerID <= 0 {
				return fmt.Errorf("--owner is required")
			}
			return withDeps(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				prefs := notify.NewPrefs(notify.NewPGPrefStore(pool.Pool), logger)
				if cmd.Flags().Changed("activity") {
					if err := prefs.SetActivityEnabled(ctx, ownerID, activity); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("reminder") {
					if err := prefs.SetReminderEnabled(ctx, ownerID, reminder); err != nil {
						return err
					}
				}
				fmt.Printf("owner=%d activity=%v reminder=%v\n", ownerID,
					prefs.ActivityEnabled(ctx, ownerID),
					prefs.ReminderEnabled(ctx, ownerID))
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&ownerID, "owner", 0, "Owner id")
	cmd.Flags().BoolVar(&activity, "activity", true, "Enable activity alerts")
	cmd.Flags().BoolVar(&reminder, "reminder", true, "Enable reminder emails")
	return cmd
}

// --------------------------------------------------------------------------
// send command
// --------------------------------------------------------------------------

func sendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Delivery checks",
	}
	cmd.AddCommand(sendTestCmd())
	return cmd
}

func sendTestCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Send a test message to verify the SMTP path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if to == "" {
				return fmt.Errorf("--to is required")
			}
			return withDeps(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				sender, err := newSender(cfg)
				if err != nil {
					return err
				}
				return sender.Send(ctx, to,
					"Listing Notify test message",
					"<p>This is a test message from the Listing Notify service.</p>",
					"This is a test message from the Listing Notify service.\n")
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Recipient address")
	return cmd
}

// --------------------------------------------------------------------------
// Bootstrap helpers
// --------------------------------------------------------------------------

// withDeps loads config, connects the pool, runs fn, and cleans up.
func withDeps(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}

func newSender(cfg *config.Config) (*mailer.SMTPSender, error) {
	return mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		Timeout:  cfg.MailTimeout,
	}, logger)
}

func buildEngine(cfg *config.Config, pool *db.Pool) (*notify.Orchestrator, notify.Links) {
	store := listing.NewStore(pool.Pool)
	prefs := notify.NewPrefs(notify.NewPGPrefStore(pool.Pool), logger)
	links := notify.Links{Base: cfg.SiteBaseURL}

	sender, err := newSender(cfg)
	if err != nil {
		logger.Warn("mail sender unavailable, sends will be logged", "error", err)
		sender = nil
	}

	orch := notify.NewOrchestrator(notify.Deps{
		Listings:    store,
		Owners:      store,
		Counters:    store,
		State:       notify.NewPGStateStore(pool.Pool),
		Prefs:       prefs,
		Sender:      sender,
		Links:       links,
		ListingType: cfg.ListingType,
		Logger:      logger,
	})
	return orch, links
}
