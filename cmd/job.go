package cmd

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/example/meetingbot/internal/caldav"
	"github.com/example/meetingbot/internal/config"
	"github.com/example/meetingbot/internal/crypto"
	"github.com/example/meetingbot/internal/jobs"
	"github.com/example/meetingbot/internal/notify"
	"github.com/example/meetingbot/internal/store"
)

func newJobCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Run a scheduled job once and exit",
	}
	cmd.AddCommand(newJobRunCmd("morning", "Post the morning agenda to the sales chat"))
	cmd.AddCommand(newJobRunCmd("cycle", "Run one calendar reconciliation pass"))
	cmd.AddCommand(newJobRunCmd("stats", "Post claim statistics for the current month"))
	cmd.AddCommand(newJobRunCmd("sweep", "Delete meetings that ended past the retention window"))
	return cmd
}

func newJobRunCmd(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			cfg, d, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			meetings := store.NewMeetings(d, cfg.Location)
			now := time.Now()

			if name == "sweep" {
				n, err := (&jobs.Retention{Store: meetings}).Sweep(ctx, now)
				if err != nil {
					return err
				}
				fmt.Printf("sweep: removed %d meetings\n", n)
				return nil
			}

			aead, err := crypto.New(cfg.EncryptionKey)
			if err != nil {
				return err
			}
			botToken, err := aead.DecryptString(cfg.BotTokenEncrypted)
			if err != nil {
				return fmt.Errorf("decrypt bot token: %w", err)
			}
			api, err := tgbotapi.NewBotAPI(botToken)
			if err != nil {
				return fmt.Errorf("telegram: %w", err)
			}
			notifier := notify.NewTelegram(api)
			render := notify.Renderer{Loc: cfg.Location}

			switch name {
			case "stats":
				j := &jobs.Stats{
					Store: meetings, Notifier: notifier,
					Render: render, ChatID: cfg.SupportChatID, Loc: cfg.Location,
				}
				return j.Run(ctx, now)
			case "morning", "cycle":
				cal, err := newCalendar(cfg, aead)
				if err != nil {
					return err
				}
				if name == "morning" {
					j := &jobs.Morning{
						Store: meetings, Calendar: cal, Notifier: notifier,
						Render: render, ChatID: cfg.SalesChatID, Loc: cfg.Location,
					}
					return j.Run(ctx, now)
				}
				j := &jobs.Reconciler{
					Store: meetings, Calendar: cal, Notifier: notifier,
					Render: render, ChatID: cfg.SalesChatID, Loc: cfg.Location,
				}
				return j.Run(ctx, now)
			}
			return fmt.Errorf("unknown job %q", name)
		},
	}
}

func newCalendar(cfg config.Config, aead *crypto.AEAD) (*caldav.Client, error) {
	password, err := aead.DecryptString(cfg.CalDAVPasswordEncrypted)
	if err != nil {
		return nil, fmt.Errorf("decrypt caldav password: %w", err)
	}
	return caldav.New(cfg.CalDAVURL, cfg.CalDAVUsername, password)
}
