package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/example/meetingbot/internal/bot"
	"github.com/example/meetingbot/internal/caldav"
	"github.com/example/meetingbot/internal/claims"
	"github.com/example/meetingbot/internal/config"
	"github.com/example/meetingbot/internal/crypto"
	"github.com/example/meetingbot/internal/db"
	"github.com/example/meetingbot/internal/jobs"
	"github.com/example/meetingbot/internal/migrate"
	"github.com/example/meetingbot/internal/notify"
	"github.com/example/meetingbot/internal/scheduler"
	"github.com/example/meetingbot/internal/store"
)

func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the periodic calendar jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.Ping(ctx); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}

			if migrateUp {
				if err := migrate.Up(ctx, d); err != nil {
					return err
				}
			}

			aead, err := crypto.New(cfg.EncryptionKey)
			if err != nil {
				return fmt.Errorf("encryption key: %w", err)
			}
			botToken, err := aead.DecryptString(cfg.BotTokenEncrypted)
			if err != nil {
				return fmt.Errorf("decrypt bot token: %w", err)
			}
			caldavPassword, err := aead.DecryptString(cfg.CalDAVPasswordEncrypted)
			if err != nil {
				return fmt.Errorf("decrypt caldav password: %w", err)
			}

			api, err := tgbotapi.NewBotAPI(botToken)
			if err != nil {
				return fmt.Errorf("telegram: %w", err)
			}

			cal, err := caldav.New(cfg.CalDAVURL, cfg.CalDAVUsername, caldavPassword)
			if err != nil {
				return err
			}

			meetings := store.NewMeetings(d, cfg.Location)
			employees := store.NewEmployees(d)
			notifier := notify.NewTelegram(api)
			render := notify.Renderer{Loc: cfg.Location}

			sched, err := scheduler.New(ctx, cfg.Location, scheduler.Config{
				MorningHour:   cfg.MorningHour,
				DailyHour:     cfg.DailyHour,
				CheckInterval: cfg.CheckInterval,
			}, scheduler.Jobs{
				Morning: &jobs.Morning{
					Store: meetings, Calendar: cal, Notifier: notifier,
					Render: render, ChatID: cfg.SalesChatID, Loc: cfg.Location,
				},
				Reconciler: &jobs.Reconciler{
					Store: meetings, Calendar: cal, Notifier: notifier,
					Render: render, ChatID: cfg.SalesChatID, Loc: cfg.Location,
				},
				Stats: &jobs.Stats{
					Store: meetings, Notifier: notifier,
					Render: render, ChatID: cfg.SupportChatID, Loc: cfg.Location,
				},
				Retention: &jobs.Retention{Store: meetings},
			})
			if err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			manager := claims.NewManager(meetings, employees, cfg.Location)
			b := bot.New(api, manager, employees, render)

			log.Printf("meetingbot up: bot @%s, tz %s", api.Self.UserName, cfg.Location)
			if err := b.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	return cmd
}
