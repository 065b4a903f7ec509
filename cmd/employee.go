package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/meetingbot/internal/config"
	"github.com/example/meetingbot/internal/db"
	"github.com/example/meetingbot/internal/migrate"
	"github.com/example/meetingbot/internal/store"
)

// openDB loads the environment config, connects and migrates. Shared by the
// one-off commands; serve does its own wiring with the long-lived context.
func openDB(ctx context.Context) (config.Config, *db.DB, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, nil, err
	}
	d, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := migrate.Up(ctx, d); err != nil {
		d.Close()
		return config.Config{}, nil, err
	}
	return cfg, d, nil
}

func newEmployeeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Manage the roster of users allowed to claim meetings",
	}
	cmd.AddCommand(newEmployeeAddCmd())
	cmd.AddCommand(newEmployeeRmCmd())
	cmd.AddCommand(newEmployeeListCmd())
	return cmd
}

func newEmployeeAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <user-id>",
		Short: "Add a user to the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			_, d, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			created, err := store.NewEmployees(d).Add(ctx, args[0])
			if err != nil {
				return err
			}
			if !created {
				fmt.Println("already on the roster:", args[0])
				return nil
			}
			fmt.Println("added:", args[0])
			return nil
		},
	}
}

func newEmployeeRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <user-id>",
		Short: "Remove a user from the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			_, d, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			removed, err := store.NewEmployees(d).Remove(ctx, args[0])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Println("not on the roster:", args[0])
				return nil
			}
			fmt.Println("removed:", args[0])
			return nil
		},
	}
}

func newEmployeeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			_, d, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			list, err := store.NewEmployees(d).List(ctx)
			if err != nil {
				return err
			}
			for _, e := range list {
				if e.Username != "" {
					fmt.Printf("%s\t@%s\n", e.UserID, e.Username)
					continue
				}
				fmt.Println(e.UserID)
			}
			return nil
		},
	}
}
