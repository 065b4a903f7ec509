package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "meetingbot",
		Short: "Calendar sync bot: mirrors the support calendar, announces changes and runs the claim workflow",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Local development convenience; absence of .env is fine.
			_ = godotenv.Load()
		},
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newKeysCmd())
	root.AddCommand(newEncryptCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newEmployeeCmd())
	root.AddCommand(newJobCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
