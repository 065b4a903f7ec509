package cmd

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Generate an ENCRYPTION_KEY value (32 bytes base64)",
		RunE: func(cmd *cobra.Command, args []string) error {
			key := make([]byte, 32)
			if _, err := rand.Read(key); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "export ENCRYPTION_KEY=%s\n", base64.StdEncoding.EncodeToString(key))
			return nil
		},
	}
}
