package cmd

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/meetingbot/internal/crypto"
)

// encrypt produces the ciphertexts for BOT_TOKEN_ENCRYPTED and
// CALDAV_PASSWORD_ENCRYPTED from a plaintext secret.
func newEncryptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt <plaintext>",
		Short: "Encrypt a secret with ENCRYPTION_KEY for use in the environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.TrimSpace(os.Getenv("ENCRYPTION_KEY"))
			if raw == "" {
				return fmt.Errorf("ENCRYPTION_KEY is not set (run `meetingbot keys` first)")
			}
			key, err := base64.StdEncoding.DecodeString(raw)
			if err != nil {
				return fmt.Errorf("ENCRYPTION_KEY: %w", err)
			}
			aead, err := crypto.New(key)
			if err != nil {
				return err
			}
			ct, err := aead.EncryptToString(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, ct)
			return nil
		},
	}
}
