package config

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("ENCRYPTION_KEY", base64.StdEncoding.EncodeToString(make([]byte, 32)))
	t.Setenv("BOT_TOKEN_ENCRYPTED", "ct-token")
	t.Setenv("CALDAV_URL", "https://calendar.example.com/principals/support/")
	t.Setenv("CALDAV_USERNAME", "support")
	t.Setenv("CALDAV_PASSWORD_ENCRYPTED", "ct-password")
	t.Setenv("SUPPORT_CHAT_ID", "-1001")
	t.Setenv("SALES_CHAT_ID", "-1002")
}

func TestFromEnv_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.CheckInterval)
	assert.Equal(t, 7, cfg.MorningHour)
	assert.Equal(t, 20, cfg.DailyHour)
	assert.Equal(t, "Europe/Moscow", cfg.Location.String())
	assert.Equal(t, int64(-1001), cfg.SupportChatID)
	assert.Len(t, cfg.EncryptionKey, 32)
}

func TestFromEnv_MissingSecrets(t *testing.T) {
	setRequired(t)
	t.Setenv("ENCRYPTION_KEY", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENCRYPTION_KEY")
}

func TestFromEnv_BadInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("CHECK_INTERVAL_MINUTES", "0")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnv_BadTimezone(t *testing.T) {
	setRequired(t)
	t.Setenv("TIMEZONE", "Mars/Olympus")

	_, err := FromEnv()
	assert.Error(t, err)
}
