package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAdminIDsFromEnvString(t *testing.T) {
	ids, err := ParseAdminIDs("123, 456,789")
	require.NoError(t, err)
	assert.Equal(t, []int64{123, 456, 789}, ids)
}

func TestParseAdminIDsFromJSONArray(t *testing.T) {
	// viper hands config.json numbers over as float64
	ids, err := ParseAdminIDs([]interface{}{float64(123), float64(456)})
	require.NoError(t, err)
	assert.Equal(t, []int64{123, 456}, ids)
}

func TestParseAdminIDsEmpty(t *testing.T) {
	ids, err := ParseAdminIDs(nil)
	require.NoError(t, err)
	assert.Nil(t, ids)

	ids, err = ParseAdminIDs("")
	require.NoError(t, err)
	assert.Nil(t, ids)
}

func TestParseAdminIDsInvalid(t *testing.T) {
	_, err := ParseAdminIDs("123,abc")
	assert.Error(t, err)

	_, err = ParseAdminIDs([]interface{}{true})
	assert.Error(t, err)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token-from-env")
	t.Setenv("ADMIN_IDS", "42")
	t.Setenv("CHECKIN_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "token-from-env", cfg.BotToken)
	assert.Equal(t, []int64{42}, cfg.AdminIDs)
	assert.Equal(t, "data/checkin_bot.db", cfg.BoltPath)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoadRequiresBotToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := Load()
	assert.Error(t, err)
}
