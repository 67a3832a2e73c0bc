package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config carries everything the bot needs at startup. Values come from an
// optional config.json in the working directory plus environment variables;
// environment wins. Admin ids and the bot token are injected into the
// components that need them instead of being read from ambient state.
type Config struct {
	BotToken string
	AdminIDs []int64

	// PostgresDSN selects the Postgres ledger when set; otherwise the
	// embedded Bolt ledger at BoltPath is used.
	PostgresDSN string
	BoltPath    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DedupTTLHours int

	// CheckinTimezone is the IANA zone the check-in day boundary is
	// computed in. One configured clock for all users.
	CheckinTimezone string

	AdminAPIAddr  string
	AdminAPIToken string

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// config.json is optional; only a malformed file is fatal
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	v.AutomaticEnv()

	v.SetDefault("BOLT_PATH", "data/checkin_bot.db")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("DEDUP_TTL_HOURS", 24)
	v.SetDefault("CHECKIN_TIMEZONE", "UTC")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("LOG_MAX_AGE_DAYS", 7)

	adminIDs, err := ParseAdminIDs(v.Get("ADMIN_IDS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BotToken:        strings.TrimSpace(v.GetString("TELEGRAM_BOT_TOKEN")),
		AdminIDs:        adminIDs,
		PostgresDSN:     strings.TrimSpace(v.GetString("POSTGRES_DSN")),
		BoltPath:        v.GetString("BOLT_PATH"),
		RedisAddr:       strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		RedisDB:         v.GetInt("REDIS_DB"),
		DedupTTLHours:   v.GetInt("DEDUP_TTL_HOURS"),
		CheckinTimezone: strings.TrimSpace(v.GetString("CHECKIN_TIMEZONE")),
		AdminAPIAddr:    strings.TrimSpace(v.GetString("ADMIN_API_ADDR")),
		AdminAPIToken:   strings.TrimSpace(v.GetString("ADMIN_API_TOKEN")),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogPath:         v.GetString("LOG_PATH"),
		LogMaxSizeMB:    v.GetInt("LOG_MAX_SIZE_MB"),
		LogMaxBackups:   v.GetInt("LOG_MAX_BACKUPS"),
		LogMaxAgeDays:   v.GetInt("LOG_MAX_AGE_DAYS"),
		LogCompress:     v.GetBool("LOG_COMPRESS"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set in config.json or the environment")
	}
	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("invalid CHECKIN_TIMEZONE %q: %w", cfg.CheckinTimezone, err)
	}
	return cfg, nil
}

// Location resolves the configured check-in timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.CheckinTimezone)
}

// ParseAdminIDs accepts the shapes ADMIN_IDS shows up in: a JSON array of
// numbers from config.json, or a comma-separated string from the
// environment.
func ParseAdminIDs(raw interface{}) ([]int64, error) {
	switch vals := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return parseAdminIDList(vals)
	case []interface{}:
		ids := make([]int64, 0, len(vals))
		for _, it := range vals {
			switch n := it.(type) {
			case float64:
				ids = append(ids, int64(n))
			case int:
				ids = append(ids, int64(n))
			case int64:
				ids = append(ids, n)
			case string:
				id, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
				if err != nil {
					return nil, fmt.Errorf("invalid admin id %q: %w", n, err)
				}
				ids = append(ids, id)
			default:
				return nil, fmt.Errorf("invalid admin id %v (type %T)", it, it)
			}
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("ADMIN_IDS has unsupported type %T", raw)
	}
}

func parseAdminIDList(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
