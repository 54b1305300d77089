package db

import (
	"time"

	"github.com/fhuszti/booru-ms-go/internal/config"
)

type MariaDbConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ConfigFrom extracts the pool settings from the loaded settings.
func ConfigFrom(s *config.Settings) MariaDbConfig {
	return MariaDbConfig{
		DSN:             s.MariaDBDSN,
		MaxOpenConns:    s.MaxOpenConns,
		MaxIdleConns:    s.MaxIdleConns,
		ConnMaxLifetime: s.ConnMaxLifetime,
	}
}
