package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNoBaseDSN means database.base_dsn is missing from the configuration.
// There is no fallback; callers must treat it as fatal.
var ErrNoBaseDSN = errors.New("database base DSN is not configured")

// BuildDSN derives a per-source DSN from the shared base descriptor by
// substituting the target database name. Everything else (credentials, host,
// parseTime and friends) is carried over from the base unchanged.
func BuildDSN(baseDSN, database string) (string, error) {
	if strings.TrimSpace(baseDSN) == "" {
		return "", ErrNoBaseDSN
	}

	cfg, err := mysql.ParseDSN(baseDSN)
	if err != nil {
		return "", err
	}
	cfg.DBName = database

	return cfg.FormatDSN(), nil
}
