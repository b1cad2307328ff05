package config

import (
	"bytes"
	_ "embed"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ---- Leaf structs ----

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// DatabaseConfig holds the base connection descriptor shared by both
// sources. BaseDSN carries no database name; per-source DSNs are derived by
// substituting RegistrationDB / FinanceDataDB into it (see db.BuildDSN).
type DatabaseConfig struct {
	BaseDSN         string        `mapstructure:"base_dsn"`
	RegistrationDB  string        `mapstructure:"registration_db"`
	FinanceDataDB   string        `mapstructure:"financedata_db"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type RateLimitConfig struct {
	RPS int `mapstructure:"rps"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads embedded defaults, merges user YAML (if provided), and applies env overrides (STATS_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (STATS_*)
	v.SetEnvPrefix("STATS")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
