// Package config loads casinod node settings from flags, CASINOD_* environment
// variables and an optional <home>/config/casinod.toml, in that precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "CASINOD"

	FlagHome        = "home"
	FlagAddr        = "addr"
	FlagTransport   = "transport"
	FlagMetricsAddr = "metrics-addr"
	FlagLogLevel    = "log-level"
	FlagLogFormat   = "log-format"
	FlagRentPerByte = "rent-per-byte"
	FlagFaucet      = "faucet"
)

type Config struct {
	Home        string `mapstructure:"home"`
	Addr        string `mapstructure:"addr"`
	Transport   string `mapstructure:"transport"`
	MetricsAddr string `mapstructure:"metrics-addr"`
	LogLevel    string `mapstructure:"log-level"`
	LogFormat   string `mapstructure:"log-format"`
	RentPerByte uint64 `mapstructure:"rent-per-byte"`
	Faucet      bool   `mapstructure:"faucet"`
}

func Default() Config {
	return Config{
		Home:        ".casinod",
		Addr:        "tcp://127.0.0.1:26658",
		Transport:   "socket",
		LogLevel:    "info",
		LogFormat:   "plain",
		RentPerByte: 10,
	}
}

// RegisterFlags adds the node flags to fs with their defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(FlagHome, d.Home, "node home directory (state is stored under <home>/app)")
	fs.String(FlagAddr, d.Addr, "ABCI listen address")
	fs.String(FlagTransport, d.Transport, "ABCI transport (socket|grpc)")
	fs.String(FlagMetricsAddr, d.MetricsAddr, "Prometheus listen address; empty disables metrics")
	fs.String(FlagLogLevel, d.LogLevel, "log level (trace|debug|info|warn|error)")
	fs.String(FlagLogFormat, d.LogFormat, "log format (plain|json)")
	fs.Uint64(FlagRentPerByte, d.RentPerByte, "record rent per byte for a fresh ledger")
	fs.Bool(FlagFaucet, d.Faucet, "accept bank/mint transactions (devnet only)")
}

// NewViper returns a viper instance wired to fs and the environment.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault(FlagHome, d.Home)
	v.SetDefault(FlagAddr, d.Addr)
	v.SetDefault(FlagTransport, d.Transport)
	v.SetDefault(FlagMetricsAddr, d.MetricsAddr)
	v.SetDefault(FlagLogLevel, d.LogLevel)
	v.SetDefault(FlagLogFormat, d.LogFormat)
	v.SetDefault(FlagRentPerByte, d.RentPerByte)
	v.SetDefault(FlagFaucet, d.Faucet)

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}
	return v, nil
}

// Load reads the config file under the resolved home, if any, and returns the
// validated settings.
func Load(v *viper.Viper) (Config, error) {
	path := filepath.Join(v.GetString(FlagHome), "config", "casinod.toml")
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("stat %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Home) == "" {
		return fmt.Errorf("%s must not be empty", FlagHome)
	}
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%s must not be empty", FlagAddr)
	}
	switch c.Transport {
	case "socket", "grpc":
	default:
		return fmt.Errorf("%s must be socket or grpc, got %q", FlagTransport, c.Transport)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "plain", "json":
	default:
		return fmt.Errorf("%s must be plain or json, got %q", FlagLogFormat, c.LogFormat)
	}
	if c.RentPerByte == 0 {
		return fmt.Errorf("%s must be positive", FlagRentPerByte)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%s: %w", FlagLogLevel, err)
	}
	return lvl, nil
}
