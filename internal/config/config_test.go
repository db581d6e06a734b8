package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	v, err := NewViper(newFlags(t, "--home", home))
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)
	want := Default()
	want.Home = home
	require.Equal(t, want, cfg)
}

func TestLoad_Precedence(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "config"), 0o755))
	file := []byte("transport = \"grpc\"\nrent-per-byte = 3\nlog-level = \"debug\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(home, "config", "casinod.toml"), file, 0o644))

	t.Setenv("CASINOD_RENT_PER_BYTE", "7")
	t.Setenv("CASINOD_FAUCET", "true")

	v, err := NewViper(newFlags(t, "--home", home, "--log-level", "warn"))
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	require.Equal(t, "grpc", cfg.Transport)
	require.Equal(t, uint64(7), cfg.RentPerByte)
	require.True(t, cfg.Faucet)
	require.Equal(t, "warn", cfg.LogLevel)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, zerolog.WarnLevel, lvl)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty home", func(c *Config) { c.Home = " " }},
		{"empty addr", func(c *Config) { c.Addr = "" }},
		{"bad transport", func(c *Config) { c.Transport = "http" }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
		{"zero rent", func(c *Config) { c.RentPerByte = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
	require.NoError(t, Default().Validate())
}
