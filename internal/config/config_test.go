package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
[server]
http_port = 9090

[database]
driver = "postgres"
host = "db"
dbname = "lab"
user = "lab"

[booking]
cutoff_time = "20:30"
allow_past_dates = true

[rooms]
names = ["Geral 1", "Cultivo A1"]
`)

	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 30, cfg.Server.WriteTimeout)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, []string{"Geral 1", "Cultivo A1"}, cfg.Rooms.Names)
	assert.Equal(t, "booking.confirmed", cfg.EventBus.RoutingKey)
	assert.False(t, cfg.SMTP.Enabled())
	assert.False(t, cfg.EventBus.Enabled())

	rules, err := cfg.Booking.WindowRules()
	require.NoError(t, err)
	assert.Equal(t, time.Wednesday, rules.CutoffWeekday)
	assert.Equal(t, 20*time.Hour+30*time.Minute, rules.CutoffTime)
	assert.Equal(t, time.Friday, rules.ReleaseWeekday)
	assert.Equal(t, -3*time.Hour, rules.LocalOffset)
	assert.True(t, rules.AllowPastDates)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
[admin]
secret = "from-file"
`)
	envPath := writeFile(t, dir, ".env", "LAB_SMTP_PASSWORD=from-dotenv\n")

	t.Setenv("LAB_ADMIN_SECRET", "from-env")
	t.Setenv("LAB_HTTP_PORT", "8181")
	t.Setenv("LAB_SQLITE_PATH", filepath.Join(dir, "lab.db"))
	t.Cleanup(func() { os.Unsetenv("LAB_SMTP_PASSWORD") })

	cfg, err := Load(path, envPath)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Admin.Secret)
	assert.Equal(t, 8181, cfg.Server.HTTPPort)
	assert.Equal(t, "from-dotenv", cfg.SMTP.Password)
	assert.Equal(t, filepath.Join(dir, "lab.db"), cfg.Database.Path)
	assert.Contains(t, cfg.Database.DSN(), "_txlock=immediate")
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "nope.toml"))
	assert.ErrorIs(t, err, ErrLoadConfig)

	path := writeFile(t, dir, "bad.toml", `
[database]
driver = "mysql"
`)
	_, err = Load(path, filepath.Join(dir, "missing.env"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad port", func(c *Config) { c.Server.HTTPPort = 0 }},
		{"postgres without host", func(c *Config) { c.Database.Driver = DriverPostgres; c.Database.Host = "" }},
		{"sqlite without path", func(c *Config) { c.Database.Path = "" }},
		{"bad log format", func(c *Config) { c.Logs.Format = "xml" }},
		{"bad cutoff weekday", func(c *Config) { c.Booking.CutoffWeekday = "someday" }},
		{"bad release time", func(c *Config) { c.Booking.ReleaseTime = "2h" }},
		{"no rooms", func(c *Config) { c.Rooms.Names = nil }},
		{"duplicate rooms", func(c *Config) { c.Rooms.Names = []string{"Geral 1", "Geral 1"} }},
		{"smtp without port", func(c *Config) { c.SMTP.Host = "smtp"; c.SMTP.Port = 0 }},
		{"eventbus without exchange", func(c *Config) { c.EventBus.URL = "amqp://x"; c.EventBus.Exchange = "" }},
		{"admin without rate limit", func(c *Config) { c.Admin.Secret = "s"; c.Admin.RateLimit = 0 }},
	}

	assert.NoError(t, Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = DriverPostgres
	cfg.Database.User = "lab"
	cfg.Database.Password = "pw"
	cfg.Database.DBName = "lab"

	assert.Equal(t, "host=localhost port=5432 user=lab password=pw dbname=lab sslmode=disable", cfg.Database.DSN())
}
