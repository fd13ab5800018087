package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Second, cfg.Meeting.TickInterval)
	assert.Equal(t, 1500*time.Millisecond, cfg.Meeting.ConnectDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.Meeting.SpeakDelay)
	assert.Equal(t, 2*time.Second, cfg.Meeting.GreetingDelay)
	assert.Equal(t, 800*time.Millisecond, cfg.Meeting.LeaveDelay)
	assert.Equal(t, "Dr. Rohan Verma", cfg.Meeting.DefaultCounselor)
	assert.Equal(t, 2*time.Second, cfg.Account.SignupLatency)
	assert.Equal(t, 3*time.Second, cfg.Account.ResetRedirectDelay)
	assert.Equal(t, "aura:session:", cfg.Redis.ChannelPrefix)
}

func TestLoadPrefixedEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AURA_MEETING_CONNECT_DELAY", "250ms")
	t.Setenv("AURA_MEETING_DEFAULT_COUNSELOR", "Maya")
	t.Setenv("AURA_LOG_LEVEL", "debug")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Meeting.ConnectDelay)
	assert.Equal(t, "Maya", cfg.Meeting.DefaultCounselor)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadLegacyEnvNames(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AURA_DISCORD_TOKEN", "")
	t.Setenv("DISCORD_TOKEN", "legacy-token")
	t.Setenv("GUILD_ID", "guild-1")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "legacy-token", cfg.Discord.Token)
	assert.Equal(t, "guild-1", cfg.Discord.GuildID)
}

func TestLoadPrefixedEnvWinsOverLegacy(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AURA_REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "aura.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
meeting:
  greeting_delay: 5s
  timezone: UTC
resources:
  catalog_path: ./catalog.yaml
`), 0o600))

	cfg, err := Load(&LoadInput{ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Meeting.GreetingDelay)
	assert.Equal(t, "./catalog.yaml", cfg.Resources.CatalogPath)

	loc, err := cfg.Meeting.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(&LoadInput{ConfigFile: "missing.yaml"})
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv("AURA_TEST_ENV_FILE_GUILD") })

	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("AURA_TEST_ENV_FILE_GUILD=from-file\n"), 0o600))

	_, err := Load(&LoadInput{EnvFiles: []string{path}})
	require.NoError(t, err)
	assert.Equal(t, "from-file", os.Getenv("AURA_TEST_ENV_FILE_GUILD"))
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "negative delay", key: "AURA_MEETING_LEAVE_DELAY", value: "-1s"},
		{name: "zero tick", key: "AURA_MEETING_TICK_INTERVAL", value: "0s"},
		{name: "unknown timezone", key: "AURA_MEETING_TIMEZONE", value: "Mars/Olympus"},
		{name: "not a duration", key: "AURA_ACCOUNT_RESET_LATENCY", value: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load(nil)
			assert.Error(t, err)
		})
	}
}

func TestMeetingTemplate(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AURA_MEETING_TIMEZONE", "UTC")
	t.Setenv("AURA_MEETING_GREETING_DELAY", "5s")

	cfg, err := Load(nil)
	require.NoError(t, err)

	template, err := cfg.Meeting.Template()
	require.NoError(t, err)

	assert.Equal(t, time.UTC, template.Location)
	assert.Equal(t, 5*time.Second, template.GreetingDelay)
	assert.Equal(t, time.Second, template.TickInterval)
	assert.Equal(t, "Dr. Rohan Verma", template.DefaultCounselor)
	assert.Nil(t, template.Timeline)
}
