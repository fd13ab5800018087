// Package config loads settings from an optional config file, .env files
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/KirkDiggler/aura/internal/services/meeting"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every setting's environment variable,
// e.g. AURA_MEETING_CONNECT_DELAY
const EnvPrefix = "AURA"

// DefaultEnvFile is loaded when present
const DefaultEnvFile = ".env"

// Config holds every setting of the aura binaries
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	Discord   DiscordConfig   `mapstructure:"discord"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Meeting   MeetingConfig   `mapstructure:"meeting"`
	Account   AccountConfig   `mapstructure:"account"`
	Resources ResourcesConfig `mapstructure:"resources"`
}

// DiscordConfig holds the bot credentials
type DiscordConfig struct {
	Token         string `mapstructure:"token"`
	ApplicationID string `mapstructure:"application_id"`
	GuildID       string `mapstructure:"guild_id"`
}

// RedisConfig holds the pub/sub connection. An empty Addr disables publishing.
type RedisConfig struct {
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	ChannelPrefix string `mapstructure:"channel_prefix"`
}

// MeetingConfig holds the session timings
type MeetingConfig struct {
	TickInterval     time.Duration `mapstructure:"tick_interval"`
	ConnectDelay     time.Duration `mapstructure:"connect_delay"`
	SpeakDelay       time.Duration `mapstructure:"speak_delay"`
	GreetingDelay    time.Duration `mapstructure:"greeting_delay"`
	LeaveDelay       time.Duration `mapstructure:"leave_delay"`
	DefaultCounselor string        `mapstructure:"default_counselor"`

	// Timezone is an IANA name used to show the scheduled start; empty means local time
	Timezone string `mapstructure:"timezone"`
}

// Location resolves Timezone
func (c *MeetingConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Template returns the meeting settings every session starts from.
// Collaborators are left for the caller to fill in.
func (c *MeetingConfig) Template() (meeting.Config, error) {
	loc, err := c.Location()
	if err != nil {
		return meeting.Config{}, err
	}

	return meeting.Config{
		TickInterval:     c.TickInterval,
		ConnectDelay:     c.ConnectDelay,
		SpeakDelay:       c.SpeakDelay,
		GreetingDelay:    c.GreetingDelay,
		LeaveDelay:       c.LeaveDelay,
		DefaultCounselor: c.DefaultCounselor,
		Location:         loc,
	}, nil
}

// AccountConfig holds the simulated backend timings
type AccountConfig struct {
	SignupLatency       time.Duration `mapstructure:"signup_latency"`
	ResetLatency        time.Duration `mapstructure:"reset_latency"`
	SignupRedirectDelay time.Duration `mapstructure:"signup_redirect_delay"`
	ResetRedirectDelay  time.Duration `mapstructure:"reset_redirect_delay"`
}

// ResourcesConfig selects the resource catalog
type ResourcesConfig struct {
	// CatalogPath is a YAML catalog; empty uses the built-in one
	CatalogPath string `mapstructure:"catalog_path"`
}

// LoadInput contains where to read settings from
type LoadInput struct {
	// ConfigFile is optional; yaml, json and toml are understood
	ConfigFile string

	// EnvFiles are loaded into the environment first. Variables that are
	// already set win. Defaults to DefaultEnvFile when it exists.
	EnvFiles []string
}

// legacyEnv maps settings to the unprefixed variable names also honoured
var legacyEnv = map[string]string{
	"discord.token":          "DISCORD_TOKEN",
	"discord.application_id": "APPLICATION_ID",
	"discord.guild_id":       "GUILD_ID",
	"redis.addr":             "REDIS_ADDR",
	"redis.password":         "REDIS_PASSWORD",
}

// Load reads the configuration
func Load(input *LoadInput) (*Config, error) {
	if input == nil {
		input = &LoadInput{}
	}

	if err := loadEnvFiles(input.EnvFiles); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if input.ConfigFile != "" {
		v.SetConfigFile(input.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("discord.token", "")
	v.SetDefault("discord.application_id", "")
	v.SetDefault("discord.guild_id", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel_prefix", "aura:session:")

	v.SetDefault("meeting.tick_interval", time.Second)
	v.SetDefault("meeting.connect_delay", 1500*time.Millisecond)
	v.SetDefault("meeting.speak_delay", 1500*time.Millisecond)
	v.SetDefault("meeting.greeting_delay", 2*time.Second)
	v.SetDefault("meeting.leave_delay", 800*time.Millisecond)
	v.SetDefault("meeting.default_counselor", "Dr. Rohan Verma")
	v.SetDefault("meeting.timezone", "")

	v.SetDefault("account.signup_latency", 2*time.Second)
	v.SetDefault("account.reset_latency", 1500*time.Millisecond)
	v.SetDefault("account.signup_redirect_delay", 1500*time.Millisecond)
	v.SetDefault("account.reset_redirect_delay", 3*time.Second)

	v.SetDefault("resources.catalog_path", "")
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(DefaultEnvFile); err != nil {
			return nil
		}
		files = []string{DefaultEnvFile}
	}

	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	durations := map[string]time.Duration{
		"meeting.tick_interval":         c.Meeting.TickInterval,
		"meeting.connect_delay":         c.Meeting.ConnectDelay,
		"meeting.speak_delay":           c.Meeting.SpeakDelay,
		"meeting.greeting_delay":        c.Meeting.GreetingDelay,
		"meeting.leave_delay":           c.Meeting.LeaveDelay,
		"account.signup_latency":        c.Account.SignupLatency,
		"account.reset_latency":         c.Account.ResetLatency,
		"account.signup_redirect_delay": c.Account.SignupRedirectDelay,
		"account.reset_redirect_delay":  c.Account.ResetRedirectDelay,
	}
	for key, d := range durations {
		if d < 0 {
			return fmt.Errorf("%s cannot be negative", key)
		}
	}

	if c.Meeting.TickInterval == 0 {
		return errors.New("meeting.tick_interval must be positive")
	}

	if _, err := c.Meeting.Location(); err != nil {
		return err
	}

	return nil
}
