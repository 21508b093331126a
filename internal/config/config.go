package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config holds application configuration
type Config struct {
	TelegramToken       string `env:"TELEGRAM_BOT_TOKEN"`
	BotUsername         string `env:"BOT_USERNAME"         envDefault:"LunchBuddy1Bot"`
	DatabasePath        string `env:"DATABASE_PATH"        envDefault:"./lunch_buddy.db"`
	VenuesCSV           string `env:"VENUES_CSV"`
	Language            string `env:"SUMMARY_LANGUAGE"     envDefault:"en"`
	DispatchConcurrency int    `env:"DISPATCH_CONCURRENCY" envDefault:"8"`
	RecommendationLimit int    `env:"RECOMMENDATION_LIMIT" envDefault:"3"`
	UpdateTimeout       int    `env:"UPDATE_TIMEOUT"       envDefault:"60"`
	Timezone            string `env:"TIMEZONE"             envDefault:"Local"`
	WorkingHours        WorkingHours
}

// WorkingHours defines when new invitation rounds may be started
type WorkingHours struct {
	StartHour int `env:"INVITE_START_HOUR" envDefault:"0"`
	EndHour   int `env:"INVITE_END_HOUR"   envDefault:"24"`
	Location  *time.Location
}

// Load reads configuration from an optional .env file, the environment and
// command-line flags, in increasing order of precedence
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("lunch-buddy", pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "dotenv file to load before reading the environment")
	token := flags.String("token", "", "Telegram bot token")
	dbPath := flags.String("db", "", "path to the SQLite database")
	venuesCSV := flags.String("venues-csv", "", "CSV file to import venues from at startup")
	lang := flags.String("language", "", "language tag for summaries")
	concurrency := flags.Int("dispatch-concurrency", 0, "maximum invitations sent in parallel")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", *envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if flags.Changed("token") {
		cfg.TelegramToken = *token
	}
	if flags.Changed("db") {
		cfg.DatabasePath = *dbPath
	}
	if flags.Changed("venues-csv") {
		cfg.VenuesCSV = *venuesCSV
	}
	if flags.Changed("language") {
		cfg.Language = *lang
	}
	if flags.Changed("dispatch-concurrency") {
		cfg.DispatchConcurrency = *concurrency
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	cfg.WorkingHours.Location = loc

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	if c.DispatchConcurrency <= 0 {
		return fmt.Errorf("dispatch concurrency must be positive, got %d", c.DispatchConcurrency)
	}
	if c.UpdateTimeout <= 0 {
		return fmt.Errorf("update timeout must be positive, got %d", c.UpdateTimeout)
	}
	h := c.WorkingHours
	if h.StartHour < 0 || h.EndHour > 24 || h.StartHour >= h.EndHour {
		return fmt.Errorf("invalid invitation hours %d-%d", h.StartHour, h.EndHour)
	}
	return nil
}

// IsWorkingHours checks if current time is within working hours
func (c *Config) IsWorkingHours() bool {
	return c.isWorkingHoursAt(time.Now())
}

func (c *Config) isWorkingHoursAt(t time.Time) bool {
	loc := c.WorkingHours.Location
	if loc == nil {
		loc = time.UTC
	}
	hour := t.In(loc).Hour()
	return hour >= c.WorkingHours.StartHour && hour < c.WorkingHours.EndHour
}

// StartLink is the deep link that opens the survey of a group in a private chat
func (c *Config) StartLink(groupID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=g%d", c.BotUsername, groupID)
}
