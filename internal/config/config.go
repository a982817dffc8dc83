// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"

	NotifierLog = "log"
	NotifierSES = "ses"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type LadderConfig struct {
	// ChallengeRange is how many ranks above itself a team may challenge.
	ChallengeRange int `yaml:"challenge_range"`
}

type BoardsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	RefreshCron  string `yaml:"refresh_cron"`
	WebhookURL   string `yaml:"webhook_url"`
	// Sent with every post so the gateway can reject forged boards.
	WebhookToken string `yaml:"-"` // Loaded from environment
}

type NotificationsConfig struct {
	Driver          string `yaml:"driver"`
	Region          string `yaml:"region"`
	Sender          string `yaml:"sender"`
	AccessKeyID     string `yaml:"-"` // Loaded from environment
	SecretAccessKey string `yaml:"-"` // Loaded from environment
}

type RateLimitConfig struct {
	CommandCooldown   time.Duration `yaml:"command_cooldown"`
	CommandMaxPerHour int           `yaml:"command_max_per_hour"`
	IPMaxPerHour      int           `yaml:"ip_max_per_hour"`
}

type Config struct {
	App struct {
		Name            string        `yaml:"name"`
		Environment     string        `yaml:"environment"`
		Port            int           `yaml:"port"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		// TrustProxy honours X-Forwarded-For when the gateway sits behind a proxy.
		TrustProxy      bool          `yaml:"trust_proxy"`
		SecretKey       string        `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database      DatabaseConfig      `yaml:"database"`
	Ladder        LadderConfig        `yaml:"ladder"`
	Boards        BoardsConfig        `yaml:"boards"`
	Notifications NotificationsConfig `yaml:"notifications"`
	RateLimit     RateLimitConfig     `yaml:"ratelimit"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Load sensitive values from environment
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	cfg.Boards.WebhookToken = os.Getenv("BOARDS_WEBHOOK_TOKEN")
	cfg.Notifications.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.Notifications.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML and fills defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.App.ShutdownTimeout == 0 {
		c.App.ShutdownTimeout = 30 * time.Second
	}
	if c.Ladder.ChallengeRange == 0 {
		c.Ladder.ChallengeRange = 2
	}
	if c.Boards.RefreshCron == "" {
		c.Boards.RefreshCron = "*/5 * * * *"
	}
	if c.Notifications.Driver == "" {
		c.Notifications.Driver = NotifierLog
	}
	if c.RateLimit.CommandCooldown == 0 {
		c.RateLimit.CommandCooldown = 2 * time.Second
	}
	if c.RateLimit.CommandMaxPerHour == 0 {
		c.RateLimit.CommandMaxPerHour = 120
	}
	if c.RateLimit.IPMaxPerHour == 0 {
		c.RateLimit.IPMaxPerHour = 2000
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Ladder.ChallengeRange < 1 {
		return fmt.Errorf("ladder challenge_range must be at least 1")
	}

	if c.Boards.Enabled {
		if _, err := cron.ParseStandard(c.Boards.RefreshCron); err != nil {
			return fmt.Errorf("invalid boards refresh_cron %q: %w", c.Boards.RefreshCron, err)
		}
	}

	switch c.Notifications.Driver {
	case NotifierLog:
	case NotifierSES:
		if c.Notifications.Region == "" || c.Notifications.Sender == "" {
			return fmt.Errorf("notifications region and sender are required for ses")
		}
		if c.Notifications.AccessKeyID == "" || c.Notifications.SecretAccessKey == "" {
			return fmt.Errorf("aws credentials are required for ses notifications")
		}
	default:
		return fmt.Errorf("unsupported notifications driver: %s", c.Notifications.Driver)
	}

	if c.RateLimit.CommandMaxPerHour < 0 {
		return fmt.Errorf("ratelimit command_max_per_hour cannot be negative")
	}
	if c.RateLimit.IPMaxPerHour < 0 {
		return fmt.Errorf("ratelimit ip_max_per_hour cannot be negative")
	}

	return nil
}
