package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dlr1251/chimeneasluque/internal/schedule"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Chat       ChatConfig       `yaml:"chat"`
	Gallery    GalleryConfig    `yaml:"gallery"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

// ScheduleConfig overrides the showroom visiting hours. Empty hours fall
// back to the default business rules.
type ScheduleConfig struct {
	HorizonMonths int                 `yaml:"horizon_months"`
	Hours         map[string][]string `yaml:"hours"`
}

type ChatConfig struct {
	APIURL            string `yaml:"api_url"`
	APIKey            string `yaml:"api_key"`
	Model             string `yaml:"model"`
	CollectionID      string `yaml:"collection_id"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	RateLimitMessages int    `yaml:"rate_limit_messages"`
	RateLimitWindow   int    `yaml:"rate_limit_window"`
}

type GalleryConfig struct {
	Root string `yaml:"root"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

// Load reads the YAML config, expanding ${ENV} references after merging
// an optional .env file.
func Load(configPath string) (*Config, error) {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.Schedule.HorizonMonths < 0 {
		return errors.New("schedule horizon_months cannot be negative")
	}
	for day, hours := range c.Schedule.Hours {
		if _, ok := weekdayNames[strings.ToLower(day)]; !ok {
			return fmt.Errorf("unknown weekday %q in schedule.hours", day)
		}
		for _, h := range hours {
			if _, err := time.Parse("15:04", h); err != nil {
				return fmt.Errorf("invalid hour %q for %s: %w", h, day, err)
			}
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/reservations.db"
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Schedule.HorizonMonths == 0 {
		c.Schedule.HorizonMonths = 3
	}
	if c.Chat.APIURL == "" {
		c.Chat.APIURL = "https://api.x.ai/v1/chat/completions"
	}
	if c.Chat.Model == "" {
		c.Chat.Model = "grok-4-fast-non-reasoning"
	}
	if c.Chat.TimeoutSeconds == 0 {
		c.Chat.TimeoutSeconds = 15
	}
	if c.Chat.RateLimitMessages == 0 {
		c.Chat.RateLimitMessages = 20
	}
	if c.Chat.RateLimitWindow == 0 {
		c.Chat.RateLimitWindow = 60
	}
	if c.Gallery.Root == "" {
		c.Gallery.Root = "public/images"
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "data/reservations.xlsx"
	}
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Policy builds the schedule policy from config, falling back to the
// default business rules when no hours are configured.
func (c ScheduleConfig) Policy() *schedule.Policy {
	if len(c.Hours) == 0 {
		return schedule.New(schedule.DefaultHours(), c.HorizonMonths)
	}

	hours := make(map[time.Weekday][]string, len(c.Hours))
	for day, hh := range c.Hours {
		hours[weekdayNames[strings.ToLower(day)]] = hh
	}
	return schedule.New(hours, c.HorizonMonths)
}
