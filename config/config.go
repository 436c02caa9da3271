package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	UIModeWeb      = "web"
	UIModeTerminal = "terminal"
)

type BackendConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	RequestTimeout int    `mapstructure:"request_timeout"` // Seconds, 0 = transport default
}

type ClientConfig struct {
	MountPrefix  string `mapstructure:"mount_prefix"`
	PublicURL    string `mapstructure:"public_url"`    // Origin used to build full short links
	PollInterval int    `mapstructure:"poll_interval"` // Seconds
	StartPath    string `mapstructure:"start_path"`    // Navigation path of the terminal session
}

type WebServerConfig struct {
	Port            string `mapstructure:"port"`
	IP              string `mapstructure:"ip"`
	Scheme          string `mapstructure:"scheme"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type CacheConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MaxSizeMB   int  `mapstructure:"max_size_mb"`
	TTLSeconds  int  `mapstructure:"ttl_seconds"`
	CounterSize int  `mapstructure:"counter_size"`
}

type UIConfig struct {
	Mode string `mapstructure:"mode"` // "web" or "terminal"
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // Used when the terminal UI owns stdout
}

type Config struct {
	Backend   BackendConfig   `mapstructure:"backend"`
	Client    ClientConfig    `mapstructure:"client"`
	WebServer WebServerConfig `mapstructure:"webserver"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Cache     CacheConfig     `mapstructure:"cache"`
	UI        UIConfig        `mapstructure:"ui"`
	Log       LogConfig       `mapstructure:"log"`
}

// PollIntervalDuration returns the sync loop period
func (c ClientConfig) PollIntervalDuration() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}

func (c BackendConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// PublicOrigin is the origin full short links are built on.
// Without client.public_url it is the gateway's own listen address.
func (c Config) PublicOrigin() string {
	if c.Client.PublicURL != "" {
		return strings.TrimRight(c.Client.PublicURL, "/")
	}
	return fmt.Sprintf("%s://%s:%s", c.WebServer.Scheme, c.WebServer.IP, c.WebServer.Port)
}

func LoadConfig() (Config, error) {
	var config Config

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Enable environment variable overrides
	viper.SetEnvPrefix("SHORTURL")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("Error reading config file: %v", err)
			return config, err
		}
		log.Println("No config file found, using defaults")
	}

	if err := viper.Unmarshal(&config); err != nil {
		log.Printf("Unable to decode into struct: %v", err)
		return config, err
	}

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

func MustLoadConfig() Config {
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return config
}

// Validate rejects settings the client cannot run with
func (c Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("backend.base_url must be set")
	}
	if c.Client.PollInterval <= 0 {
		return errors.New("client.poll_interval must be positive")
	}
	if c.UI.Mode != UIModeWeb && c.UI.Mode != UIModeTerminal {
		return errors.New("ui.mode must be \"web\" or \"terminal\"")
	}
	return nil
}

func setDefaults() {
	// Backend defaults
	viper.SetDefault("backend.base_url", "http://localhost:8000")
	viper.SetDefault("backend.request_timeout", 60) // free instances can take a minute to wake up

	// Client defaults
	viper.SetDefault("client.mount_prefix", "")
	viper.SetDefault("client.public_url", "")
	viper.SetDefault("client.poll_interval", 5)
	viper.SetDefault("client.start_path", "/")

	// WebServer defaults
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.ip", "127.0.0.1")
	viper.SetDefault("webserver.scheme", "http")
	viper.SetDefault("webserver.read_timeout", 15)
	viper.SetDefault("webserver.write_timeout", 75)
	viper.SetDefault("webserver.shutdown_timeout", 30)

	// RateLimit defaults
	viper.SetDefault("ratelimit.requests_per_second", 10.0)
	viper.SetDefault("ratelimit.burst", 20)

	// Cache defaults
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size_mb", 8)
	viper.SetDefault("cache.ttl_seconds", 30)
	viper.SetDefault("cache.counter_size", 100000)

	viper.SetDefault("ui.mode", UIModeWeb)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "short-url-client.log")
}
