package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	WindowWidth  = 1024
	WindowHeight = 640

	// Button dimensions
	ButtonWidth  = 560
	ButtonHeight = 64

	// Message box dimensions
	MessageWidth  = 640
	MessageHeight = 160

	// Star field parameters
	ZoomFactor      = 1.05
	MaxMagnitude    = 5.0
	BaseStarRadius  = 5.0
	MinStarRadius   = 1.0
	TwinkleSpeed    = 1.7
	TwinkleDepth    = 0.25
	MusicTwinkleMax = 0.5

	VisualRingSize  = 8192
	SmoothingFactor = 0.6
)

// DefaultMessages are shown in order: two buttons around a message, then the
// caption drawn over the night sky.
var DefaultMessages = []string{
	"Hello Habibi, press the button here and enjoy",
	"This day 1 year and 1 month ago we decided to make things official",
	"So I wanted to do something special for you",
	"This is how the night sky looked that very day. I will forever remember the moment and will forever love you. My habibi <3",
}

// Config is the runtime configuration of the presentation.
type Config struct {
	Endpoint      string        `mapstructure:"endpoint" env:"NIGHTSKY_ENDPOINT"`
	Latitude      float64       `mapstructure:"latitude" env:"NIGHTSKY_LATITUDE"`
	Longitude     float64       `mapstructure:"longitude" env:"NIGHTSKY_LONGITUDE"`
	ObservedAt    string        `mapstructure:"observed_at" env:"NIGHTSKY_OBSERVED_AT"`
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout" env:"NIGHTSKY_FETCH_TIMEOUT"`
	FetchAttempts uint          `mapstructure:"fetch_attempts" env:"NIGHTSKY_FETCH_ATTEMPTS"`
	RandomStars   int           `mapstructure:"random_stars" env:"NIGHTSKY_RANDOM_STARS"`
	Offline       bool          `mapstructure:"offline" env:"NIGHTSKY_OFFLINE"`

	Fullscreen    bool     `mapstructure:"fullscreen" env:"NIGHTSKY_FULLSCREEN"`
	Title         string   `mapstructure:"title" env:"NIGHTSKY_TITLE"`
	Messages      []string `mapstructure:"messages" env:"NIGHTSKY_MESSAGES" envSeparator:"|"`
	MusicPath     string   `mapstructure:"music" env:"NIGHTSKY_MUSIC"`
	ScreenshotDir string   `mapstructure:"screenshot_dir" env:"NIGHTSKY_SCREENSHOT_DIR"`

	LogLevel string `mapstructure:"log_level" env:"NIGHTSKY_LOG_LEVEL"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		Endpoint:      "https://api.stellarium-web.org/stars",
		Latitude:      41.9981,
		Longitude:     21.4254,
		ObservedAt:    "2023-12-17T22:30:00Z",
		FetchTimeout:  10 * time.Second,
		FetchAttempts: 3,
		RandomStars:   200,
		Title:         "Night Sky",
		Messages:      append([]string(nil), DefaultMessages...),
		ScreenshotDir: ".",
		LogLevel:      "info",
	}
}

// Load reads the optional config file at path and then applies environment
// overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	def := Default()

	v := viper.New()
	v.SetDefault("endpoint", def.Endpoint)
	v.SetDefault("latitude", def.Latitude)
	v.SetDefault("longitude", def.Longitude)
	v.SetDefault("observed_at", def.ObservedAt)
	v.SetDefault("fetch_timeout", def.FetchTimeout)
	v.SetDefault("fetch_attempts", def.FetchAttempts)
	v.SetDefault("random_stars", def.RandomStars)
	v.SetDefault("offline", def.Offline)
	v.SetDefault("fullscreen", def.Fullscreen)
	v.SetDefault("title", def.Title)
	v.SetDefault("messages", def.Messages)
	v.SetDefault("music", def.MusicPath)
	v.SetDefault("screenshot_dir", def.ScreenshotDir)
	v.SetDefault("log_level", def.LogLevel)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	// Defaults live on the viper instance; decoding into a zero value keeps a
	// shorter messages list from being merged over the default one.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config to struct: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Endpoint == "" && !c.Offline:
		return errors.New("config: endpoint is required unless offline")
	case c.Latitude < -90 || c.Latitude > 90:
		return fmt.Errorf("config: latitude %v out of range", c.Latitude)
	case c.Longitude < -180 || c.Longitude > 180:
		return fmt.Errorf("config: longitude %v out of range", c.Longitude)
	case !validTime(c.ObservedAt):
		return fmt.Errorf("config: observed_at %q is not RFC3339", c.ObservedAt)
	case c.FetchTimeout <= 0:
		return errors.New("config: fetch_timeout must be positive")
	case c.FetchAttempts == 0:
		return errors.New("config: fetch_attempts must be positive")
	case c.RandomStars <= 0:
		return errors.New("config: random_stars must be positive")
	case len(c.Messages) < 3:
		return fmt.Errorf("config: need at least 3 messages, got %d", len(c.Messages))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	return nil
}

// ObservationTime parses ObservedAt. It is valid after Validate succeeds.
func (c Config) ObservationTime() time.Time {
	t, _ := time.Parse(time.RFC3339, c.ObservedAt)
	return t.UTC()
}

func validTime(s string) bool {
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

// Level returns the parsed log level. It is valid after Validate succeeds.
func (c Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// Caption returns the text drawn over the night sky, if any.
func (c Config) Caption() string {
	if len(c.Messages) < 4 {
		return ""
	}
	return c.Messages[3]
}
