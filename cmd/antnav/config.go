package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hupe1980/antnav"
	"github.com/hupe1980/antnav/codec"
	"github.com/hupe1980/antnav/differencer"
	"github.com/hupe1980/antnav/imgproc"
	"github.com/hupe1980/antnav/routedb"
)

// Config is the JSON configuration file of the antnav command.
type Config struct {
	Algorithm string `json:"algorithm"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`

	// Perfect memory.
	Differencer differencer.Kind `json:"differencer"`
	Workers     int              `json:"workers"`
	WeightBest  int              `json:"weight_best"`

	// InfoMax.
	LearningRate float64 `json:"learning_rate"`
	Seed         *uint64 `json:"seed,omitempty"`

	ResizeRoute bool           `json:"resize_route"`
	ScanStep    int            `json:"scan_step"`
	Format      routedb.Format `json:"format"`

	Store StoreConfig `json:"store"`
	Log   LogConfig   `json:"log"`
}

// StoreConfig selects the blob store holding routes.
type StoreConfig struct {
	Backend   string `json:"backend"`
	Root      string `json:"root"`
	Bucket    string `json:"bucket"`
	Prefix    string `json:"prefix"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Secure    bool   `json:"secure"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  slog.Level `json:"level"`
	Format string     `json:"format"`
}

// DefaultConfig returns a perfect memory setup over a local store in the
// working directory.
func DefaultConfig() Config {
	return Config{
		Algorithm:    "perfect-memory",
		Width:        180,
		Height:       50,
		Differencer:  differencer.KindAbsDiff,
		LearningRate: 0.0001,
		ScanStep:     1,
		Format:       routedb.PNG,
		Store:        StoreConfig{Backend: "local", Root: "."},
		Log:          LogConfig{Level: slog.LevelInfo, Format: "text"},
	}
}

// LoadConfig reads path over the defaults. An empty path yields the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := codec.Default.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	switch c.Algorithm {
	case "perfect-memory", "infomax":
	default:
		return fmt.Errorf("unknown algorithm %q", c.Algorithm)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", c.Width, c.Height)
	}
	if c.ScanStep < 1 {
		return fmt.Errorf("scan_step must be positive, got %d", c.ScanStep)
	}
	switch c.Store.Backend {
	case "local", "memory":
	case "s3", "minio":
		if c.Store.Bucket == "" {
			return fmt.Errorf("%s store needs a bucket", c.Store.Backend)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// Size returns the configured image resolution.
func (c Config) Size() imgproc.Size {
	return imgproc.Size{Width: c.Width, Height: c.Height}
}

// Logger builds the logger described by c.Log.
func (c Config) Logger() *antnav.Logger {
	if c.Log.Format == "json" {
		return antnav.NewJSONLogger(c.Log.Level)
	}
	return antnav.NewTextLogger(c.Log.Level)
}
