// Package config loads run settings from an optional config file and
// SELFSIM_* environment variables. Command-line flags are applied on top by
// the cli package.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"selfsim/internal/batch"
	"selfsim/internal/grid"
)

// EnvPrefix namespaces environment overrides (SELFSIM_THREADS, SELFSIM_GRID_NEAR_WINDOW, ...).
const EnvPrefix = "SELFSIM"

// Keys.
const (
	KeyThreads       = "threads"
	KeyBatchSize     = "batch_size"
	KeyQueueCapacity = "queue_capacity"
	KeyCompression   = "compression"
	KeySequential    = "sequential"
	KeySampleRate    = "report.sample_rate"
	KeyGridSpacing   = "grid.spacing"
	KeyNearMaxSep    = "grid.near.max_separation"
	KeyNearWindow    = "grid.near.window"
	KeyMidMaxSep     = "grid.mid.max_separation"
	KeyMidWindow     = "grid.mid.window"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyProgress      = "progress"
	KeyPubEndpoint   = "publish.endpoint"
	KeyPubAccessKey  = "publish.access_key"
	KeyPubSecretKey  = "publish.secret_key"
	KeyPubSecure     = "publish.secure"
	KeyPubRegion     = "publish.region"
)

// Grid mirrors the two bounded resolution tiers; the last tier always
// compares spacing-long windows.
type Grid struct {
	Spacing           int
	NearMaxSeparation int
	NearWindow        int
	MidMaxSeparation  int
	MidWindow         int
}

// Publish holds object-store credentials for --publish.
type Publish struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
	Region    string
}

// Config is the merged file/env view.
type Config struct {
	Threads       int
	BatchSize     int
	QueueCapacity int
	Compression   string
	Sequential    bool
	SampleRate    int
	Grid          Grid
	LogLevel      string
	LogFormat     string
	Progress      bool
	Publish       Publish
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyThreads, 0)
	v.SetDefault(KeyBatchSize, batch.BulkCapacity)
	v.SetDefault(KeyQueueCapacity, 0)
	v.SetDefault(KeyCompression, "none")
	v.SetDefault(KeySequential, false)
	v.SetDefault(KeySampleRate, 1)
	v.SetDefault(KeyGridSpacing, grid.Spacing)
	v.SetDefault(KeyNearMaxSep, grid.NearMaxSeparation)
	v.SetDefault(KeyNearWindow, grid.NearWindow)
	v.SetDefault(KeyMidMaxSep, grid.MidMaxSeparation)
	v.SetDefault(KeyMidWindow, grid.MidWindow)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyProgress, false)
	v.SetDefault(KeyPubEndpoint, "")
	v.SetDefault(KeyPubAccessKey, "")
	v.SetDefault(KeyPubSecretKey, "")
	v.SetDefault(KeyPubSecure, true)
	v.SetDefault(KeyPubRegion, "")
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

// Load reads path (any format viper understands; "" skips the file) and
// applies environment overrides.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Threads:       v.GetInt(KeyThreads),
		BatchSize:     v.GetInt(KeyBatchSize),
		QueueCapacity: v.GetInt(KeyQueueCapacity),
		Compression:   v.GetString(KeyCompression),
		Sequential:    v.GetBool(KeySequential),
		SampleRate:    v.GetInt(KeySampleRate),
		Grid: Grid{
			Spacing:           v.GetInt(KeyGridSpacing),
			NearMaxSeparation: v.GetInt(KeyNearMaxSep),
			NearWindow:        v.GetInt(KeyNearWindow),
			MidMaxSeparation:  v.GetInt(KeyMidMaxSep),
			MidWindow:         v.GetInt(KeyMidWindow),
		},
		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: v.GetString(KeyLogFormat),
		Progress:  v.GetBool(KeyProgress),
		Publish: Publish{
			Endpoint:  v.GetString(KeyPubEndpoint),
			AccessKey: v.GetString(KeyPubAccessKey),
			SecretKey: v.GetString(KeyPubSecretKey),
			Secure:    v.GetBool(KeyPubSecure),
			Region:    v.GetString(KeyPubRegion),
		},
	}
}

// GridConfig converts the tier settings into a grid.Config. The result is
// validated by the pipeline.
func (g Grid) GridConfig() grid.Config {
	return grid.Config{
		Spacing: g.Spacing,
		Tiers: []grid.Tier{
			{MaxSeparation: g.NearMaxSeparation, Window: g.NearWindow},
			{MaxSeparation: g.MidMaxSeparation, Window: g.MidWindow},
			{MaxSeparation: 0, Window: g.Spacing},
		},
	}
}
