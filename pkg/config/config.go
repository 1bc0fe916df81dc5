// Package config loads rotcat settings from defaults, a YAML file, ROTCAT_*
// environment variables and command-line overrides, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"rotcat/pkg/buffers"
	"rotcat/pkg/log"
	"rotcat/pkg/transform"
)

const (
	EnvPrefix         = "ROTCAT"
	DefaultConfigName = "rotcat"
	DefaultListenAddr = ":7780"
)

// Keys shared by the config file, the environment and the CLI overrides.
const (
	KeyPath        = "path"
	KeyOffset      = "offset"
	KeyReverse     = "reverse"
	KeyBufferSize  = "buffer_size"
	KeyInputCodec  = "input_codec"
	KeyOutputCodec = "output_codec"
	KeyLogLevel    = "log_level"
	KeyLogDB       = "log_db"
	KeyListenAddr  = "listen_address"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Path        string `mapstructure:"path"`
	Offset      *int   `mapstructure:"offset"` // nil selects ROT13
	Reverse     bool   `mapstructure:"reverse"`
	BufferSize  int    `mapstructure:"buffer_size"`
	InputCodec  string `mapstructure:"input_codec"`
	OutputCodec string `mapstructure:"output_codec"`
	LogLevel    string `mapstructure:"log_level"`
	LogDB       string `mapstructure:"log_db"`
	ListenAddr  string `mapstructure:"listen_address"`
	ConfigFile  string // file actually read, empty if none; set after decoding
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyPath, "")
	v.SetDefault(KeyReverse, false)
	v.SetDefault(KeyBufferSize, buffers.DefaultBufferSize)
	v.SetDefault(KeyInputCodec, string(transform.CodecNone))
	v.SetDefault(KeyOutputCodec, string(transform.CodecNone))
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogDB, "")
	v.SetDefault(KeyListenAddr, DefaultListenAddr)
}

// Load builds the configuration. configFile names an explicit YAML file,
// which must exist; when empty, rotcat.yaml is looked up in the working
// directory and $HOME/.rotcat and may be absent. overrides carries the
// values given on the command line, keyed by the Key* constants.
func Load(configFile string, overrides map[string]any) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix) // ROTCAT_OFFSET, ROTCAT_BUFFER_SIZE, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// offset has no default, so it needs an explicit binding to be seen by Unmarshal
	if err := v.BindEnv(KeyOffset); err != nil {
		return nil, err
	}

	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.rotcat")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: failed to read %s: %w", configFile, err)
		}
	}

	for k, val := range overrides {
		v.Set(k, val)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges. Offsets above 26 are accepted and reduced
// modulo 26 by the mapping; negative offsets are rejected.
func (c *Config) Validate() error {
	if c.Offset != nil && *c.Offset < 0 {
		return fmt.Errorf("%w: offset must be >= 0, got %d", ErrInvalidConfig, *c.Offset)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("%w: buffer_size must be > 0, got %d", ErrInvalidConfig, c.BufferSize)
	}
	if _, err := transform.ParseCodec(c.InputCodec); err != nil {
		return fmt.Errorf("%w: input_codec: %v", ErrInvalidConfig, err)
	}
	if _, err := transform.ParseCodec(c.OutputCodec); err != nil {
		return fmt.Errorf("%w: output_codec: %v", ErrInvalidConfig, err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Codecs returns the parsed input and output codecs. Call after Validate.
func (c *Config) Codecs() (in, out transform.Codec) {
	in, _ = transform.ParseCodec(c.InputCodec)
	out, _ = transform.ParseCodec(c.OutputCodec)
	return in, out
}
