// Package config loads engine settings from an optional file and CASTER_* environment
// variables.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"caster-engine/engine"
	"caster-engine/internal/errors"
	"caster-engine/internal/logger"
	"caster-engine/options"
)

// EnvPrefix prefixes environment overrides, e.g. CASTER_MAX_DEPTH or CASTER_LOG_LEVEL.
const EnvPrefix = "CASTER"

// Settings are the file and environment controlled engine settings.
type Settings struct {
	// MaxDepth bounds rule nesting, zero means unlimited.
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`
	// Concurrency of CompileAll, zero keeps the engine default.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
	// Fallbacks names the built-in conversion categories, see options.ParseCategories.
	Fallbacks []string `mapstructure:"fallbacks" yaml:"fallbacks"`
	// CompileAll warms every plan after the engine is built.
	CompileAll bool `mapstructure:"compile_all" yaml:"compile_all"`
	// Strict fails when AssertValid reports problems.
	Strict bool `mapstructure:"strict" yaml:"strict"`

	Log LogSettings `mapstructure:"log" yaml:"log"`
}

type LogSettings struct {
	JSON  bool   `mapstructure:"json" yaml:"json"`
	Level string `mapstructure:"level" yaml:"level"`
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("max_depth", 0)
	v.SetDefault("concurrency", 0)
	v.SetDefault("fallbacks", []string{"all"})
	v.SetDefault("compile_all", false)
	v.SetDefault("strict", false)
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
}

// Load reads settings from path, when not empty, with environment overrides on top.
// The file format follows the extension (yaml, toml, json).
func Load(path string) (*Settings, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	return LoadWithViper(v)
}

// LoadWithViper decodes settings from a prepared viper instance.
func LoadWithViper(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "decode settings")
	}

	if s.MaxDepth < 0 {
		return nil, errors.Newf("max_depth must not be negative, got %d", s.MaxDepth)
	}

	return &s, nil
}

// EngineOptions converts s into engine options.
func (s *Settings) EngineOptions() ([]engine.Option, error) {
	opts := []engine.Option{
		engine.WithMaxDepth(s.MaxDepth),
		engine.WithConcurrency(s.Concurrency),
	}

	if len(s.Fallbacks) > 0 {
		cats, err := options.ParseCategories(s.Fallbacks)
		if err != nil {
			return nil, errors.WithHint(errors.Wrap(err, "fallbacks"),
				"use category names such as identity, parse or all")
		}

		opts = append(opts, engine.WithFallbacks(cats))
	}

	return opts, nil
}

// Logger builds the logger described by the log section.
func (s *Settings) Logger() (*zap.Logger, error) {
	return logger.New(logger.Options{JSON: s.Log.JSON, Level: s.Log.Level})
}
