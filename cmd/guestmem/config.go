package main

import (
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/guestmem/errors"
	"github.com/wippyai/guestmem/hostfunc"
)

var validate = validator.New()

// Config is the optional YAML file passed with --config.
type Config struct {
	// LogLevel is a zap level name.
	LogLevel string `yaml:"logLevel" validate:"omitempty,oneof=debug info warn error"`
	// MaxStringLen caps guest strings read by the host module. Zero
	// disables the cap.
	MaxStringLen *uint32 `yaml:"maxStringLen" validate:"omitempty,max=1073741824"`
	// Entry is the function run calls when --func is not given.
	Entry string `yaml:"entry" validate:"omitempty,printascii"`
}

func defaultConfig() Config {
	return Config{LogLevel: "info"}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read "+path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse "+path)
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "validate "+path)
	}
	return cfg, nil
}

func (c Config) hostOptions() []hostfunc.Option {
	var opts []hostfunc.Option
	if c.MaxStringLen != nil {
		opts = append(opts, hostfunc.WithMaxStringLen(*c.MaxStringLen))
	}
	return opts
}

func newLogger(cfg Config, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if verbose {
		zc = zap.NewDevelopmentConfig()
	} else {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "logLevel")
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
