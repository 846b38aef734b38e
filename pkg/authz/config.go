package authz

import (
	"errors"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/order-explorer/pkg/configuration"
)

// Config locates the casbin model, the policy file and the enforcement flags.
// FlagProvider, when set, takes precedence over FlagPath.
type Config struct {
	ModelPath    string
	PolicyPath   string
	FlagPath     string
	FlagMode     Mode
	Logger       *logrus.Logger
	FlagProvider FlagProvider
}

// resolve reports every missing input at once and returns the config with
// cleaned paths and a flag provider in place.
func (c Config) resolve() (Config, error) {
	var errs []error
	if c.ModelPath == "" {
		errs = append(errs, configError("missing model path"))
	}
	if c.PolicyPath == "" {
		errs = append(errs, configError("missing policy path"))
	}
	if c.FlagPath == "" && c.FlagProvider == nil {
		errs = append(errs, configError("missing flag configuration path"))
	}
	if err := errors.Join(errs...); err != nil {
		return c, err
	}

	c.ModelPath = filepath.Clean(c.ModelPath)
	c.PolicyPath = filepath.Clean(c.PolicyPath)
	if c.FlagProvider == nil {
		c.FlagProvider = NewFileFlagProvider(filepath.Clean(c.FlagPath), c.FlagMode)
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c, nil
}

// ConfigFrom maps the AUTHZ_* settings onto a Config.
func ConfigFrom(cfg *configuration.Configuration) Config {
	mode, err := ParseMode(cfg.Authz.Mode)
	if err != nil {
		mode = ModeEnforce
	}
	return Config{
		ModelPath:  cfg.Authz.ModelPath,
		PolicyPath: cfg.Authz.PolicyPath,
		FlagPath:   cfg.Authz.FlagConfigPath,
		FlagMode:   mode,
		Logger:     cfg.Logger(),
	}
}
