// Package config loads smoothie settings from defaults, an optional
// config.yaml and SMOOTHIE_ prefixed environment variables.
package config

import (
	"path/filepath"
	"strings"

	"github.com/aipencil/smoothie/pkg/logger"
	"github.com/aipencil/smoothie/pkg/render"
	"github.com/aipencil/smoothie/pkg/skills"
	"github.com/aipencil/smoothie/pkg/writer"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override
const EnvPrefix = "SMOOTHIE"

// Configuration keys
const (
	KeyProjectDir         = "project_dir"
	KeyBundledDir         = "bundled_dir"
	KeyUserDir            = "user_dir"
	KeyArtisanCommand     = "artisan_command"
	KeyInstallExclude     = "install.exclude"
	KeyGuidelinesStrategy = "guidelines.strategy"
	KeyLogLevel           = "log_level"
	KeyLogFormat          = "log_format"
)

// Config holds the resolved settings
type Config struct {
	// ProjectDir is the application root skills are installed into
	ProjectDir string `mapstructure:"project_dir"`
	// BundledDir overrides the embedded skill bundle when set
	BundledDir string `mapstructure:"bundled_dir"`
	// UserDir holds user authored skills, relative to ProjectDir unless absolute
	UserDir        string `mapstructure:"user_dir"`
	ArtisanCommand string `mapstructure:"artisan_command"`

	Install struct {
		Exclude []string `mapstructure:"exclude"`
	} `mapstructure:"install"`

	Guidelines struct {
		Strategy string `mapstructure:"strategy"`
	} `mapstructure:"guidelines"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// SetDefaults registers the default value of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyProjectDir, ".")
	v.SetDefault(KeyBundledDir, "")
	v.SetDefault(KeyUserDir, skills.UserSkillsDir)
	v.SetDefault(KeyArtisanCommand, render.DefaultArtisanCommand)
	v.SetDefault(KeyInstallExclude, []string{})
	v.SetDefault(KeyGuidelinesStrategy, string(writer.StrategyInstructions))
	v.SetDefault(KeyLogLevel, logger.DefaultLevel)
	v.SetDefault(KeyLogFormat, "text")
}

// Init prepares v to read environment variables and a config file. An
// explicit configFile must exist; otherwise config.yaml is looked up in
// $HOME/.smoothie and the working directory, and a missing file is fine.
func Init(v *viper.Viper, configFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", configFile)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.smoothie")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "failed to read config file")
		}
	}
	return nil
}

// Load decodes the settings held by v and validates them
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks values that would otherwise only fail deep inside an install
func (c *Config) Validate() error {
	if _, err := writer.ParseStrategy(c.Guidelines.Strategy); err != nil {
		return errors.Wrap(err, "invalid "+KeyGuidelinesStrategy)
	}

	switch c.LogFormat {
	case "text", "json", "fmt":
	default:
		return errors.Errorf("invalid %s %q (expected text or json)", KeyLogFormat, c.LogFormat)
	}

	return nil
}

// UserSkillsDir resolves UserDir against ProjectDir
func (c *Config) UserSkillsDir() string {
	if filepath.IsAbs(c.UserDir) {
		return c.UserDir
	}
	return filepath.Join(c.ProjectDir, c.UserDir)
}

// Strategy returns the parsed guidelines strategy
func (c *Config) Strategy() writer.Strategy {
	s, err := writer.ParseStrategy(c.Guidelines.Strategy)
	if err != nil {
		return writer.StrategyInstructions
	}
	return s
}

// ComposerOptions returns the options that point a skills.Composer at the
// configured directories.
func (c *Config) ComposerOptions() []skills.Option {
	bundled := skills.WithDefaultDirs()
	if c.BundledDir != "" {
		bundled = skills.WithBundledDir(c.BundledDir)
	}
	return []skills.Option{bundled, skills.WithUserDir(c.UserSkillsDir())}
}

// WriterOptions returns the options for a writer.Writer honouring this config
func (c *Config) WriterOptions() []writer.Option {
	return []writer.Option{
		writer.WithProjectRoot(c.ProjectDir),
		writer.WithRenderer(render.New(render.WithArtisanCommand(c.ArtisanCommand))),
		writer.WithExclude(c.Install.Exclude...),
		writer.WithStrategy(c.Strategy()),
	}
}
