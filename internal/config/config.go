// Package config holds the site-wide settings consumed by the build and
// serve commands. Settings load from config.yaml in the site root, with
// PLUME_-prefixed environment variable overrides.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Platform selects the deployment flavor the site is rendered for. The same
// content tree renders for either target; the platform only changes permalink
// shape and date display conventions.
const (
	PlatformJekyll    = "jekyll"
	PlatformWordPress = "wordpress"
)

type Config struct {
	Title         string `mapstructure:"title"`
	Author        string `mapstructure:"author"`
	BaseURL       string `mapstructure:"baseURL"`
	Theme         string `mapstructure:"theme"`
	Platform      string `mapstructure:"platform"`
	OutputDir     string `mapstructure:"outputDir"`
	PostsPerPage  int    `mapstructure:"postsPerPage"`
	SummaryLength int    `mapstructure:"summaryLength"`
}

// SetDefaults registers the default value for every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("title", "My Blog")
	v.SetDefault("author", "")
	v.SetDefault("baseURL", "")
	v.SetDefault("theme", "default")
	v.SetDefault("platform", PlatformJekyll)
	v.SetDefault("outputDir", "public")
	v.SetDefault("postsPerPage", 10)
	v.SetDefault("summaryLength", 180)
}

// Load unmarshals the settings bound on v into a Config and validates them.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Platform {
	case PlatformJekyll, PlatformWordPress:
	default:
		return fmt.Errorf("unknown platform %q: must be %q or %q", c.Platform, PlatformJekyll, PlatformWordPress)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("outputDir must not be empty")
	}
	if c.PostsPerPage < 1 {
		return fmt.Errorf("postsPerPage must be at least 1, got %d", c.PostsPerPage)
	}
	return nil
}
