package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, "My Blog", cfg.Title)
	assert.Equal(t, PlatformJekyll, cfg.Platform)
	assert.Equal(t, "public", cfg.OutputDir)
	assert.Equal(t, 10, cfg.PostsPerPage)
	assert.Equal(t, 180, cfg.SummaryLength)
}

func TestLoadOverrides(t *testing.T) {
	v := newViper()
	v.Set("title", "CDNamchu's Blog")
	v.Set("author", "CDNamchu")
	v.Set("platform", PlatformWordPress)
	v.Set("baseURL", "https://example.com")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "CDNamchu's Blog", cfg.Title)
	assert.Equal(t, "CDNamchu", cfg.Author)
	assert.Equal(t, PlatformWordPress, cfg.Platform)
	assert.Equal(t, "https://example.com", cfg.BaseURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "unknown platform",
			mutate:  func(c *Config) { c.Platform = "hugo" },
			wantErr: "unknown platform",
		},
		{
			name:    "empty output dir",
			mutate:  func(c *Config) { c.OutputDir = "" },
			wantErr: "outputDir",
		},
		{
			name:    "zero posts per page",
			mutate:  func(c *Config) { c.PostsPerPage = 0 },
			wantErr: "postsPerPage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(newViper())
			require.NoError(t, err)

			tt.mutate(&cfg)
			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
