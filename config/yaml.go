package config

// config/yaml.go

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Settings configures the pipeline tooling. Every field has a default so
// the commands run without a config file, flags or environment.
type Settings struct {
	ContentDir         string        `mapstructure:"content_dir"`
	OutputDir          string        `mapstructure:"output_dir"`
	AssetsDir          string        `mapstructure:"assets_dir"`
	SourcesFile        string        `mapstructure:"sources_file"`
	Formats            []string      `mapstructure:"formats"`
	PlaceholderMarkers []string      `mapstructure:"placeholder_markers"`
	BaseURLPlaceholder string        `mapstructure:"base_url_placeholder"`
	Debounce           time.Duration `mapstructure:"debounce"`
	PollInterval       time.Duration `mapstructure:"poll_interval"`
	Sitemap            bool          `mapstructure:"sitemap"`
	SitemapPath        string        `mapstructure:"sitemap_path"`
	ClientBaseURL      string        `mapstructure:"client_base_url"`
	ClientTimeout      time.Duration `mapstructure:"client_timeout"`
	LogLevel           string        `mapstructure:"log_level"`
	LogFile            string        `mapstructure:"log_file"`
	Colors             bool          `mapstructure:"colors"`
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("content_dir", "content")
	v.SetDefault("output_dir", "public/data")
	v.SetDefault("assets_dir", "public/assets/placeholders")
	v.SetDefault("sources_file", "content/SOURCES.md")
	v.SetDefault("formats", []string{".yaml", ".yml", ".jsonc", ".json"})
	v.SetDefault("placeholder_markers", []string{"占位"})
	v.SetDefault("base_url_placeholder", "https://your-deploy-url/")
	v.SetDefault("debounce", 500*time.Millisecond)
	v.SetDefault("poll_interval", time.Second)
	v.SetDefault("sitemap", false)
	v.SetDefault("sitemap_path", "public/sitemap.xml")
	v.SetDefault("client_base_url", "http://localhost:9010")
	v.SetDefault("client_timeout", 10*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("colors", true)
}

// LoadSettings reads cfgFile (or ./sitecontent.yaml when empty), applies
// SITECONTENT_* environment overrides and returns the decoded settings.
// A missing default config file is not an error.
func LoadSettings(v *viper.Viper, cfgFile string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "load .env")
	}

	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("sitecontent")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("SITECONTENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "unable to decode settings")
	}

	return &s, nil
}
