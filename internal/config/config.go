// Package config provides build-wide configuration for vegadoc using Viper,
// loading from .vegadoc.yml, VEGADOC_* environment variables, and
// command-line flags.
//
// The configuration covers the source and output directories, the default
// action-link record applied to plot blocks that carry no :links: option, and
// the three client-side runtime script URLs, each independently overridable.
package config

import (
	"github.com/spf13/viper"

	"github.com/conneroisu/vegadoc/internal/chart"
	"github.com/conneroisu/vegadoc/internal/directive"
)

type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Links   LinksConfig   `yaml:"links"`
	Scripts ScriptsConfig `yaml:"scripts"`
	Build   BuildConfig   `yaml:"build"`
}

type SiteConfig struct {
	Source string `yaml:"source"`
	Output string `yaml:"output"`
	Title  string `yaml:"title"`
}

// LinksConfig is the build-wide default link-visibility record. All three
// default to true unless overridden.
type LinksConfig struct {
	Editor bool `yaml:"editor"`
	Source bool `yaml:"source"`
	Export bool `yaml:"export"`
}

// ScriptsConfig holds the external script URLs for the rendering runtime, the
// chart-spec runtime, and the embedding glue.
type ScriptsConfig struct {
	VegaURL      string `yaml:"vega_url" mapstructure:"vega_url"`
	VegaLiteURL  string `yaml:"vegalite_url" mapstructure:"vegalite_url"`
	VegaEmbedURL string `yaml:"vegaembed_url" mapstructure:"vegaembed_url"`
}

type BuildConfig struct {
	Strict bool   `yaml:"strict"`
	Format string `yaml:"format"`
}

// Default CDN URLs, pinned to the schema version the chart builder emits.
var (
	VegaURLDefault      = "https://cdn.jsdelivr.net/npm/vega@" + chart.VegaVersion
	VegaLiteURLDefault  = "https://cdn.jsdelivr.net/npm/vega-lite@" + chart.VegaLiteVersion
	VegaEmbedURLDefault = "https://cdn.jsdelivr.net/npm/vega-embed@" + chart.VegaEmbedVersion
)

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Link defaults are true, so a zero-value unmarshal cannot represent
	// "unset"; apply viper values only when explicitly set.
	config.Links = LinksConfig{Editor: true, Source: true, Export: true}
	if viper.IsSet("links.editor") {
		config.Links.Editor = viper.GetBool("links.editor")
	}
	if viper.IsSet("links.source") {
		config.Links.Source = viper.GetBool("links.source")
	}
	if viper.IsSet("links.export") {
		config.Links.Export = viper.GetBool("links.export")
	}

	if viper.IsSet("build.strict") {
		config.Build.Strict = viper.GetBool("build.strict")
	}

	// Apply default values for SiteConfig if not set
	if config.Site.Source == "" {
		config.Site.Source = "docs"
	}
	if config.Site.Output == "" {
		config.Site.Output = "public"
	}
	if config.Site.Title == "" {
		config.Site.Title = "Documentation"
	}

	// Apply default script URLs if not set
	if config.Scripts.VegaURL == "" {
		config.Scripts.VegaURL = VegaURLDefault
	}
	if config.Scripts.VegaLiteURL == "" {
		config.Scripts.VegaLiteURL = VegaLiteURLDefault
	}
	if config.Scripts.VegaEmbedURL == "" {
		config.Scripts.VegaEmbedURL = VegaEmbedURLDefault
	}

	if config.Build.Format == "" {
		config.Build.Format = "html"
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultLinks converts the configured record into the directive link policy
// applied when a block has no :links: option.
func (c *Config) DefaultLinks() directive.LinkPolicy {
	return directive.LinkPolicy{
		Editor: c.Links.Editor,
		Source: c.Links.Source,
		Export: c.Links.Export,
	}
}

// ScriptURLs returns the three runtime script URLs in load order: rendering
// runtime, chart-spec runtime, embedding glue.
func (c *Config) ScriptURLs() []string {
	return []string{c.Scripts.VegaURL, c.Scripts.VegaLiteURL, c.Scripts.VegaEmbedURL}
}
