// Package cmd provides the command-line interface for vegadoc.
//
// Configuration is resolved from multiple sources with clear precedence:
//  1. Command-line flags (--config, --format, etc.) - highest priority
//  2. VEGADOC_CONFIG_FILE environment variable - custom config file path
//  3. Individual environment variables (VEGADOC_SITE_SOURCE, etc.)
//  4. Configuration files (.vegadoc.yml) - lowest priority
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/vegadoc/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vegadoc",
	Short: "A documentation builder with executable chart blocks",
	Long: `Vegadoc builds static documentation from markdown sources. Fenced
vega-plot blocks execute their embedded code and render interactive
Vega-Lite charts into the generated pages.

Quick Start:
  vegadoc build                   Build the documentation site
  vegadoc watch                   Rebuild on source changes
  vegadoc check                   Validate directive blocks without executing

Documentation: https://github.com/conneroisu/vegadoc`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .vegadoc.yml, can also use VEGADOC_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig wires the configuration sources together. Flag beats env var
// beats default file; VEGADOC_* environment variables override any file value.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("VEGADOC_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vegadoc")
	}

	viper.SetEnvPrefix("VEGADOC")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is fine; defaults cover everything.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the command logger from the --log-level flag.
func newLogger() logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: "text",
		Output: os.Stderr,
	})
}
