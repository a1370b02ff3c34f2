package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/conneroisu/vegadoc/internal/config"
	"github.com/conneroisu/vegadoc/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the documentation site",
	Long: `Build all markdown documents under the configured source directory,
executing every vega-plot block and writing rendered pages to the output
directory.

Examples:
  vegadoc build                   # Build with settings from .vegadoc.yml
  vegadoc build --format text     # Emit plain-text pages with placeholders
  vegadoc build --strict          # Treat block execution failures as fatal
  vegadoc build --source docs --output public`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	registerBuildFlags(buildCmd.Flags())
}

// registerBuildFlags declares the build overrides and binds each one to its
// configuration key. An unchanged flag never shadows a config file value.
func registerBuildFlags(flags *pflag.FlagSet) {
	flags.String("source", "", "Source directory (overrides site.source)")
	flags.String("output", "", "Output directory (overrides site.output)")
	flags.String("format", "", "Output format: html or text (overrides build.format)")
	flags.Bool("strict", false, "Fail the build on any block execution error")

	viper.BindPFlag("site.source", flags.Lookup("source"))
	viper.BindPFlag("site.output", flags.Lookup("output"))
	viper.BindPFlag("build.format", flags.Lookup("format"))
	viper.BindPFlag("build.strict", flags.Lookup("strict"))
}

func runBuild(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	p := pipeline.New(cfg, newLogger())
	result, err := p.Build(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Built %d document(s), %d block(s), %d warning(s) in %s\n",
		result.Documents, result.Blocks, result.Warnings,
		time.Since(startTime).Round(time.Millisecond))
	return nil
}
