package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/vegadoc/internal/config"
	"github.com/conneroisu/vegadoc/internal/pipeline"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate directive blocks without executing code",
	Long: `Parse every vega-plot block under the source directory and validate
its options. No code executes and nothing is written, so this is safe to run
against untrusted sources and cheap enough for CI.

Examples:
  vegadoc check                   # Validate all documents`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	p := pipeline.New(cfg, newLogger())
	if err := p.Check(context.Background()); err != nil {
		return err
	}

	fmt.Println("All directive blocks are valid.")
	return nil
}
