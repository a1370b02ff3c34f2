package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/vegadoc/internal/config"
	"github.com/conneroisu/vegadoc/internal/pipeline"
	"github.com/conneroisu/vegadoc/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild documents when sources change",
	Long: `Build the site, then watch the source directory and rebuild each
changed document. A changed document rebuilds from a fresh namespace, and a
removed document's namespace state is dropped.

Examples:
  vegadoc watch                   # Watch with settings from .vegadoc.yml
  vegadoc watch --debounce 500ms  # Custom debounce interval`,
	RunE: runWatch,
}

var watchDebounce time.Duration

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "Delay before rebuilding after a burst of changes")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := newLogger()
	p := pipeline.New(cfg, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initial full build. Failures are reported but watching continues, so
	// the author can fix the document and save again.
	if result, err := p.Build(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Initial build failed: %v\n", err)
	} else {
		fmt.Printf("Built %d document(s), %d block(s)\n", result.Documents, result.Blocks)
	}

	sourceWatcher, err := watcher.New(watchDebounce)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer sourceWatcher.Stop()

	sourceWatcher.AddFilter(watcher.MarkdownFilter)
	sourceWatcher.AddFilter(watcher.NoHiddenFilter)

	sourceWatcher.AddHandler(func(events []watcher.ChangeEvent) error {
		for _, event := range events {
			docname, ok := docnameFor(cfg, event.Path)
			if !ok {
				continue
			}
			if event.Removed() {
				p.Purge(docname)
				fmt.Printf("Purged %s\n", docname)
				continue
			}
			if _, _, err := p.BuildDocument(ctx, docname); err != nil {
				fmt.Fprintf(os.Stderr, "Rebuild of %s failed: %v\n", docname, err)
				continue
			}
			fmt.Printf("Rebuilt %s\n", docname)
		}
		return nil
	})

	if err := sourceWatcher.AddRecursive(cfg.Site.Source); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.Site.Source, err)
	}

	sourceWatcher.Start(ctx)
	fmt.Printf("Watching %s for changes... (Press Ctrl+C to stop)\n", cfg.Site.Source)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nStopping watcher...")
	cancel()
	return nil
}

// docnameFor maps a changed file path back to its docname under the source
// directory.
func docnameFor(cfg *config.Config, path string) (string, bool) {
	if filepath.Ext(path) != ".md" {
		return "", false
	}
	rel, err := filepath.Rel(cfg.Site.Source, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return strings.TrimSuffix(filepath.ToSlash(rel), ".md"), true
}
