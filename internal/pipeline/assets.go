package pipeline

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/conneroisu/vegadoc/internal/errors"
)

//go:embed static/vega-plot.css
var pluginCSS []byte

// writeAssets registers the plugin's static assets with the output tree.
func (p *Pipeline) writeAssets() error {
	staticDir := filepath.Join(p.cfg.Site.Output, "_static")
	if err := os.MkdirAll(staticDir, 0750); err != nil {
		return errors.NewIOError("creating static directory", err)
	}

	cssPath := filepath.Join(staticDir, "vega-plot.css")
	if err := os.WriteFile(cssPath, pluginCSS, 0644); err != nil {
		return errors.NewIOError("writing stylesheet", err)
	}
	return nil
}
