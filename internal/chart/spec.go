// Package chart provides the Vega-Lite chart builder exposed to directive
// code as the predeclared "alt" module, and the portable spec document the
// builder serializes to.
package chart

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Pinned runtime versions for the client-side rendering stack. The embed
// fragment's spec declares the matching schema; the CDN URLs in config
// default to the same versions.
const (
	VegaVersion      = "5.30.0"
	VegaLiteVersion  = "5.20.1"
	VegaEmbedVersion = "6.26.0"
)

// SchemaURL identifies the Vega-Lite schema version specs conform to.
const SchemaURL = "https://vega.github.io/schema/vega-lite/v" + VegaLiteVersion + ".json"

// EmbedMode is the vega-embed mode written into every options record.
const EmbedMode = "vega-lite"

// Spec is a declarative, JSON-serializable Vega-Lite document.
type Spec struct {
	Config   *Config             `json:"config,omitempty"`
	Data     *Data               `json:"data,omitempty"`
	Mark     *Mark               `json:"mark,omitempty"`
	Encoding map[string]*Channel `json:"encoding,omitempty"`
	Width    int                 `json:"width,omitempty"`
	Height   int                 `json:"height,omitempty"`
	Title    string              `json:"title,omitempty"`
	Schema   string              `json:"$schema"`
}

// Config carries top-level chart configuration.
type Config struct {
	View ViewConfig `json:"view"`
}

// ViewConfig sets default view dimensions.
type ViewConfig struct {
	ContinuousWidth  int `json:"continuousWidth"`
	ContinuousHeight int `json:"continuousHeight"`
}

// Data holds inline data values.
type Data struct {
	Values []map[string]interface{} `json:"values"`
}

// Mark selects the visual mark type.
type Mark struct {
	Type string `json:"type"`
}

// Channel is a single encoding channel definition.
type Channel struct {
	Field string `json:"field"`
	Type  string `json:"type"`
}

// DefaultConfig returns the default view configuration applied to every spec.
func DefaultConfig() *Config {
	return &Config{View: ViewConfig{ContinuousWidth: 300, ContinuousHeight: 300}}
}

var validMarks = map[string]bool{
	"bar":    true,
	"point":  true,
	"line":   true,
	"area":   true,
	"circle": true,
	"square": true,
	"tick":   true,
	"rect":   true,
}

var validChannels = map[string]bool{
	"x":       true,
	"y":       true,
	"color":   true,
	"size":    true,
	"shape":   true,
	"opacity": true,
	"tooltip": true,
	"row":     true,
	"column":  true,
}

var validFieldTypes = map[string]bool{
	"quantitative": true,
	"nominal":      true,
	"ordinal":      true,
	"temporal":     true,
	"geojson":      true,
}

// Validate checks the spec against the grammar the builder can emit: a known
// mark is required, and every encoding channel and field type must be
// recognized. The error names the first offending element.
func (s *Spec) Validate() error {
	if s.Mark == nil || s.Mark.Type == "" {
		return fmt.Errorf("spec has no mark")
	}
	if !validMarks[s.Mark.Type] {
		return fmt.Errorf("unknown mark type %q", s.Mark.Type)
	}
	for channel, def := range s.Encoding {
		if !validChannels[channel] {
			return fmt.Errorf("unknown encoding channel %q", channel)
		}
		if def == nil || def.Field == "" {
			return fmt.Errorf("encoding channel %q has no field", channel)
		}
		if !validFieldTypes[def.Type] {
			return fmt.Errorf("encoding channel %q has invalid field type %q", channel, def.Type)
		}
	}
	if s.Schema == "" {
		return fmt.Errorf("spec has no $schema")
	}
	return nil
}

// JSON serializes the spec. Encoding channels come out in sorted key order,
// so serialization is deterministic.
func (s *Spec) JSON() (string, error) {
	out, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// parseShorthand expands the altair-style "field:T" encoding shorthand into a
// channel definition. A bare field name defaults to nominal.
func parseShorthand(shorthand string) (*Channel, error) {
	field := shorthand
	typeName := "nominal"

	if idx := strings.LastIndex(shorthand, ":"); idx >= 0 {
		field = shorthand[:idx]
		code := shorthand[idx+1:]
		var ok bool
		typeName, ok = shorthandTypes[code]
		if !ok {
			return nil, fmt.Errorf("invalid type code %q in shorthand %q", code, shorthand)
		}
	}

	if field == "" {
		return nil, fmt.Errorf("empty field in shorthand %q", shorthand)
	}

	return &Channel{Field: field, Type: typeName}, nil
}

var shorthandTypes = map[string]string{
	"Q": "quantitative",
	"N": "nominal",
	"O": "ordinal",
	"T": "temporal",
	"G": "geojson",
}
