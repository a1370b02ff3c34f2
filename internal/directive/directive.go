// Package directive parses and validates vega-plot directive blocks.
//
// A directive is a fenced code block whose info string is "vega-plot".
// Leading lines of the form ":name:" (flag) or ":name: value" set options;
// everything after them is the code text executed against the document's
// namespace. Option validation failures are fatal and abort the build.
package directive

import (
	"strings"

	"github.com/conneroisu/vegadoc/internal/errors"
)

// Name is the fenced-block info string that marks a directive.
const Name = "vega-plot"

// DefaultNamespace is the namespace id used when :namespace: is not given.
const DefaultNamespace = "default"

// Options is a validated directive invocation record.
type Options struct {
	HideCode     bool
	RemoveCode   bool
	CodeBelow    bool
	Strict       bool
	Namespace    string
	Output       OutputMode
	Alt          string
	Links        *LinkPolicy // nil means use the build-wide default
	ChartVarName string
	DivClass     string
}

// Block is a parsed directive invocation: validated options plus code text.
type Block struct {
	Options Options
	Code    string
	Line    int // line of the opening fence in the source document
}

type optionKind int

const (
	optionFlag optionKind = iota
	optionText
)

var optionSpec = map[string]optionKind{
	"hide-code":      optionFlag,
	"remove-code":    optionFlag,
	"code-below":     optionFlag,
	"strict":         optionFlag,
	"namespace":      optionText,
	"output":         optionText,
	"alt":            optionText,
	"links":          optionText,
	"chart-var-name": optionText,
	"div_class":      optionText,
}

// Parse splits a directive block's raw content into validated options and
// code text. Options occupy the leading ":name:"-style lines; parsing stops
// at the first line that is not one, and a single blank separator line after
// the options is dropped.
func Parse(content string, line int) (*Block, error) {
	opts := Options{
		Namespace: DefaultNamespace,
		Output:    OutputPlot,
	}

	lines := strings.Split(content, "\n")
	i := 0
	for ; i < len(lines); i++ {
		name, value, ok := splitOptionLine(lines[i])
		if !ok {
			break
		}

		kind, known := optionSpec[name]
		if !known {
			return nil, errors.ErrInvalidOption(name, "unknown option")
		}
		if kind == optionFlag && value != "" {
			return nil, errors.ErrInvalidOption(name, "flag option takes no value")
		}

		if err := apply(&opts, name, value); err != nil {
			return nil, err
		}
	}

	if i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}

	// Empty code is allowed; executing nothing yields no value.
	code := strings.TrimRight(strings.Join(lines[i:], "\n"), "\n")

	return &Block{Options: opts, Code: code, Line: line}, nil
}

// splitOptionLine matches ":name:" or ":name: value" at the start of a block.
func splitOptionLine(line string) (name, value string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") {
		return "", "", false
	}
	rest := trimmed[1:]
	end := strings.Index(rest, ":")
	if end <= 0 {
		return "", "", false
	}
	name = rest[:end]
	if strings.ContainsAny(name, " \t") {
		return "", "", false
	}
	return name, strings.TrimSpace(rest[end+1:]), true
}

func apply(opts *Options, name, value string) error {
	switch name {
	case "hide-code":
		opts.HideCode = true
	case "remove-code":
		opts.RemoveCode = true
	case "code-below":
		opts.CodeBelow = true
	case "strict":
		opts.Strict = true
	case "namespace":
		if value == "" {
			return errors.ErrInvalidOption(name, "namespace must not be empty")
		}
		opts.Namespace = value
	case "output":
		mode, err := ValidateOutput(value)
		if err != nil {
			return err
		}
		opts.Output = mode
	case "alt":
		opts.Alt = value
	case "links":
		policy, err := ValidateLinks(value)
		if err != nil {
			return err
		}
		opts.Links = &policy
	case "chart-var-name":
		opts.ChartVarName = value
	case "div_class":
		opts.DivClass = ValidateDivClass(value)
	}
	return nil
}
