package directive

import (
	"fmt"
	"sort"
	"strings"

	"github.com/conneroisu/vegadoc/internal/errors"
)

// OutputMode selects what a directive block renders.
type OutputMode string

const (
	OutputPlot   OutputMode = "plot"
	OutputRepr   OutputMode = "repr"
	OutputStdout OutputMode = "stdout"
	OutputNone   OutputMode = "none"
)

// LinkPolicy describes which vega-embed action links appear under a plot.
// When None is set, all links are suppressed and the policy serializes to the
// JSON literal false, which is how vega-embed spells "no actions".
type LinkPolicy struct {
	None   bool `json:"-"`
	Editor bool `json:"editor"`
	Source bool `json:"source"`
	Export bool `json:"export"`
}

// DefaultLinks is the build-wide default: every action link enabled.
var DefaultLinks = LinkPolicy{Editor: true, Source: true, Export: true}

// MarshalJSON renders the policy as vega-embed expects: false when suppressed,
// otherwise an object enumerating all three actions.
func (l LinkPolicy) MarshalJSON() ([]byte, error) {
	if l.None {
		return []byte("false"), nil
	}
	return []byte(fmt.Sprintf(`{"editor": %t, "source": %t, "export": %t}`,
		l.Editor, l.Source, l.Export)), nil
}

var knownLinks = []string{"editor", "source", "export"}

// ValidateLinks parses the :links: option value. The literal "none" (any
// case, surrounding whitespace ignored) suppresses all links. Otherwise the
// value is whitespace-separated tokens from {editor, source, export};
// unmentioned tokens come out false. Unknown tokens fail, all of them named.
func ValidateLinks(value string) (LinkPolicy, error) {
	if strings.EqualFold(strings.TrimSpace(value), "none") {
		return LinkPolicy{None: true}, nil
	}

	tokens := strings.Fields(value)

	var invalid []string
	for _, tok := range tokens {
		if !isKnownLink(tok) {
			invalid = append(invalid, tok)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return LinkPolicy{}, errors.ErrInvalidOption(
			"links",
			fmt.Sprintf("following links are invalid: %v", invalid),
		).WithContext("tokens", invalid)
	}

	var policy LinkPolicy
	for _, tok := range tokens {
		switch tok {
		case "editor":
			policy.Editor = true
		case "source":
			policy.Source = true
		case "export":
			policy.Export = true
		}
	}
	return policy, nil
}

func isKnownLink(tok string) bool {
	for _, k := range knownLinks {
		if tok == k {
			return true
		}
	}
	return false
}

// ValidateOutput normalizes and checks the :output: option value.
func ValidateOutput(value string) (OutputMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch OutputMode(normalized) {
	case OutputPlot, OutputRepr, OutputStdout, OutputNone:
		return OutputMode(normalized), nil
	}
	return "", errors.ErrInvalidOption(
		"output",
		fmt.Sprintf("%q must be one of [plot|repr|stdout|none]", value),
	)
}

// ValidateDivClass normalizes the :div_class: option value.
func ValidateDivClass(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
