//go:build property
// +build property

package directive

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestLinkValidationProperties tests invariants of the :links: validator.
func TestLinkValidationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	validToken := gen.OneConstOf("editor", "source", "export")

	// Property: any combination of valid tokens yields exactly those tokens
	// true and the rest false.
	properties.Property("valid tokens round-trip", prop.ForAll(
		func(tokens []string) bool {
			policy, err := ValidateLinks(strings.Join(tokens, " "))
			if err != nil {
				return false
			}
			if policy.None {
				return false
			}

			want := map[string]bool{}
			for _, tok := range tokens {
				want[tok] = true
			}
			return policy.Editor == want["editor"] &&
				policy.Source == want["source"] &&
				policy.Export == want["export"]
		},
		gen.SliceOfN(4, validToken),
	))

	// Property: "none" in any casing and padding suppresses links.
	properties.Property("none is case-insensitive", prop.ForAll(
		func(upper bool, pad string) bool {
			value := "none"
			if upper {
				value = "NoNe"
			}
			policy, err := ValidateLinks(pad + value + pad)
			return err == nil && policy.None
		},
		gen.Bool(),
		gen.OneConstOf("", " ", "\t", "  "),
	))

	// Property: validation is deterministic.
	properties.Property("validation is deterministic", prop.ForAll(
		func(value string) bool {
			p1, err1 := ValidateLinks(value)
			p2, err2 := ValidateLinks(value)
			if (err1 == nil) != (err2 == nil) {
				return false
			}
			if err1 != nil {
				return err1.Error() == err2.Error()
			}
			return p1 == p2
		},
		gen.RegexMatch(`^[a-z ]{0,24}$`),
	))

	properties.TestingRun(t)
}

// TestOutputValidationProperties tests invariants of the :output: validator.
func TestOutputValidationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	canonical := gen.OneConstOf("plot", "repr", "stdout", "none")

	// Property: case and surrounding whitespace never change the result.
	properties.Property("normalization is stable", prop.ForAll(
		func(mode string, upper bool, pad string) bool {
			value := mode
			if upper {
				value = strings.ToUpper(mode)
			}
			got, err := ValidateOutput(pad + value + pad)
			return err == nil && got == OutputMode(mode)
		},
		canonical,
		gen.Bool(),
		gen.OneConstOf("", " ", "\t\t"),
	))

	// Property: anything outside the four-element set is rejected.
	properties.Property("unknown modes are rejected", prop.ForAll(
		func(value string) bool {
			normalized := strings.ToLower(strings.TrimSpace(value))
			switch normalized {
			case "plot", "repr", "stdout", "none":
				return true // covered above
			}
			_, err := ValidateOutput(value)
			return err != nil
		},
		gen.RegexMatch(`^[a-zA-Z]{0,12}$`),
	))

	properties.TestingRun(t)
}
