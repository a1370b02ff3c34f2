package directive

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/vegadoc/internal/errors"
)

func TestValidateLinks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected LinkPolicy
		wantErr  string
	}{
		{
			name:     "none lowercase",
			input:    "none",
			expected: LinkPolicy{None: true},
		},
		{
			name:     "none mixed case",
			input:    "None",
			expected: LinkPolicy{None: true},
		},
		{
			name:     "none with whitespace",
			input:    "  NONE  ",
			expected: LinkPolicy{None: true},
		},
		{
			name:     "subset enumerates all keys",
			input:    "editor source",
			expected: LinkPolicy{Editor: true, Source: true, Export: false},
		},
		{
			name:     "single token",
			input:    "export",
			expected: LinkPolicy{Export: true},
		},
		{
			name:     "all tokens",
			input:    "editor source export",
			expected: LinkPolicy{Editor: true, Source: true, Export: true},
		},
		{
			name:     "duplicate tokens collapse",
			input:    "editor editor",
			expected: LinkPolicy{Editor: true},
		},
		{
			name:    "unknown token",
			input:   "editor unknown",
			wantErr: "following links are invalid: [unknown]",
		},
		{
			name:    "all unknown tokens listed",
			input:   "zap editor frob",
			wantErr: "following links are invalid: [frob zap]",
		},
		{
			name:    "none mixed with tokens is invalid",
			input:   "editor none",
			wantErr: "following links are invalid: [none]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := ValidateLinks(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.False(t, errors.IsRecoverable(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, policy)
		})
	}
}

func TestValidateOutput(t *testing.T) {
	valid := map[string]OutputMode{
		"plot":      OutputPlot,
		"PLOT":      OutputPlot,
		" Repr ":    OutputRepr,
		"stdout":    OutputStdout,
		"\tnone\n":  OutputNone,
		"  STDOUT ": OutputStdout,
	}
	for input, expected := range valid {
		mode, err := ValidateOutput(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, expected, mode, "input %q", input)
	}

	for _, input := range []string{"", "chart", "plots", "std out"} {
		_, err := ValidateOutput(input)
		require.Error(t, err, "input %q", input)
		assert.Contains(t, err.Error(), "must be one of [plot|repr|stdout|none]")
	}
}

func TestValidateDivClass(t *testing.T) {
	assert.Equal(t, "chart-wide", ValidateDivClass("  Chart-Wide "))
	assert.Equal(t, "", ValidateDivClass("   "))
}

func TestLinkPolicyJSON(t *testing.T) {
	out, err := json.Marshal(LinkPolicy{Editor: true, Source: true, Export: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"editor": true, "source": true, "export": true}`, string(out))

	out, err = json.Marshal(LinkPolicy{Editor: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"editor": true, "source": false, "export": false}`, string(out))

	out, err = json.Marshal(LinkPolicy{None: true})
	require.NoError(t, err)
	assert.Equal(t, "false", string(out))
}
