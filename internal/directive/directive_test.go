package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	block, err := Parse("data = alt.Data(values=[])", 7)
	require.NoError(t, err)

	assert.Equal(t, "data = alt.Data(values=[])", block.Code)
	assert.Equal(t, 7, block.Line)
	assert.Equal(t, DefaultNamespace, block.Options.Namespace)
	assert.Equal(t, OutputPlot, block.Options.Output)
	assert.Nil(t, block.Options.Links)
	assert.False(t, block.Options.HideCode)
	assert.False(t, block.Options.Strict)
}

func TestParseOptions(t *testing.T) {
	content := `:output: none
:namespace: shared
:hide-code:
:links: editor
:div_class: My-Class
:alt: a bar chart

data = alt.Data(values=[{"x": "A", "y": 5}])`

	block, err := Parse(content, 1)
	require.NoError(t, err)

	opts := block.Options
	assert.Equal(t, OutputNone, opts.Output)
	assert.Equal(t, "shared", opts.Namespace)
	assert.True(t, opts.HideCode)
	require.NotNil(t, opts.Links)
	assert.Equal(t, LinkPolicy{Editor: true}, *opts.Links)
	assert.Equal(t, "my-class", opts.DivClass)
	assert.Equal(t, "a bar chart", opts.Alt)
	assert.Equal(t, `data = alt.Data(values=[{"x": "A", "y": 5}])`, block.Code)
}

func TestParseFlagOptions(t *testing.T) {
	content := ":remove-code:\n:code-below:\n:strict:\n\nx = 1\nx"
	block, err := Parse(content, 1)
	require.NoError(t, err)

	assert.True(t, block.Options.RemoveCode)
	assert.True(t, block.Options.CodeBelow)
	assert.True(t, block.Options.Strict)
	assert.Equal(t, "x = 1\nx", block.Code)
}

func TestParseChartVarName(t *testing.T) {
	block, err := Parse(":chart-var-name: my_chart\n\nmy_chart = 1", 1)
	require.NoError(t, err)
	assert.Equal(t, "my_chart", block.Options.ChartVarName)
}

func TestParseUnknownOption(t *testing.T) {
	_, err := Parse(":bogus: value\n\nx = 1", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
	assert.Contains(t, err.Error(), "unknown option")
}

func TestParseFlagWithValue(t *testing.T) {
	_, err := Parse(":strict: yes\n\nx = 1", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag option takes no value")
}

func TestParseInvalidOutputValue(t *testing.T) {
	_, err := Parse(":output: chart\n\nx = 1", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of [plot|repr|stdout|none]")
}

func TestParseEmptyNamespace(t *testing.T) {
	_, err := Parse(":namespace:\n\nx = 1", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "namespace must not be empty")
}

func TestParseOptionsWithoutCode(t *testing.T) {
	block, err := Parse(":output: none\n", 1)
	require.NoError(t, err)
	assert.Equal(t, "", block.Code)
	assert.Equal(t, OutputNone, block.Options.Output)
}

func TestParseEmptyContent(t *testing.T) {
	block, err := Parse("", 1)
	require.NoError(t, err)
	assert.Equal(t, "", block.Code)
	assert.Equal(t, OutputPlot, block.Options.Output)
}

func TestParseCodeWithColonLines(t *testing.T) {
	// Dict literals inside the code must not be mistaken for options.
	content := "x = {\"a: b\": 1}\nx"
	block, err := Parse(content, 1)
	require.NoError(t, err)
	assert.Equal(t, content, block.Code)
}
