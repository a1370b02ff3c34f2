package chart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

// runChart executes starlark source with the alt module predeclared and
// returns the value of the final expression.
func runChart(t *testing.T, src string) starlark.Value {
	t.Helper()

	thread := &starlark.Thread{Name: "test"}
	env := starlark.StringDict{"alt": Module()}
	value, err := starlark.Eval(thread, "test.star", src, env)
	require.NoError(t, err)
	return value
}

const dataSrc = `alt.Data(values=[{"x": "A", "y": 5}, {"x": "B", "y": 3}])`

func TestDataBuilder(t *testing.T) {
	value := runChart(t, dataSrc)

	data, ok := value.(*DataValue)
	require.True(t, ok)
	assert.Equal(t, "alt.Data", data.Type())
	assert.Len(t, data.values, 2)
	assert.Equal(t, "A", data.values[0]["x"])
	assert.Equal(t, int64(5), data.values[0]["y"])
}

func TestDataRejectsNonDictRows(t *testing.T) {
	thread := &starlark.Thread{Name: "test"}
	env := starlark.StringDict{"alt": Module()}
	_, err := starlark.Eval(thread, "test.star", `alt.Data(values=[1, 2])`, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be dicts")
}

func TestChartBuilderChain(t *testing.T) {
	value := runChart(t, `alt.Chart(alt.Data(values=[{"x": "A", "y": 5}])).mark_bar().encode(x="x:N", y="y:Q")`)

	c, ok := value.(*Chart)
	require.True(t, ok)

	spec, err := c.ChartSpec()
	require.NoError(t, err)
	assert.Equal(t, "bar", spec.Mark.Type)
	assert.Equal(t, &Channel{Field: "x", Type: "nominal"}, spec.Encoding["x"])
	assert.Equal(t, &Channel{Field: "y", Type: "quantitative"}, spec.Encoding["y"])
	assert.Equal(t, SchemaURL, spec.Schema)
	require.NotNil(t, spec.Config)
	assert.Equal(t, 300, spec.Config.View.ContinuousWidth)
}

func TestChartBuilderIsImmutable(t *testing.T) {
	thread := &starlark.Thread{Name: "test"}
	env := starlark.StringDict{"alt": Module()}
	src := `
base = alt.Chart(alt.Data(values=[{"x": "A"}]))
bar = base.mark_bar().encode(x="x:N")
base
`
	globals, err := starlark.ExecFile(thread, "test.star", src, env)
	require.NoError(t, err)

	base := globals["base"].(*Chart)
	bar := globals["bar"].(*Chart)

	assert.Empty(t, base.mark)
	assert.Equal(t, "bar", bar.mark)
}

func TestChartProperties(t *testing.T) {
	value := runChart(t, `alt.Chart(alt.Data(values=[{"x": 1}])).mark_point().encode(x="x:Q").properties(width=400, height=250, title="scatter")`)

	spec, err := value.(*Chart).ChartSpec()
	require.NoError(t, err)
	assert.Equal(t, 400, spec.Width)
	assert.Equal(t, 250, spec.Height)
	assert.Equal(t, "scatter", spec.Title)
}

func TestChartSpecJSONDeterministic(t *testing.T) {
	value := runChart(t, `alt.Chart(alt.Data(values=[{"x": "A", "y": 5}])).mark_bar().encode(x="x:N", y="y:Q")`)

	spec, err := value.(*Chart).ChartSpec()
	require.NoError(t, err)

	out, err := spec.JSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, SchemaURL, decoded["$schema"])

	again, err := spec.JSON()
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestChartSpecNoMark(t *testing.T) {
	value := runChart(t, `alt.Chart(alt.Data(values=[{"x": 1}]))`)

	_, err := value.(*Chart).ChartSpec()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no mark")
}

func TestChartSpecBadShorthand(t *testing.T) {
	value := runChart(t, `alt.Chart(alt.Data(values=[{"x": 1}])).mark_bar().encode(x="x:Z")`)

	_, err := value.(*Chart).ChartSpec()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid type code "Z"`)
}

func TestChartSpecUnknownChannel(t *testing.T) {
	value := runChart(t, `alt.Chart(alt.Data(values=[{"x": 1}])).mark_bar().encode(wobble="x:Q")`)

	_, err := value.(*Chart).ChartSpec()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown encoding channel "wobble"`)
}

func TestShorthandDefaultsToNominal(t *testing.T) {
	def, err := parseShorthand("category")
	require.NoError(t, err)
	assert.Equal(t, &Channel{Field: "category", Type: "nominal"}, def)
}

func TestChartRepr(t *testing.T) {
	value := runChart(t, `alt.Chart(alt.Data(values=[{"x": 1}])).mark_bar().encode(x="x:Q", y="y:Q")`)

	assert.Equal(t, "Chart(mark=bar, encoding=[x, y])", value.String())
}

func TestDataRepr(t *testing.T) {
	value := runChart(t, `alt.Data(values=[{"x": "A", "y": 5}])`)

	assert.Equal(t, `Data(values=[{"x":"A","y":5}])`, value.String())
}
