package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// findByID walks a parsed HTML tree looking for an element with the given id.
func findByID(node *html.Node, id string) *html.Node {
	if node.Type == html.ElementNode {
		for _, attr := range node.Attr {
			if attr.Key == "id" && attr.Val == id {
				return node
			}
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findByID(child, id); found != nil {
			return found
		}
	}
	return nil
}

func TestEmbedSnippet(t *testing.T) {
	snippet, err := EmbedSnippet(Embed{
		DivID:    "index-md-vega-plot-0",
		Spec:     `{"mark": {"type": "bar"}}`,
		Mode:     "vega-lite",
		Renderer: "canvas",
		Actions:  `{"editor": true, "source": true, "export": true}`,
	})
	require.NoError(t, err)

	assert.Contains(t, snippet, `<div id="index-md-vega-plot-0">`)
	assert.Contains(t, snippet, `var spec = {"mark": {"type": "bar"}};`)
	assert.Contains(t, snippet, `"renderer": "canvas"`)
	assert.Contains(t, snippet, `"mode": "vega-lite"`)
	assert.Contains(t, snippet, `vegaEmbed('#index-md-vega-plot-0', spec, opt)`)

	doc, err := html.Parse(strings.NewReader(snippet))
	require.NoError(t, err)
	assert.NotNil(t, findByID(doc, "index-md-vega-plot-0"))
}

func TestEmbedSnippetDivClass(t *testing.T) {
	snippet, err := EmbedSnippet(Embed{
		DivID:    "d0",
		DivClass: "test-class",
		Spec:     "{}",
		Mode:     "vega-lite",
		Renderer: "canvas",
		Actions:  "false",
	})
	require.NoError(t, err)

	assert.Contains(t, snippet, `<div id="d0" class="test-class">`)
	assert.Contains(t, snippet, `"actions": false`)
}

func TestCodeBlockEscapes(t *testing.T) {
	block := CodeBlock(`x = "<script>"`, "index-md-vega-source-0")

	assert.Contains(t, block, `id="index-md-vega-source-0"`)
	assert.Contains(t, block, "&lt;script&gt;")
	assert.NotContains(t, block, "<script>")
}

func TestAssembleBlockDefaultOrder(t *testing.T) {
	out := AssembleBlock("CODE", "OUTPUT", false, false, false)

	codeIdx := strings.Index(out, "CODE")
	outputIdx := strings.Index(out, "OUTPUT")
	require.GreaterOrEqual(t, codeIdx, 0)
	require.GreaterOrEqual(t, outputIdx, 0)
	assert.Less(t, codeIdx, outputIdx)
}

func TestAssembleBlockCodeBelow(t *testing.T) {
	out := AssembleBlock("CODE", "OUTPUT", false, false, true)

	assert.Less(t, strings.Index(out, "OUTPUT"), strings.Index(out, "CODE"))
}

func TestAssembleBlockHideCode(t *testing.T) {
	out := AssembleBlock("CODE", "OUTPUT", true, false, false)

	assert.Equal(t, 1, strings.Count(out, "<details>"))
	assert.Equal(t, 1, strings.Count(out, "</details>"))
	assert.Less(t, strings.Index(out, "<details>"), strings.Index(out, "CODE"))
	assert.Less(t, strings.Index(out, "CODE"), strings.Index(out, "</details>"))
}

func TestAssembleBlockRemoveCode(t *testing.T) {
	out := AssembleBlock("CODE", "OUTPUT", false, true, false)

	assert.NotContains(t, out, "CODE")
	assert.Contains(t, out, "OUTPUT")
}

func TestAssembleBlockNoOutput(t *testing.T) {
	out := AssembleBlock("CODE", "", false, false, false)

	assert.Equal(t, "CODE", out)
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "[ graph ]", Placeholder(""))
	assert.Equal(t, "[ graph: a bar chart ]", Placeholder("a bar chart"))
}

func TestRenderPage(t *testing.T) {
	page, err := RenderPage(Page{
		Title: "Charts",
		Scripts: []string{
			"https://cdn.jsdelivr.net/npm/vega@5.30.0",
			"https://cdn.jsdelivr.net/npm/vega-lite@5.20.1",
			"https://cdn.jsdelivr.net/npm/vega-embed@6.26.0",
		},
		Stylesheet: "_static/vega-plot.css",
		Body:       "<p>hello</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(page, "vega@5.30.0"))
	assert.Equal(t, 1, strings.Count(page, "vega-lite@5.20.1"))
	assert.Equal(t, 1, strings.Count(page, "vega-embed@6.26.0"))
	assert.Contains(t, page, `<link rel="stylesheet" href="_static/vega-plot.css">`)
	assert.Contains(t, page, "<p>hello</p>")
}
