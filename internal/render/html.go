// Package render emits the HTML fragments and page layout for processed
// documents, plus the textual placeholder used by non-HTML targets.
package render

import (
	"fmt"
	"html"
	"strings"
	"text/template"
)

// embedTemplate is the fragment that binds a container element to its chart
// specification. Spec and Actions are pre-serialized JSON.
var embedTemplate = template.Must(template.New("embed").Parse(`<div id="{{.DivID}}"{{if .DivClass}} class="{{.DivClass}}"{{end}}>
<script>
  // embed when document is loaded, to ensure vega library is available
  // this works on all modern browsers, except IE8 and older
  document.addEventListener("DOMContentLoaded", function(event) {
      var spec = {{.Spec}};
      var opt = {
        "mode": "{{.Mode}}",
        "renderer": "{{.Renderer}}",
        "actions": {{.Actions}}
      };
      vegaEmbed('#{{.DivID}}', spec, opt).catch(console.err);
  });
</script>
</div>
`))

// Embed describes one interactive chart widget.
type Embed struct {
	DivID    string
	DivClass string
	Spec     string // serialized chart specification
	Mode     string
	Renderer string
	Actions  string // serialized link policy
}

// EmbedSnippet renders the widget fragment for a plot block.
func EmbedSnippet(e Embed) (string, error) {
	var buf strings.Builder
	if err := embedTemplate.Execute(&buf, e); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// CodeBlock renders a directive's source code as a literal block anchored by
// its target id.
func CodeBlock(code, targetID string) string {
	return fmt.Sprintf(
		"<div class=\"highlight-starlark\" id=%q><pre>%s</pre></div>\n",
		targetID, html.EscapeString(code),
	)
}

// LiteralBlock renders captured stdout or a value representation.
func LiteralBlock(text string) string {
	return fmt.Sprintf(
		"<div class=\"highlight-none\"><pre>%s</pre></div>\n",
		html.EscapeString(text),
	)
}

// Disclosure markers wrap the code of a hide-code block in a collapsible
// widget.
const (
	disclosureOpen  = "<details><summary><a>Click to show code</a></summary>"
	disclosureClose = "</details>"
)

// AssembleBlock interleaves a block's code and output fragments according to
// its visibility options. The ordering mirrors the directive semantics: with
// code-below the output precedes the code, hide-code wraps the code in a
// disclosure, remove-code drops the code entirely.
func AssembleBlock(codeHTML, outputHTML string, hideCode, removeCode, codeBelow bool) string {
	var parts []string

	if codeBelow && outputHTML != "" {
		parts = append(parts, outputHTML)
	}

	if hideCode {
		parts = append(parts, disclosureOpen)
	}
	if !removeCode {
		parts = append(parts, codeHTML)
	}
	if hideCode {
		parts = append(parts, disclosureClose)
	}

	if !codeBelow && outputHTML != "" {
		parts = append(parts, outputHTML)
	}

	return strings.Join(parts, "\n")
}

// Placeholder is the textual stand-in emitted by non-HTML targets.
func Placeholder(alt string) string {
	if alt != "" {
		return fmt.Sprintf("[ graph: %s ]", alt)
	}
	return "[ graph ]"
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{range .Scripts}}<script src="{{.}}"></script>
{{end}}<link rel="stylesheet" href="{{.Stylesheet}}">
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Page wraps rendered document content in the HTML layout that loads the
// three client-side runtime scripts and the plugin stylesheet.
type Page struct {
	Title      string
	Scripts    []string
	Stylesheet string
	Body       string
}

// RenderPage produces a complete HTML page.
func RenderPage(p Page) (string, error) {
	var buf strings.Builder
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}
