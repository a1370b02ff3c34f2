package pipeline

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/gomarkdown/markdown/ast"

	"github.com/conneroisu/vegadoc/internal/directive"
	"github.com/conneroisu/vegadoc/internal/errors"
	"github.com/conneroisu/vegadoc/internal/render"
)

// renderTextDocument renders a document for the plain-text target. Directive
// code is never executed here; each block renders its code text (subject to
// the visibility flags) and the textual placeholder in place of the widget.
// Option validation still applies, so invalid options fail the build on any
// target.
func (p *Pipeline) renderTextDocument(_ context.Context, docname string, source []byte) (string, int, int, error) {
	doc := parseMarkdown(source)

	var buf strings.Builder
	var blocks int
	var firstErr error
	cursor := 0

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if firstErr != nil {
			return ast.Terminate
		}

		switch n := node.(type) {
		case *ast.CodeBlock:
			if !entering {
				return ast.GoToNext
			}
			if string(n.Info) != directive.Name {
				buf.WriteString(indent(string(n.Literal)))
				buf.WriteString("\n")
				return ast.GoToNext
			}

			blocks++
			line := blockLine(source, n.Literal, &cursor)
			block, err := directive.Parse(string(n.Literal), line)
			if err != nil {
				var be *errors.BuildError
				if stderrors.As(err, &be) {
					be.WithLocation(docname, line)
				}
				firstErr = err
				return ast.Terminate
			}

			placeholder := render.Placeholder(block.Options.Alt)
			if block.Options.CodeBelow {
				buf.WriteString(placeholder + "\n\n")
			}
			if !block.Options.RemoveCode {
				buf.WriteString(indent(block.Code))
				buf.WriteString("\n\n")
			}
			if !block.Options.CodeBelow {
				buf.WriteString(placeholder + "\n\n")
			}

		case *ast.Text:
			if entering {
				buf.Write(n.Literal)
			}

		case *ast.Code:
			if entering {
				buf.Write(n.Literal)
			}

		case *ast.Paragraph, *ast.Heading:
			if !entering {
				buf.WriteString("\n\n")
			}
		}
		return ast.GoToNext
	})

	if firstErr != nil {
		return "", 0, 0, firstErr
	}
	return strings.TrimRight(buf.String(), "\n") + "\n", blocks, 0, nil
}

func indent(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "    " + line
		}
	}
	return strings.Join(lines, "\n")
}
