// Package pipeline drives the documentation build: it walks the source tree,
// parses each markdown document, and processes vega-plot directive blocks in
// document order. Documents are processed one at a time and blocks execute
// sequentially, so namespace environments are never accessed concurrently.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/google/uuid"
	"go.starlark.net/starlark"

	"github.com/conneroisu/vegadoc/internal/chart"
	"github.com/conneroisu/vegadoc/internal/config"
	"github.com/conneroisu/vegadoc/internal/directive"
	"github.com/conneroisu/vegadoc/internal/errors"
	"github.com/conneroisu/vegadoc/internal/eval"
	"github.com/conneroisu/vegadoc/internal/logging"
	"github.com/conneroisu/vegadoc/internal/namespace"
	"github.com/conneroisu/vegadoc/internal/render"
)

// Pipeline owns one build session: the namespace store, the configuration,
// and the session id under which all build events are logged.
type Pipeline struct {
	cfg     *config.Config
	store   *namespace.Store
	logger  logging.Logger
	session string
}

// Result summarizes a completed build.
type Result struct {
	Documents int
	Blocks    int
	Warnings  int
}

// New creates a pipeline for one build session.
func New(cfg *config.Config, logger logging.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		store:   namespace.NewStore(),
		logger:  logger.WithComponent("pipeline"),
		session: uuid.NewString(),
	}
}

// Store exposes the session's namespace store.
func (p *Pipeline) Store() *namespace.Store {
	return p.store
}

// Build processes every markdown document under the configured source
// directory and writes rendered pages plus static assets to the output
// directory. The first fatal error aborts the build.
func (p *Pipeline) Build(ctx context.Context) (*Result, error) {
	p.logger.Info(ctx, "build started",
		"session", p.session,
		"source", p.cfg.Site.Source,
		"output", p.cfg.Site.Output,
		"format", p.cfg.Build.Format,
	)

	docnames, err := p.discover()
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, docname := range docnames {
		blocks, warnings, err := p.BuildDocument(ctx, docname)
		if err != nil {
			return nil, err
		}
		result.Documents++
		result.Blocks += blocks
		result.Warnings += warnings
	}

	if p.cfg.Build.Format == "html" {
		if err := p.writeAssets(); err != nil {
			return nil, err
		}
	}

	p.logger.Info(ctx, "build finished",
		"documents", result.Documents,
		"blocks", result.Blocks,
		"warnings", result.Warnings,
	)
	return result, nil
}

// BuildDocument purges any previous namespace state for the document and
// processes it from scratch. Used for full builds and watch-mode rebuilds.
func (p *Pipeline) BuildDocument(ctx context.Context, docname string) (blocks, warnings int, err error) {
	p.store.Purge(docname)

	source, err := os.ReadFile(p.sourcePath(docname))
	if err != nil {
		return 0, 0, errors.NewIOError("reading document "+docname, err)
	}

	var body string
	switch p.cfg.Build.Format {
	case "text":
		body, blocks, warnings, err = p.renderTextDocument(ctx, docname, source)
	default:
		body, blocks, warnings, err = p.renderHTMLDocument(ctx, docname, source)
	}
	if err != nil {
		return 0, 0, err
	}

	if err := p.writePage(docname, body); err != nil {
		return 0, 0, err
	}

	p.logger.Debug(ctx, "document processed", "docname", docname, "blocks", blocks)
	return blocks, warnings, nil
}

// Purge drops a document's namespace state without rebuilding it. Called when
// a source file is removed.
func (p *Pipeline) Purge(docname string) {
	p.store.Purge(docname)
}

// Check parses and validates every directive block without executing any
// code, surfacing fatal option errors early.
func (p *Pipeline) Check(ctx context.Context) error {
	docnames, err := p.discover()
	if err != nil {
		return err
	}

	var firstErr error
	for _, docname := range docnames {
		source, err := os.ReadFile(p.sourcePath(docname))
		if err != nil {
			return errors.NewIOError("reading document "+docname, err)
		}

		doc := parseMarkdown(source)
		cursor := 0
		ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
			if !entering {
				return ast.GoToNext
			}
			block, ok := node.(*ast.CodeBlock)
			if !ok || string(block.Info) != directive.Name {
				return ast.GoToNext
			}
			line := blockLine(source, block.Literal, &cursor)
			if _, err := directive.Parse(string(block.Literal), line); err != nil {
				var be *errors.BuildError
				if stderrors.As(err, &be) {
					be.WithLocation(docname, line)
				}
				p.logger.Error(ctx, err, "invalid directive", "docname", docname, "line", line)
				if firstErr == nil {
					firstErr = err
				}
			}
			return ast.GoToNext
		})
	}
	return firstErr
}

// discover returns all docnames under the source directory in path order.
func (p *Pipeline) discover() ([]string, error) {
	var docnames []string
	err := filepath.WalkDir(p.cfg.Site.Source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		rel, err := filepath.Rel(p.cfg.Site.Source, path)
		if err != nil {
			return err
		}
		docnames = append(docnames, strings.TrimSuffix(filepath.ToSlash(rel), ".md"))
		return nil
	})
	if err != nil {
		return nil, errors.NewIOError("scanning source directory "+p.cfg.Site.Source, err)
	}
	return docnames, nil
}

func (p *Pipeline) sourcePath(docname string) string {
	return filepath.Join(p.cfg.Site.Source, filepath.FromSlash(docname)+".md")
}

func parseMarkdown(source []byte) ast.Node {
	ps := parser.NewWithExtensions(parser.CommonExtensions)
	return ps.Parse(source)
}

// renderHTMLDocument renders one document to an HTML body, processing each
// directive block through the execution state machine.
func (p *Pipeline) renderHTMLDocument(ctx context.Context, docname string, source []byte) (string, int, int, error) {
	doc := parseMarkdown(source)

	proc := &docProcessor{
		pipeline: p,
		ctx:      ctx,
		docname:  docname,
		docbase:  docBase(docname),
		source:   source,
	}

	opts := mdhtml.RendererOptions{
		Flags:          mdhtml.CommonFlags,
		RenderNodeHook: proc.renderNode,
	}
	body := markdown.Render(doc, mdhtml.NewRenderer(opts))

	if proc.err != nil {
		return "", 0, 0, proc.err
	}
	return string(body), proc.blocks, proc.warnings, nil
}

// docProcessor carries per-document state through the render walk.
type docProcessor struct {
	pipeline *Pipeline
	ctx      context.Context
	docname  string
	docbase  string
	source   []byte
	serial   int
	cursor   int
	blocks   int
	warnings int
	err      error
}

// renderNode intercepts vega-plot code blocks; all other nodes render
// normally.
func (d *docProcessor) renderNode(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	block, ok := node.(*ast.CodeBlock)
	if !ok || string(block.Info) != directive.Name {
		return ast.GoToNext, false
	}
	if !entering {
		return ast.GoToNext, true
	}
	if d.err != nil {
		// A fatal error already aborted this document.
		return ast.GoToNext, true
	}

	serial := d.serial
	d.serial++
	d.blocks++

	line := blockLine(d.source, block.Literal, &d.cursor)

	fragment, warned, err := d.pipeline.processBlock(d.ctx, d.docname, d.docbase, serial, line, string(block.Literal))
	if err != nil {
		d.err = err
		return ast.GoToNext, true
	}
	if warned {
		d.warnings++
	}

	io.WriteString(w, fragment)
	return ast.GoToNext, true
}

// processBlock runs the per-directive state machine: parse options, execute,
// resolve the result value, dispatch on output mode, and interleave the code
// per the visibility flags. Recoverable failures skip only the output; the
// code block still renders.
func (p *Pipeline) processBlock(ctx context.Context, docname, docbase string, serial, line int, content string) (string, bool, error) {
	block, err := directive.Parse(content, line)
	if err != nil {
		var be *errors.BuildError
		if stderrors.As(err, &be) {
			be.WithLocation(docname, line)
		}
		return "", false, err
	}
	opts := block.Options

	divID := fmt.Sprintf("%s-vega-plot-%d", docbase, serial)
	targetID := fmt.Sprintf("%s-vega-source-%d", docbase, serial)
	codeHTML := render.CodeBlock(block.Code, targetID)

	warned := false
	outputHTML, err := p.renderOutput(block, docname, line, divID)
	if err != nil {
		if !errors.IsRecoverable(err) {
			return "", false, err
		}
		p.logger.Warn(ctx, err, "directive block skipped", "docname", docname, "line", line)
		warned = true
		outputHTML = ""
	}

	return render.AssembleBlock(codeHTML, outputHTML,
		opts.HideCode, opts.RemoveCode, opts.CodeBelow), warned, nil
}

// renderOutput executes the block and produces its output fragment.
func (p *Pipeline) renderOutput(block *directive.Block, docname string, line int, divID string) (string, error) {
	opts := block.Options
	env := p.store.GetOrCreate(docname, opts.Namespace)

	result, err := eval.Block(docname, block.Code, env)
	if err != nil {
		message := fmt.Sprintf("vega-plot: %s:%d code execution failed", docname, line)
		return "", errors.NewExecError(message, err, !p.strict(opts))
	}

	value := result.Value
	if opts.ChartVarName != "" {
		named, ok := env[opts.ChartVarName]
		if !ok {
			return "", errors.ErrVarNotFound(opts.ChartVarName).WithLocation(docname, line)
		}
		value = named
	}

	switch opts.Output {
	case directive.OutputNone:
		return "", nil

	case directive.OutputStdout:
		if result.Stdout == "" {
			return "", nil
		}
		return render.LiteralBlock(result.Stdout), nil

	case directive.OutputRepr:
		if isAbsent(value) {
			return "", nil
		}
		rep := "    " + strings.ReplaceAll(value.String(), "\n", "\n    ")
		return render.LiteralBlock(rep), nil

	case directive.OutputPlot:
		producer, ok := value.(chart.SpecProducer)
		if !ok {
			return "", errors.ErrNotAChart(docname, line)
		}

		spec, err := producer.ChartSpec()
		if err != nil {
			return "", errors.ErrInvalidSpec(block.Code, err).WithLocation(docname, line)
		}
		specJSON, err := spec.JSON()
		if err != nil {
			return "", errors.NewInternalError("serializing chart spec", err)
		}

		links := p.cfg.DefaultLinks()
		if opts.Links != nil {
			links = *opts.Links
		}
		actionsJSON, err := json.Marshal(links)
		if err != nil {
			return "", errors.NewInternalError("serializing link policy", err)
		}

		return render.EmbedSnippet(render.Embed{
			DivID:    divID,
			DivClass: opts.DivClass,
			Spec:     specJSON,
			Mode:     chart.EmbedMode,
			Renderer: "canvas",
			Actions:  string(actionsJSON),
		})
	}

	return "", errors.NewInternalError(
		fmt.Sprintf("unhandled output mode %q", opts.Output), nil)
}

func (p *Pipeline) strict(opts directive.Options) bool {
	return opts.Strict || p.cfg.Build.Strict
}

// isAbsent reports whether a resolved value counts as "nothing to render".
func isAbsent(value starlark.Value) bool {
	return value == nil || value == starlark.None
}

// writePage wraps the rendered body in the page layout and writes it out.
func (p *Pipeline) writePage(docname, body string) error {
	var page string
	var ext string
	var err error

	switch p.cfg.Build.Format {
	case "text":
		page, ext = body, ".txt"
	default:
		depth := strings.Count(docname, "/")
		page, err = render.RenderPage(render.Page{
			Title:      p.cfg.Site.Title,
			Scripts:    p.cfg.ScriptURLs(),
			Stylesheet: strings.Repeat("../", depth) + "_static/vega-plot.css",
			Body:       body,
		})
		if err != nil {
			return errors.NewInternalError("rendering page "+docname, err)
		}
		ext = ".html"
	}

	outPath := filepath.Join(p.cfg.Site.Output, filepath.FromSlash(docname)+ext)
	if err := os.MkdirAll(filepath.Dir(outPath), 0750); err != nil {
		return errors.NewIOError("creating output directory", err)
	}
	if err := os.WriteFile(outPath, []byte(page), 0644); err != nil {
		return errors.NewIOError("writing page "+docname, err)
	}
	return nil
}

// docBase derives the element id prefix from the document's file name, dots
// replaced by dashes.
func docBase(docname string) string {
	base := filepath.Base(filepath.FromSlash(docname)) + ".md"
	return strings.ReplaceAll(base, ".", "-")
}

// blockLine locates a code block's literal in the source and returns its
// 1-based line number. The cursor advances past each match so identical
// blocks resolve to successive positions.
func blockLine(source, literal []byte, cursor *int) int {
	if len(literal) == 0 || *cursor >= len(source) {
		return 0
	}
	idx := bytes.Index(source[*cursor:], literal)
	if idx < 0 {
		return 0
	}
	offset := *cursor + idx
	*cursor = offset + len(literal)
	return bytes.Count(source[:offset], []byte("\n")) + 1
}
