// Package eval executes directive code blocks against a persistent namespace
// environment. Blocks run as REPL-style chunks so globals stay mutable across
// blocks within a document; the value of a block is the value of its trailing
// bare-expression statement, if any.
package eval

import (
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/conneroisu/vegadoc/internal/chart"
)

// Result is the outcome of executing one directive block.
type Result struct {
	// Value is the trailing expression's value, or nil when the block ends
	// in a non-expression statement.
	Value starlark.Value
	// Stdout is everything print() wrote during execution.
	Stdout string
}

// fileOptions matches the dialect the REPL uses: top-level control flow and
// global reassignment, so successive blocks can redefine bindings.
func fileOptions() *syntax.FileOptions {
	return &syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
		Recursion:       true,
	}
}

// Block executes code against env, seeding the alt chart module on first use.
// env is mutated in place; bindings persist for later blocks sharing it.
func Block(docname, code string, env starlark.StringDict) (*Result, error) {
	if _, ok := env["alt"]; !ok {
		env["alt"] = chart.Module()
	}

	var stdout strings.Builder
	thread := &starlark.Thread{
		Name: docname,
		Print: func(_ *starlark.Thread, msg string) {
			stdout.WriteString(msg)
			stdout.WriteString("\n")
		},
	}

	opts := fileOptions()
	file, err := opts.Parse(docname, code, 0)
	if err != nil {
		return nil, err
	}

	// Split off a trailing bare-expression statement; it is evaluated
	// separately so its value can be captured.
	var trailing syntax.Expr
	if n := len(file.Stmts); n > 0 {
		if es, ok := file.Stmts[n-1].(*syntax.ExprStmt); ok {
			trailing = es.X
			file.Stmts = file.Stmts[:n-1]
		}
	}

	if len(file.Stmts) > 0 {
		if err := starlark.ExecREPLChunk(file, thread, env); err != nil {
			return nil, err
		}
	}

	result := &Result{}
	if trailing != nil {
		value, err := starlark.EvalExprOptions(opts, thread, trailing, env)
		if err != nil {
			return nil, err
		}
		result.Value = value
	}
	result.Stdout = stdout.String()

	return result, nil
}
