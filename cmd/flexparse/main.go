// Command flexparse is a small CLI around the example grammar
// (package example): it parses a file (and, transitively, whatever it
// includes) and prints the flattened statement stream, or reports any
// in-grammar errors found along the way. It lives outside the core
// engine package on purpose — the engine itself has no notion of a
// command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hgrecco/flexparser"
	"github.com/hgrecco/flexparser/errors"
	"github.com/hgrecco/flexparser/example"
	"github.com/hgrecco/flexparser/project"
	"github.com/hgrecco/flexparser/token"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var includeOnlyOnce bool
	var allowBlocks bool

	cmd := &cobra.Command{
		Use:   "flexparse <file>",
		Short: "Parse a file with the comment/assignment/block/include example grammar",
		Args:  cobra.ExactArgs(1),

		// We print errors ourselves below, and don't want the full usage
		// text dumped on every parse error.
		SilenceErrors: true,
		SilenceUsage:  true,

		RunE: func(cmd *cobra.Command, args []string) error {
			body := example.Body
			if allowBlocks {
				body = example.BodyWithBlock
			}
			opts := flexparser.Options{IncludeOnlyOnce: includeOnlyOnce}
			if !includeOnlyOnce {
				opts = opts.DisableIncludeOnlyOnce()
			}
			p, err := flexparser.Parse(token.File(args[0]), body, opts)
			if err != nil {
				return err
			}
			return render(cmd, p)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&includeOnlyOnce, "include-only-once", true, "fail on a repeated include edge instead of skipping it")
	flags.BoolVar(&allowBlocks, "blocks", false, "allow @begin/@end blocks in addition to the flat statement grammar")

	return cmd
}

func render(cmd *cobra.Command, p *project.Project) error {
	out := cmd.OutOrStdout()
	for _, v := range p.IterStatements(true) {
		switch n := v.(type) {
		case *example.Comment:
			fmt.Fprintf(out, "comment: %s\n", n.Text)
		case *example.EqualFloat:
			fmt.Fprintf(out, "assign: %s = %s\n", n.Name, example.FormatValue(n.Value))
		case *example.Include:
			fmt.Fprintf(out, "include: %s\n", n.Target)
		case errors.Error:
			fmt.Fprintf(out, "error at %s: %s\n", n.Position(), n.Error())
		}
	}

	if p.HasErrors() {
		localized := p.LocalizedErrors().Sanitize()
		fmt.Fprintf(out, "\n%d error(s):\n", len(localized))
		for _, le := range localized {
			fmt.Fprintln(out, le.Error())
		}
		return fmt.Errorf("parse completed with errors")
	}
	return nil
}
