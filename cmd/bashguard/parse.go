package main

import (
	"github.com/spf13/cobra"

	"bashguard/internal/diag"
	"bashguard/internal/diagfmt"
	"bashguard/internal/driver"
	"bashguard/internal/parser"
	"bashguard/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <script.sh>",
	Short: "Dump the AST with per-node context stacks",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	fs := source.NewFileSet()
	id, err := fs.Load(args[0])
	if err != nil {
		return err
	}
	file := fs.Get(id)

	bag := diag.NewBag(driver.DefaultMaxDiagnostics)
	script := parser.New(file, parser.Options{
		Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
	}).Parse()

	diagfmt.AST(cmd.OutOrStdout(), script, fs)

	if bag.Len() > 0 {
		bag.Sort()
		diagfmt.Pretty(cmd.OutOrStdout(), bag, fs, diagfmt.PrettyOpts{
			Color: useColor(cmd),
		})
	}
	return nil
}
