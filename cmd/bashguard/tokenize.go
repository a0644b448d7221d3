package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bashguard/internal/diag"
	"bashguard/internal/diagfmt"
	"bashguard/internal/driver"
	"bashguard/internal/lexer"
	"bashguard/internal/source"
	"bashguard/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <script.sh>",
	Short: "Dump the context-stamped token stream",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	fs := source.NewFileSet()
	id, err := fs.Load(args[0])
	if err != nil {
		return err
	}
	file := fs.Get(id)

	bag := diag.NewBag(driver.DefaultMaxDiagnostics)
	lx := lexer.New(file, lexer.Options{
		Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
	})
	var toks []token.Token
	for {
		t := lx.Next()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
	}

	switch format {
	case "json":
		if err := diagfmt.TokensJSON(cmd.OutOrStdout(), toks, fs); err != nil {
			return err
		}
	case "pretty":
		diagfmt.Tokens(cmd.OutOrStdout(), toks, fs)
	default:
		return fmt.Errorf("unknown format %q (want pretty or json)", format)
	}

	if bag.Len() > 0 {
		bag.Sort()
		diagfmt.Pretty(cmd.OutOrStdout(), bag, fs, diagfmt.PrettyOpts{
			Color: useColor(cmd),
		})
	}
	return nil
}
