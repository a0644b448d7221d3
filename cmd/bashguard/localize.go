package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bashguard/internal/diag"
	"bashguard/internal/diagfmt"
	"bashguard/internal/driver"
	"bashguard/internal/sbfl"
	"bashguard/internal/source"
)

var localizeCmd = &cobra.Command{
	Use:   "localize [flags] [script.sh...]",
	Short: "Rank statements by test suspiciousness and cluster findings",
	Long: `Combine diagnostics with pass/fail test coverage: score every covered
statement with an SBFL formula and group the diagnostics into clusters.
Without --coverage only the cluster summary is produced.`,
	RunE: runLocalize,
}

func init() {
	localizeCmd.Flags().String("coverage", "", "JSON coverage file (total_failed/total_passed/statements)")
	localizeCmd.Flags().String("formula", "ochiai", "suspiciousness formula (tarantula|ochiai|dstar)")
	localizeCmd.Flags().Float64("dstar-exp", 2, "DStar exponent")
	localizeCmd.Flags().Int("top", 0, "truncate the ranking to the top N statements (0=all)")
	localizeCmd.Flags().Bool("features", false, "cluster by feature vectors instead of rule code")
	localizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runLocalize(cmd *cobra.Command, args []string) error {
	formulaStr, _ := cmd.Flags().GetString("formula")
	formula, err := sbfl.ParseFormula(formulaStr)
	if err != nil {
		return err
	}
	covPath, _ := cmd.Flags().GetString("coverage")
	if covPath == "" && len(args) == 0 {
		return fmt.Errorf("nothing to do: pass --coverage, scripts, or both")
	}

	var cov *sbfl.Coverage
	if covPath != "" {
		f, err := os.Open(covPath)
		if err != nil {
			return err
		}
		cov, err = sbfl.ReadCoverage(f)
		f.Close()
		if err != nil {
			return err
		}
	}

	opts := driver.Options{Log: newLogger(cmd)}
	opts.Jobs, _ = cmd.Root().PersistentFlags().GetInt("jobs")
	fs := source.NewFileSet()
	var diags []diag.Diagnostic
	var paths []string
	if len(args) > 0 {
		if paths, err = expandScriptArgs(args); err != nil {
			return err
		}
	}
	for _, rep := range driver.CheckPaths(cmd.Context(), fs, paths, opts) {
		if rep.Err != nil {
			return fmt.Errorf("%s: %w", rep.Path, rep.Err)
		}
		diags = append(diags, rep.Result.Diags...)
	}

	dstarExp, _ := cmd.Flags().GetFloat64("dstar-exp")
	top, _ := cmd.Flags().GetInt("top")
	features, _ := cmd.Flags().GetBool("features")
	report := driver.LocalizeAndCluster(diags, cov, driver.LocalizeOptions{
		Formula:  formula,
		DStarExp: dstarExp,
		Top:      top,
		Features: features,
	})

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		return diagfmt.LocalizationJSON(cmd.OutOrStdout(), report)
	case "pretty":
		diagfmt.Localization(cmd.OutOrStdout(), report, diagfmt.PrettyOpts{
			Color: useColor(cmd),
		})
		return nil
	}
	return fmt.Errorf("unknown format %q (want pretty or json)", format)
}
