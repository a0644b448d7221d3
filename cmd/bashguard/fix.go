package main

import (
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"bashguard/internal/diag"
	"bashguard/internal/driver"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <script.sh> [more scripts...]",
	Short: "Apply automatic fixes to shell scripts",
	Long: `Analyze each script and rewrite it with the applicable fixes. Only safe
fixes apply by default; --tier assumptions opts into rewrites that carry a
stated assumption. Unsafe proposals are never applied, under any flag.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().String("tier", "safe", "maximum fix tier to apply (safe|assumptions)")
	fixCmd.Flags().Bool("diff", false, "print a unified diff of the rewrite")
	fixCmd.Flags().Bool("dry-run", false, "report what would change without writing")
}

func runFix(cmd *cobra.Command, args []string) error {
	tierStr, _ := cmd.Flags().GetString("tier")
	var tier diag.FixTier
	switch tierStr {
	case "safe":
		tier = diag.FixSafe
	case "assumptions":
		tier = diag.FixSafeWithAssumptions
	default:
		return fmt.Errorf("unknown tier %q (want safe or assumptions)", tierStr)
	}
	showDiff, _ := cmd.Flags().GetBool("diff")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	opts := driver.Options{Log: newLogger(cmd)}
	opts.Jobs, _ = cmd.Root().PersistentFlags().GetInt("jobs")

	out := cmd.OutOrStdout()
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		res, _ := driver.FixSource(cmd.Context(), path, src, tier, opts)

		if showDiff && res.Changed() {
			diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(string(src)),
				B:        difflib.SplitLines(string(res.Content)),
				FromFile: path,
				ToFile:   path + " (fixed)",
				Context:  3,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(out, diff)
		}
		if !quiet {
			for _, a := range res.Applied {
				fmt.Fprintf(out, "%s: applied %s [%s]: %s\n",
					path, a.Code.ID(), a.Tier, a.Title)
			}
			for _, s := range res.Skipped {
				fmt.Fprintf(out, "%s: skipped %s: %s (%s)\n",
					path, s.Code.ID(), s.Title, s.Reason)
			}
		}

		if dryRun || !res.Changed() {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, res.Content, info.Mode().Perm()); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(out, "%s: %d fix(es) written\n", path, len(res.Applied))
		}
	}
	return nil
}
