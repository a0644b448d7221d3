package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bashguard/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "bashguard",
	Short: "Context-aware shell script analyzer",
	Long: `bashguard statically analyzes shell scripts with a full lexical-context
model: quoting, heredocs, arithmetic, case patterns and array subscripts are
tracked through the whole pipeline, so the usual false positives of
token-adjacency linters do not fire.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(localizeCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum diagnostics per file (0=default)")
	rootCmd.PersistentFlags().Int("jobs", 0, "max parallel workers (0=auto)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color mode against the output terminal.
func useColor(cmd *cobra.Command) bool {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stdout) && !color.NoColor
	}
}

// newLogger builds the CLI logger. Engine events (rule panics, cache faults)
// go to stderr; --quiet raises the level to errors only.
func newLogger(cmd *cobra.Command) zerolog.Logger {
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	level := zerolog.WarnLevel
	if quiet {
		level = zerolog.ErrorLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !useColor(cmd)}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
