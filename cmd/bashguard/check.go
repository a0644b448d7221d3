package main

import (
	"encoding/json"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bashguard/internal/config"
	"bashguard/internal/diag"
	"bashguard/internal/diagfmt"
	"bashguard/internal/driver"
	"bashguard/internal/observ"
	"bashguard/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <script.sh> [more scripts...]",
	Short: "Analyze shell scripts and report diagnostics",
	Long: `Run the full analysis pipeline over one or more scripts: lexing with
context tracking, recovering parse, variable-origin resolution and the rule
table. The exit status is 1 when any error-severity finding is reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "", "output format (pretty|json|export)")
	checkCmd.Flags().StringSlice("enable", nil, "only run matching rules (ID, group, or glob)")
	checkCmd.Flags().StringSlice("disable", nil, "skip matching rules (wins over --enable)")
	checkCmd.Flags().String("severity-floor", "", "drop rule findings below this severity")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("disk-cache", false, "reuse cached diagnostics for unchanged files")
	checkCmd.Flags().String("config", "", "config file (default: discover bashguard.toml upward)")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts, cfg, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	paths, err := expandScriptArgs(args)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "" && cfg != nil {
		format = cfg.Output.Format
	}
	switch format {
	case "", "pretty":
		format = "pretty"
	case "json", "export":
	default:
		return fmt.Errorf("unknown format %q (want pretty, json or export)", format)
	}

	if useCache, _ := cmd.Flags().GetBool("disk-cache"); useCache {
		cache, err := driver.OpenDiskCache("bashguard")
		if err != nil {
			return fmt.Errorf("open disk cache: %w", err)
		}
		opts.Cache = cache
	}
	showTimings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	if showTimings {
		opts.Timer = observ.NewTimer()
	}

	fs := source.NewFileSet()
	reports := driver.CheckPaths(cmd.Context(), fs, paths, opts)

	perFile := opts.MaxDiagnostics
	if perFile == 0 {
		perFile = driver.DefaultMaxDiagnostics
	}
	bag := diag.NewBag(perFile * len(reports))
	exitErr := false
	for _, rep := range reports {
		if rep.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", rep.Path, rep.Err)
			exitErr = true
			continue
		}
		for _, d := range rep.Result.Diags {
			bag.Add(d)
		}
		if rep.Result.HasErrors() {
			exitErr = true
		}
	}
	bag.Sort()

	pathMode := diagfmt.PathModeAuto
	if full, _ := cmd.Flags().GetBool("fullpath"); full {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch format {
	case "export":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(diag.Export(bag.Items(), fs)); err != nil {
			return err
		}
	case "json":
		err = diagfmt.JSON(cmd.OutOrStdout(), bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     true,
			IncludeFixes:     true,
			IncludePreviews:  true,
		})
		if err != nil {
			return err
		}
	default:
		withNotes, _ := cmd.Flags().GetBool("with-notes")
		suggest, _ := cmd.Flags().GetBool("suggest")
		diagfmt.Pretty(cmd.OutOrStdout(), bag, fs, diagfmt.PrettyOpts{
			Color:     useColor(cmd),
			PathMode:  pathMode,
			ShowNotes: withNotes,
			ShowFixes: suggest,
		})
		quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%d finding(s) in %d file(s)\n",
				bag.Len(), len(paths))
		}
	}

	if showTimings && opts.Timer != nil {
		fmt.Fprint(os.Stderr, opts.Timer.Summary())
	}
	if exitErr {
		return errors.New("errors were reported")
	}
	return nil
}

// buildOptions merges configuration (bashguard.toml) with command flags;
// flags win.
func buildOptions(cmd *cobra.Command) (driver.Options, *config.Config, error) {
	opts := driver.Options{Log: newLogger(cmd)}
	opts.Jobs, _ = cmd.Root().PersistentFlags().GetInt("jobs")
	opts.MaxDiagnostics, _ = cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	var cfg *config.Config
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return opts, nil, err
		}
	} else if wd, err := os.Getwd(); err == nil {
		if found, _, err := config.Discover(wd); err == nil {
			cfg = found
		} else if !errors.Is(err, config.ErrNotFound) {
			return opts, nil, err
		}
	}

	if cfg != nil {
		opts.Enable = cfg.Rules.Enable
		opts.Disable = cfg.Rules.Disable
		floor, err := cfg.Floor()
		if err != nil {
			return opts, nil, err
		}
		opts.SeverityFloor = floor
		if opts.MaxDiagnostics == 0 {
			opts.MaxDiagnostics = cfg.Output.MaxDiagnostics
		}
	}

	if enable, _ := cmd.Flags().GetStringSlice("enable"); len(enable) > 0 {
		opts.Enable = enable
	}
	if disable, _ := cmd.Flags().GetStringSlice("disable"); len(disable) > 0 {
		opts.Disable = disable
	}
	if floorStr, _ := cmd.Flags().GetString("severity-floor"); floorStr != "" {
		floor, ok := diag.ParseSeverity(floorStr)
		if !ok {
			return opts, nil, fmt.Errorf("unknown severity %q", floorStr)
		}
		opts.SeverityFloor = floor
	}
	return opts, cfg, nil
}

// expandScriptArgs flattens directory arguments into the .sh/.bash files
// under them. Plain file arguments pass through untouched, whatever their
// extension.
func expandScriptArgs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			// Let the analysis phase report the unreadable path.
			paths = append(paths, arg)
			continue
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(p string, d iofs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch filepath.Ext(p) {
			case ".sh", ".bash":
				paths = append(paths, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", arg, err)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no shell scripts found")
	}
	return paths, nil
}
