package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"bashguard/internal/source"
)

// FileReport is the per-file outcome of a batch check.
type FileReport struct {
	Path   string
	FileID source.FileID
	Result *Result
	// FromCache marks a disk-cache replay; the diagnostics are identical
	// to a fresh run either way.
	FromCache bool
	// Err is set when the file could not be read; Result is nil then.
	Err error
}

// CheckPaths loads and analyzes a set of scripts in parallel. Reports come
// back in input order regardless of scheduling. Per-file read failures are
// recorded in the report, not returned: one unreadable script must not sink
// the batch.
func CheckPaths(ctx context.Context, fs *source.FileSet, paths []string, opts Options) []FileReport {
	reports := make([]FileReport, len(paths))

	// Loading mutates the FileSet, so it stays sequential; analysis is
	// read-only per file and shards freely.
	for i, p := range paths {
		reports[i].Path = p
		id, err := fs.Load(p)
		if err != nil {
			reports[i].Err = err
			continue
		}
		reports[i].FileID = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range reports {
		if reports[i].Err != nil {
			continue
		}
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			checkOne(ctx, fs, &reports[i], opts)
			return nil
		})
	}
	// The only error source is context cancellation; partial reports are
	// still meaningful to the caller.
	_ = g.Wait()
	return reports
}

func checkOne(ctx context.Context, fs *source.FileSet, rep *FileReport, opts Options) {
	file := fs.Get(rep.FileID)
	key := Key(file, opts)

	if diags, ok, err := opts.Cache.Get(key, rep.FileID); err == nil && ok {
		rep.Result = &Result{FileID: rep.FileID, Diags: diags}
		rep.FromCache = true
		return
	} else if err != nil {
		opts.Log.Warn().Err(err).Str("path", rep.Path).
			Msg("diagnostic cache read failed; reanalyzing")
	}

	rep.Result = Analyze(ctx, fs, rep.FileID, opts)

	if err := opts.Cache.Put(key, rep.Result.Diags); err != nil {
		opts.Log.Warn().Err(err).Str("path", rep.Path).
			Msg("diagnostic cache write failed")
	}
}
