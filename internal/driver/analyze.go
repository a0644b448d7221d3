package driver

import (
	"context"

	"bashguard/internal/diag"
	"bashguard/internal/parser"
	"bashguard/internal/rules"
	"bashguard/internal/source"
	"bashguard/internal/symbols"
)

// Analyze runs the full pipeline over one script in the set: lex and parse
// with error recovery, resolve variable origins, evaluate the rule table,
// then deduplicate and sort. It performs no file I/O and reads no
// environment; everything it needs arrives through fs and opts.
func Analyze(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) *Result {
	file := fs.Get(id)

	parseBag := diag.NewBag(opts.maxDiagnostics())
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: parseBag})

	var phase int
	if opts.Timer != nil {
		phase = opts.Timer.Begin("parse")
	}
	script := parser.New(file, parser.Options{Reporter: reporter}).Parse()
	if opts.Timer != nil {
		opts.Timer.End(phase, file.Path)
	}

	if opts.Timer != nil {
		phase = opts.Timer.Begin("resolve")
	}
	table := symbols.Resolve(script)
	if opts.Timer != nil {
		opts.Timer.End(phase, "")
	}

	if opts.Timer != nil {
		phase = opts.Timer.Begin("rules")
	}
	ev := rules.Evaluator{Registry: opts.registry(), Jobs: opts.Jobs, Log: opts.Log}
	findings := ev.Run(ctx, rules.NewInput(file, script, table))
	if opts.Timer != nil {
		opts.Timer.End(phase, "")
	}

	bag := diag.NewBag(opts.maxDiagnostics())
	// Lexer and parser diagnostics bypass the severity floor: broken syntax
	// must always surface, whatever the floor filters from rule output.
	for _, d := range parseBag.Items() {
		bag.Add(d)
	}
	for _, d := range findings {
		if d.Severity < opts.SeverityFloor {
			continue
		}
		bag.Add(d)
	}
	bag.Dedup()
	bag.Sort()

	return &Result{
		FileID:  id,
		Script:  script,
		Symbols: table,
		Diags:   bag.Items(),
	}
}

// AnalyzeSource analyzes an in-memory script under a virtual file name.
func AnalyzeSource(ctx context.Context, name string, src []byte, opts Options) (*source.FileSet, *Result) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	return fs, Analyze(ctx, fs, id, opts)
}
