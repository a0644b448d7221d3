// Package driver wires the analysis pipeline together and exposes the three
// engine entry points: Analyze (lex, parse, resolve, evaluate rules),
// ApplyFixes (pure source rewriting under the fix-tier policy) and
// LocalizeAndCluster (suspiciousness ranking plus diagnostic grouping).
//
// The entry points are pure with respect to the environment: callers supply
// content, configuration and coverage as data. Batch checking and the
// optional disk cache live here too, but the cache is transparent by
// construction — a hit replays exactly what a fresh analysis would produce.
package driver
