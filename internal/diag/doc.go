// Package diag defines the diagnostic model shared by all pipeline phases.
//
// Diagnostic is the central record: severity, compact numeric code with a
// stable string ID, message, primary span, optional notes and fixes. The
// five-level severity ladder places SevRisk between Warning and Error on
// purpose — Risk is how the analyzer communicates uncertainty instead of
// asserting false confidence.
//
// Fix suggestions are data-only and carry a static safety tier (FixSafe,
// FixSafeWithAssumptions, FixUnsafe). The tier gates unattended application
// in internal/fix; it is decided when the rule is authored, never at runtime.
//
// Producers emit through a Reporter (BagReporter for storage, DedupReporter
// for suppression); the Bag supports deterministic sorting and merging so a
// fixed (script, ruleset) pair always renders byte-identical output.
package diag
