// Package sbfl ranks statements by suspiciousness from pass/fail test
// coverage (spectrum-based fault localization). Three formulas are
// supported: Tarantula, Ochiai and DStar. Scoring is a pure function of the
// coverage counts; the ranking order is fully deterministic.
package sbfl
