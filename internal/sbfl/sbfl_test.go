package sbfl

import (
	"math"
	"strings"
	"testing"
)

func cov(totalFailed, totalPassed int, stmts map[string]StatementCounts) *Coverage {
	return &Coverage{
		TotalFailed: totalFailed,
		TotalPassed: totalPassed,
		Statements:  stmts,
	}
}

func TestOchiaiFullyFailingStatementScoresOne(t *testing.T) {
	c := cov(3, 10, map[string]StatementCounts{
		"s1": {Failed: 3, Passed: 0},
		"s2": {Failed: 1, Passed: 5},
		"s3": {Failed: 0, Passed: 8},
	})
	rk := Rank(c, Options{Formula: Ochiai})

	if rk[0].Statement != "s1" {
		t.Fatalf("top statement = %q, want s1", rk[0].Statement)
	}
	// 3 / sqrt(3*(3+0)) = 1.0 exactly.
	if rk[0].Score != 1.0 {
		t.Fatalf("s1 score = %v, want 1.0", rk[0].Score)
	}
	if last := rk[len(rk)-1]; last.Statement != "s3" || last.Score != 0 {
		t.Fatalf("untouched-by-failures statement = %+v, want s3 with score 0", last)
	}
}

func TestTarantulaValues(t *testing.T) {
	c := cov(2, 4, map[string]StatementCounts{
		"a": {Failed: 2, Passed: 0}, // 1/(1+0) = 1
		"b": {Failed: 1, Passed: 2}, // 0.5/(0.5+0.5) = 0.5
	})
	rk := Rank(c, Options{Formula: Tarantula})
	if rk[0].Score != 1.0 || rk[0].Statement != "a" {
		t.Fatalf("rk[0] = %+v, want a/1.0", rk[0])
	}
	if math.Abs(rk[1].Score-0.5) > 1e-12 {
		t.Fatalf("rk[1].Score = %v, want 0.5", rk[1].Score)
	}
}

func TestTarantulaNoPassingTests(t *testing.T) {
	c := cov(2, 0, map[string]StatementCounts{
		"a": {Failed: 1, Passed: 0},
	})
	rk := Rank(c, Options{Formula: Tarantula})
	if math.IsNaN(rk[0].Score) || math.IsInf(rk[0].Score, 0) {
		t.Fatalf("score = %v, want finite", rk[0].Score)
	}
	if rk[0].Score != 1.0 {
		t.Fatalf("score = %v, want 1.0", rk[0].Score)
	}
}

func TestDStarExponentAndZeroDenominator(t *testing.T) {
	c := cov(3, 5, map[string]StatementCounts{
		"a": {Failed: 2, Passed: 1}, // 2^3 / (1 + 1) = 4
		"b": {Failed: 3, Passed: 0}, // denominator 0 -> capped max
	})
	rk := Rank(c, Options{Formula: DStar, DStarExp: 3})
	if rk[0].Statement != "b" || rk[0].Score != math.MaxFloat64 {
		t.Fatalf("rk[0] = %+v, want b at MaxFloat64", rk[0])
	}
	if rk[1].Score != 4.0 {
		t.Fatalf("a score = %v, want 4.0", rk[1].Score)
	}
}

func TestNoFailingTestsYieldsAllZeros(t *testing.T) {
	c := cov(0, 7, map[string]StatementCounts{
		"a": {Failed: 0, Passed: 7},
		"b": {Failed: 0, Passed: 1},
	})
	for _, f := range []Formula{Tarantula, Ochiai, DStar} {
		for _, r := range Rank(c, Options{Formula: f}) {
			if r.Score != 0 {
				t.Fatalf("%s: %q score = %v, want exactly 0", f, r.Statement, r.Score)
			}
		}
	}
}

func TestTiesBreakByStatementID(t *testing.T) {
	c := cov(2, 2, map[string]StatementCounts{
		"z": {Failed: 1, Passed: 1},
		"a": {Failed: 1, Passed: 1},
		"m": {Failed: 1, Passed: 1},
	})
	rk := Rank(c, Options{Formula: Ochiai})
	want := []string{"a", "m", "z"}
	for i, id := range want {
		if rk[i].Statement != id {
			t.Fatalf("rk[%d] = %q, want %q", i, rk[i].Statement, id)
		}
	}
}

func TestTopTruncates(t *testing.T) {
	c := cov(1, 1, map[string]StatementCounts{
		"a": {Failed: 1}, "b": {Failed: 1}, "c": {Failed: 1},
	})
	rk := Rank(c, Options{Formula: Ochiai, Top: 2})
	if len(rk) != 2 {
		t.Fatalf("len = %d, want 2", len(rk))
	}
}

func TestReadCoverage(t *testing.T) {
	in := `{
		"total_failed": 3,
		"total_passed": 10,
		"statements": {
			"script.sh:12": {"failed": 3, "passed": 0},
			"script.sh:30": {"failed": 1, "passed": 4}
		}
	}`
	c, err := ReadCoverage(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCoverage: %v", err)
	}
	if c.TotalFailed != 3 || c.TotalPassed != 10 {
		t.Fatalf("totals = %d/%d", c.TotalFailed, c.TotalPassed)
	}
	if got := c.Statements["script.sh:12"]; got.Failed != 3 || got.Passed != 0 {
		t.Fatalf("statement counts = %+v", got)
	}
}

func TestReadCoverageRejectsBadCounts(t *testing.T) {
	cases := []string{
		`{"total_failed": -1, "total_passed": 0, "statements": {}}`,
		`{"total_failed": 1, "total_passed": 0,
		  "statements": {"s": {"failed": 2, "passed": 0}}}`,
		`{"total_failed": 1, "total_passed": 1,
		  "statements": {"s": {"failed": 0, "passed": 5}}}`,
		`{"total_failed": 1, "unknown_key": true, "statements": {}}`,
	}
	for _, in := range cases {
		if _, err := ReadCoverage(strings.NewReader(in)); err == nil {
			t.Fatalf("ReadCoverage accepted %s", in)
		}
	}
}

func TestSummarize(t *testing.T) {
	rk := []Ranking{{Score: 1.0}, {Score: 0.5}, {Score: 0}}
	s := Summarize(rk)
	if s.Max != 1.0 {
		t.Fatalf("max = %v", s.Max)
	}
	if math.Abs(s.Mean-0.5) > 1e-12 {
		t.Fatalf("mean = %v, want 0.5", s.Mean)
	}
	if s.StdDev == 0 {
		t.Fatal("stddev = 0 for a spread distribution")
	}
	if got := Summarize(nil); got != (Summary{}) {
		t.Fatalf("empty summary = %+v", got)
	}
}
