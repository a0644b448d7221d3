package sbfl

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Formula selects the suspiciousness metric.
type Formula uint8

const (
	Tarantula Formula = iota
	Ochiai
	DStar
)

func (f Formula) String() string {
	switch f {
	case Tarantula:
		return "tarantula"
	case Ochiai:
		return "ochiai"
	case DStar:
		return "dstar"
	}
	return "unknown"
}

// ParseFormula maps a CLI flag value to a Formula.
func ParseFormula(s string) (Formula, error) {
	switch s {
	case "tarantula":
		return Tarantula, nil
	case "ochiai":
		return Ochiai, nil
	case "dstar":
		return DStar, nil
	}
	return 0, fmt.Errorf("unknown formula %q (want tarantula, ochiai or dstar)", s)
}

// Ranking is one statement's suspiciousness.
type Ranking struct {
	Statement string  `json:"statement"`
	Score     float64 `json:"score"`
	Failed    int     `json:"failed"`
	Passed    int     `json:"passed"`
}

// Summary aggregates a ranking's score distribution.
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Max    float64 `json:"max"`
}

// Options parameterize Rank.
type Options struct {
	Formula Formula
	// DStarExp is the DStar exponent; values below 1 default to 2.
	DStarExp float64
	// Top truncates the ranking; 0 keeps everything.
	Top int
}

// Rank scores every statement in the coverage and returns them sorted by
// score descending, ties broken by statement id ascending. The result is a
// pure function of the coverage contents; map iteration order never shows
// through.
//
// TotalFailed == 0 short-circuits to an all-zero ranking: with no failing
// test there is nothing to localize, and every formula would otherwise
// divide by zero.
func Rank(cov *Coverage, opts Options) []Ranking {
	exp := opts.DStarExp
	if exp < 1 {
		exp = 2
	}

	out := make([]Ranking, 0, len(cov.Statements))
	for id, st := range cov.Statements {
		r := Ranking{Statement: id, Failed: st.Failed, Passed: st.Passed}
		if cov.TotalFailed > 0 {
			r.Score = score(opts.Formula, exp, st.Failed, st.Passed,
				cov.TotalFailed, cov.TotalPassed)
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Statement < out[j].Statement
	})
	if opts.Top > 0 && len(out) > opts.Top {
		out = out[:opts.Top]
	}
	return out
}

// score computes one statement's suspiciousness. Callers guarantee
// totalFailed > 0; each branch guards its remaining zero denominators so no
// input produces NaN.
func score(f Formula, exp float64, failed, passed, totalFailed, totalPassed int) float64 {
	if failed == 0 {
		// Untouched by any failing test: not suspicious under any formula.
		return 0
	}
	switch f {
	case Tarantula:
		failRatio := float64(failed) / float64(totalFailed)
		passRatio := 0.0
		if totalPassed > 0 {
			passRatio = float64(passed) / float64(totalPassed)
		}
		return failRatio / (failRatio + passRatio)
	case Ochiai:
		return float64(failed) /
			math.Sqrt(float64(totalFailed)*float64(failed+passed))
	case DStar:
		denom := float64(passed + (totalFailed - failed))
		if denom == 0 {
			// Covered by every failing test and no passing one: maximally
			// suspicious. Cap instead of returning +Inf.
			return math.MaxFloat64
		}
		return math.Pow(float64(failed), exp) / denom
	}
	return 0
}

// Summarize reports mean, standard deviation and maximum of the scores.
// An empty ranking summarizes to all zeros.
func Summarize(rankings []Ranking) Summary {
	if len(rankings) == 0 {
		return Summary{}
	}
	scores := make([]float64, len(rankings))
	for i, r := range rankings {
		scores[i] = r.Score
	}
	s := Summary{
		Mean: stat.Mean(scores, nil),
		Max:  scores[0],
	}
	for _, v := range scores {
		if v > s.Max {
			s.Max = v
		}
	}
	if len(scores) > 1 {
		s.StdDev = stat.StdDev(scores, nil)
	}
	return s
}
