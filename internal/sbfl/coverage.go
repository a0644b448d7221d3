package sbfl

import (
	"encoding/json"
	"fmt"
	"io"
)

// StatementCounts records how many passing and failing test executions
// touched one statement.
type StatementCounts struct {
	Failed int `json:"failed"`
	Passed int `json:"passed"`
}

// Coverage is the pass/fail execution-trace input to localization.
// Statement ids are caller-defined; the engine treats them as opaque keys
// mapped onto source lines by the boundary layer.
type Coverage struct {
	TotalFailed int                        `json:"total_failed"`
	TotalPassed int                        `json:"total_passed"`
	Statements  map[string]StatementCounts `json:"statements"`
}

// ReadCoverage decodes the JSON coverage format and validates the counts.
func ReadCoverage(r io.Reader) (*Coverage, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var cov Coverage
	if err := dec.Decode(&cov); err != nil {
		return nil, fmt.Errorf("decode coverage: %w", err)
	}
	if err := cov.validate(); err != nil {
		return nil, err
	}
	return &cov, nil
}

func (c *Coverage) validate() error {
	if c.TotalFailed < 0 || c.TotalPassed < 0 {
		return fmt.Errorf("coverage: negative test totals (%d failed, %d passed)",
			c.TotalFailed, c.TotalPassed)
	}
	for id, st := range c.Statements {
		if st.Failed < 0 || st.Passed < 0 {
			return fmt.Errorf("coverage: statement %q has negative counts", id)
		}
		if st.Failed > c.TotalFailed {
			return fmt.Errorf(
				"coverage: statement %q touched by %d failing tests but only %d ran",
				id, st.Failed, c.TotalFailed)
		}
		if st.Passed > c.TotalPassed {
			return fmt.Errorf(
				"coverage: statement %q touched by %d passing tests but only %d ran",
				id, st.Passed, c.TotalPassed)
		}
	}
	return nil
}
