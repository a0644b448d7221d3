package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"bashguard/internal/driver"
)

// Localization renders a localize-and-cluster report for humans: the ranked
// statements first, then the cluster summary.
func Localization(w io.Writer, rep driver.Report, opts PrettyOpts) {
	if len(rep.Rankings) > 0 {
		fmt.Fprintln(w, "suspiciousness ranking:")
		for i, r := range rep.Rankings {
			fmt.Fprintf(w, "  %2d. %-30s %8.4f  (failed %d, passed %d)\n",
				i+1, r.Statement, r.Score, r.Failed, r.Passed)
		}
		fmt.Fprintf(w, "  scores: mean %.4f, stddev %.4f, max %.4f\n",
			rep.Summary.Mean, rep.Summary.StdDev, rep.Summary.Max)
	}

	switch {
	case len(rep.FeatureClusters) > 0:
		fmt.Fprintln(w, "clusters (feature mode):")
		for _, c := range rep.FeatureClusters {
			fmt.Fprintf(w, "  %-24s %3d finding(s)  variance %.4f  e.g. %s\n",
				c.Label, c.Count(), c.Variance, c.Representative.Message)
		}
	case len(rep.Clusters) > 0:
		fmt.Fprintln(w, "clusters:")
		for _, c := range rep.Clusters {
			fmt.Fprintf(w, "  %-24s %3d finding(s)  e.g. %s\n",
				c.Label, c.Count(), c.Representative.Message)
		}
	}
}

// rankingReportJSON is the serialized localization report.
type rankingReportJSON struct {
	Rankings []rankingJSON `json:"rankings"`
	Summary  summaryJSON   `json:"summary"`
	Clusters []clusterJSON `json:"clusters"`
}

type rankingJSON struct {
	Statement string  `json:"statement"`
	Score     float64 `json:"score"`
	Failed    int     `json:"failed"`
	Passed    int     `json:"passed"`
}

type summaryJSON struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Max    float64 `json:"max"`
}

type clusterJSON struct {
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Message  string  `json:"representative_message"`
	Severity string  `json:"representative_severity"`
	Variance float64 `json:"variance,omitempty"`
}

// LocalizationJSON serializes the report.
func LocalizationJSON(w io.Writer, rep driver.Report) error {
	out := rankingReportJSON{
		Rankings: make([]rankingJSON, 0, len(rep.Rankings)),
		Summary: summaryJSON{
			Mean:   rep.Summary.Mean,
			StdDev: rep.Summary.StdDev,
			Max:    rep.Summary.Max,
		},
	}
	for _, r := range rep.Rankings {
		out.Rankings = append(out.Rankings, rankingJSON(r))
	}
	for _, c := range rep.Clusters {
		out.Clusters = append(out.Clusters, clusterJSON{
			Label:    c.Label,
			Count:    c.Count(),
			Message:  c.Representative.Message,
			Severity: c.Representative.Severity.String(),
		})
	}
	for _, c := range rep.FeatureClusters {
		out.Clusters = append(out.Clusters, clusterJSON{
			Label:    c.Label,
			Count:    c.Count(),
			Message:  c.Representative.Message,
			Severity: c.Representative.Severity.String(),
			Variance: c.Variance,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
