package driver

import (
	"bashguard/internal/cluster"
	"bashguard/internal/diag"
	"bashguard/internal/sbfl"
)

// LocalizeOptions parameterize LocalizeAndCluster.
type LocalizeOptions struct {
	Formula  sbfl.Formula
	DStarExp float64
	Top      int
	// Features switches clustering from by-code buckets to feature-vector
	// centroids.
	Features bool
	// Radius is the feature-mode assignment threshold; 0 selects the
	// package default.
	Radius float64
}

// Report is the combined localization and clustering output.
type Report struct {
	Rankings []sbfl.Ranking
	Summary  sbfl.Summary
	Clusters []cluster.Cluster
	// FeatureClusters is populated instead of Clusters in feature mode.
	FeatureClusters []cluster.FeatureCluster
}

// LocalizeAndCluster enriches a diagnostic list with an optional
// suspiciousness ranking and a cluster summary. A nil coverage yields
// clusters only, with empty rankings. Both halves are read-only over diags.
func LocalizeAndCluster(diags []diag.Diagnostic, cov *sbfl.Coverage, opts LocalizeOptions) Report {
	var rep Report
	if cov != nil {
		rep.Rankings = sbfl.Rank(cov, sbfl.Options{
			Formula:  opts.Formula,
			DStarExp: opts.DStarExp,
			Top:      opts.Top,
		})
		rep.Summary = sbfl.Summarize(rep.Rankings)
	}
	if opts.Features {
		rep.FeatureClusters = cluster.ByFeatures(diags, opts.Radius)
	} else {
		rep.Clusters = cluster.ByCode(diags)
	}
	return rep
}
