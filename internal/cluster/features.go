package cluster

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"bashguard/internal/diag"
)

// featureDim is the length of every feature vector.
const featureDim = 5

// DefaultRadius is the assignment threshold for ByFeatures: a diagnostic
// joins an existing cluster when its feature vector lies within this L2
// distance of the cluster centroid.
const DefaultRadius = 0.35

// FeatureCluster is a Cluster enriched with its centroid geometry.
type FeatureCluster struct {
	Cluster
	Centroid []float64
	// Variance is the variance of member distances to the centroid; 0 for
	// singleton clusters.
	Variance float64
}

// Features maps one diagnostic to a fixed-length vector in [0,1] per
// dimension: rule group, severity, best available fix tier, whether any fix
// exists, and whether notes attach. Diagnostics that share a root cause
// across different codes (say a quoting warning and a destructive-command
// error on the same expansion) land close together because group, severity
// and fix shape dominate the geometry.
func Features(d diag.Diagnostic) []float64 {
	v := make([]float64, featureDim)
	v[0] = groupIndex(d.Code) / 8.0
	v[1] = float64(d.Severity) / float64(diag.SevError)
	v[2] = fixTierFeature(d)
	if len(d.Fixes) > 0 {
		v[3] = 1
	}
	if len(d.Notes) > 0 {
		v[4] = 1
	}
	return v
}

func groupIndex(c diag.Code) float64 {
	switch c.Group() {
	case "lexical":
		return 1
	case "syntax":
		return 2
	case "var":
		return 3
	case "quoting":
		return 4
	case "determinism":
		return 5
	case "idempotency":
		return 6
	case "security":
		return 7
	case "perf":
		return 8
	}
	return 0
}

func fixTierFeature(d diag.Diagnostic) float64 {
	if len(d.Fixes) == 0 {
		return 1 // no fix at all reads as "beyond unsafe"
	}
	best := d.Fixes[0].Tier
	for _, f := range d.Fixes[1:] {
		if f.Tier < best {
			best = f.Tier
		}
	}
	return float64(best) / float64(diag.FixUnsafe+1)
}

// ByFeatures groups diagnostics by feature-vector proximity using greedy
// centroid assignment: diagnostics are visited in span order, each joins the
// nearest centroid within radius or seeds a new cluster, and the centroid is
// recomputed over its members after every assignment. The pass order is
// fixed, so the grouping is deterministic. radius <= 0 selects
// DefaultRadius. Zero or one diagnostics never divide by zero: they produce
// zero or one singleton clusters.
func ByFeatures(diags []diag.Diagnostic, radius float64) []FeatureCluster {
	if len(diags) == 0 {
		return nil
	}
	if radius <= 0 {
		radius = DefaultRadius
	}

	ordered := append([]diag.Diagnostic(nil), diags...)
	sortMembers(ordered)

	type working struct {
		members  []diag.Diagnostic
		vectors  [][]float64
		centroid []float64
	}
	var clusters []*working

	for _, d := range ordered {
		v := Features(d)
		best := -1
		bestDist := radius
		for i, c := range clusters {
			if dist := floats.Distance(v, c.centroid, 2); dist <= bestDist {
				best, bestDist = i, dist
			}
		}
		if best < 0 {
			clusters = append(clusters, &working{
				members:  []diag.Diagnostic{d},
				vectors:  [][]float64{v},
				centroid: append([]float64(nil), v...),
			})
			continue
		}
		c := clusters[best]
		c.members = append(c.members, d)
		c.vectors = append(c.vectors, v)
		recenter(c.centroid, c.vectors)
	}

	out := make([]FeatureCluster, 0, len(clusters))
	for _, c := range clusters {
		fc := FeatureCluster{
			Cluster: Cluster{
				Representative: pickRepresentative(c.members),
				Members:        c.members,
			},
			Centroid: c.centroid,
			Variance: spread(c.centroid, c.vectors),
		}
		fc.Label = clusterLabel(c.members)
		out = append(out, fc)
	}
	return out
}

// recenter overwrites centroid with the per-dimension mean of vectors.
func recenter(centroid []float64, vectors [][]float64) {
	for dim := range centroid {
		col := make([]float64, len(vectors))
		for i, v := range vectors {
			col[i] = v[dim]
		}
		centroid[dim] = stat.Mean(col, nil)
	}
}

// spread returns the variance of member distances to the centroid.
func spread(centroid []float64, vectors [][]float64) float64 {
	if len(vectors) < 2 {
		return 0
	}
	dists := make([]float64, len(vectors))
	for i, v := range vectors {
		dists[i] = floats.Distance(v, centroid, 2)
	}
	return stat.Variance(dists, nil)
}

// clusterLabel names a feature cluster by its member codes: the bare code ID
// when homogeneous, "group (+n codes)" when mixed.
func clusterLabel(members []diag.Diagnostic) string {
	codes := make(map[diag.Code]struct{}, 1)
	for _, m := range members {
		codes[m.Code] = struct{}{}
	}
	if len(codes) == 1 {
		return members[0].Code.ID()
	}
	ids := make([]string, 0, len(codes))
	for c := range codes {
		ids = append(ids, c.ID())
	}
	sort.Strings(ids)
	return fmt.Sprintf("%s (+%d codes)", ids[0], len(ids)-1)
}
