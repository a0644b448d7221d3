package cluster

import (
	"testing"

	"bashguard/internal/diag"
	"bashguard/internal/source"
)

func mkDiag(sev diag.Severity, code diag.Code, start uint32) diag.Diagnostic {
	return diag.New(sev, code, source.Span{Start: start, End: start + 2}, "m")
}

func TestByCodeGroupsAndOrders(t *testing.T) {
	diags := []diag.Diagnostic{
		mkDiag(diag.SevWarning, diag.QuoUnquotedExpansion, 40),
		mkDiag(diag.SevError, diag.SecEvalUse, 10),
		mkDiag(diag.SevWarning, diag.QuoUnquotedExpansion, 5),
	}
	clusters := ByCode(diags)
	if len(clusters) != 2 {
		t.Fatalf("clusters = %d, want 2", len(clusters))
	}
	// Sorted by code: QUO4001 before SEC7001.
	if clusters[0].Label != "QUO4001" || clusters[1].Label != "SEC7001" {
		t.Fatalf("labels = %q, %q", clusters[0].Label, clusters[1].Label)
	}
	quo := clusters[0]
	if quo.Count() != 2 {
		t.Fatalf("QUO cluster size = %d, want 2", quo.Count())
	}
	if quo.Members[0].Primary.Start != 5 {
		t.Fatalf("members not span-ordered: first at %d", quo.Members[0].Primary.Start)
	}
}

func TestByCodeRepresentativeIsHighestSeverity(t *testing.T) {
	diags := []diag.Diagnostic{
		mkDiag(diag.SevWarning, diag.VarUnassigned, 1),
		mkDiag(diag.SevRisk, diag.VarUnassigned, 9),
		mkDiag(diag.SevWarning, diag.VarUnassigned, 20),
	}
	clusters := ByCode(diags)
	if rep := clusters[0].Representative; rep.Severity != diag.SevRisk {
		t.Fatalf("representative severity = %v, want risk", rep.Severity)
	}
}

func TestByCodeEmptyAndSingle(t *testing.T) {
	if got := ByCode(nil); got != nil {
		t.Fatalf("ByCode(nil) = %v", got)
	}
	one := []diag.Diagnostic{mkDiag(diag.SevInfo, diag.QuoBacktickSubst, 0)}
	clusters := ByCode(one)
	if len(clusters) != 1 || clusters[0].Count() != 1 {
		t.Fatalf("clusters = %+v", clusters)
	}
}

func TestFeaturesAreBounded(t *testing.T) {
	d := mkDiag(diag.SevError, diag.SecEvalUse, 3)
	d = d.WithFix(diag.UnsafeFix("alt", "a"))
	d = d.WithNote(source.Span{Start: 1, End: 2}, "n")
	for i, v := range Features(d) {
		if v < 0 || v > 1 {
			t.Fatalf("feature %d = %v, out of [0,1]", i, v)
		}
	}
}

func TestByFeaturesPullsSimilarDiagnosticsTogether(t *testing.T) {
	quote := func(start uint32) diag.Diagnostic {
		d := mkDiag(diag.SevWarning, diag.QuoUnquotedExpansion, start)
		return d.WithFix(diag.SafeFix("quote", diag.TextEdit{
			Span: source.Span{Start: start, End: start + 2}, NewText: "x",
		}))
	}
	evalUse := mkDiag(diag.SevError, diag.SecEvalUse, 50).
		WithFix(diag.UnsafeFix("alt", "a"))

	clusters := ByFeatures([]diag.Diagnostic{quote(5), evalUse, quote(30)}, 0)
	if len(clusters) != 2 {
		t.Fatalf("clusters = %d, want 2", len(clusters))
	}
	var quoting *FeatureCluster
	for i := range clusters {
		if clusters[i].Label == "QUO4001" {
			quoting = &clusters[i]
		}
	}
	if quoting == nil || quoting.Count() != 2 {
		t.Fatalf("quoting diagnostics not grouped: %+v", clusters)
	}
}

func TestByFeaturesMixedCodeLabel(t *testing.T) {
	// Identical severity/fix shape, different codes in the same group: close
	// enough to share a cluster.
	a := mkDiag(diag.SevWarning, diag.IdmMkdirNoParents, 1)
	b := mkDiag(diag.SevWarning, diag.IdmRmNoForce, 9)
	clusters := ByFeatures([]diag.Diagnostic{a, b}, 0)
	if len(clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(clusters))
	}
	if got, want := clusters[0].Label, "IDM6001 (+1 codes)"; got != want {
		t.Fatalf("label = %q, want %q", got, want)
	}
}

func TestByFeaturesSingletonsHaveZeroVariance(t *testing.T) {
	one := []diag.Diagnostic{mkDiag(diag.SevInfo, diag.DetRandomVar, 0)}
	clusters := ByFeatures(one, 0)
	if len(clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(clusters))
	}
	if clusters[0].Variance != 0 {
		t.Fatalf("singleton variance = %v", clusters[0].Variance)
	}
	if got := ByFeatures(nil, 0); got != nil {
		t.Fatalf("ByFeatures(nil) = %v", got)
	}
}

func TestByFeaturesDeterministicAcrossInputOrder(t *testing.T) {
	diags := []diag.Diagnostic{
		mkDiag(diag.SevWarning, diag.QuoUnquotedExpansion, 5),
		mkDiag(diag.SevError, diag.SecEvalUse, 50),
		mkDiag(diag.SevWarning, diag.DetTimestamp, 70),
	}
	reversed := []diag.Diagnostic{diags[2], diags[1], diags[0]}

	a := ByFeatures(diags, 0)
	b := ByFeatures(reversed, 0)
	if len(a) != len(b) {
		t.Fatalf("cluster counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Label != b[i].Label || a[i].Count() != b[i].Count() {
			t.Fatalf("cluster %d differs: %q/%d vs %q/%d",
				i, a[i].Label, a[i].Count(), b[i].Label, b[i].Count())
		}
	}
}
