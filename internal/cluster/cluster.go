package cluster

import (
	"sort"

	"bashguard/internal/diag"
)

// Cluster is one group of related diagnostics. Members keep the sorted order
// of the input; the representative is the highest-severity member, earliest
// span on a tie.
type Cluster struct {
	// Label names the cluster: the code ID in by-code mode, a group name in
	// feature mode.
	Label          string
	Representative diag.Diagnostic
	Members        []diag.Diagnostic
}

// Count returns the cluster size.
func (c *Cluster) Count() int { return len(c.Members) }

// ByCode groups diagnostics by their code. Grouping is read-only, cheap and
// deterministic: clusters come out sorted by code, members by primary span.
// Zero diagnostics yield zero clusters.
func ByCode(diags []diag.Diagnostic) []Cluster {
	if len(diags) == 0 {
		return nil
	}
	byCode := make(map[diag.Code][]diag.Diagnostic)
	for _, d := range diags {
		byCode[d.Code] = append(byCode[d.Code], d)
	}

	codes := make([]diag.Code, 0, len(byCode))
	for c := range byCode {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	out := make([]Cluster, 0, len(codes))
	for _, c := range codes {
		members := byCode[c]
		sortMembers(members)
		out = append(out, Cluster{
			Label:          c.ID(),
			Representative: pickRepresentative(members),
			Members:        members,
		})
	}
	return out
}

func sortMembers(members []diag.Diagnostic) {
	sort.SliceStable(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if a.Primary.File != b.Primary.File {
			return a.Primary.File < b.Primary.File
		}
		if a.Primary.Start != b.Primary.Start {
			return a.Primary.Start < b.Primary.Start
		}
		return a.Primary.End < b.Primary.End
	})
}

func pickRepresentative(members []diag.Diagnostic) diag.Diagnostic {
	rep := members[0]
	for _, m := range members[1:] {
		if m.Severity > rep.Severity {
			rep = m
		}
	}
	return rep
}
