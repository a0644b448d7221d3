// Package cluster groups diagnostics for summarized reporting. The default
// mode buckets by diagnostic code; the feature mode embeds each diagnostic
// as a small numeric vector and groups by centroid proximity, which can pull
// together findings that share a root cause across different codes. Both
// modes are read-only over the diagnostic list and fully deterministic.
package cluster
