package peer

import (
	"sort"

	"segmentswarm/internal/transport"
)

// UsageTracker counts, per file, how many segments this peer has
// successfully downloaded from each candidate this session.
type UsageTracker struct {
	perFile map[string]map[transport.Rank]int
}

// NewUsageTracker returns an empty tracker.
func NewUsageTracker() *UsageTracker {
	return &UsageTracker{perFile: make(map[string]map[transport.Rank]int)}
}

// Record increments the usage count for source on file.
func (u *UsageTracker) Record(file string, source transport.Rank) {
	counts, ok := u.perFile[file]
	if !ok {
		counts = make(map[transport.Rank]int)
		u.perFile[file] = counts
	}
	counts[source]++
}

// Count returns how many segments of file have been drawn from source so
// far (zero for unseen candidates).
func (u *UsageTracker) Count(file string, source transport.Rank) int {
	return u.perFile[file][source]
}

// OrderCandidates sorts swarm members (excluding self) ascending by usage
// count for file, the lightweight load-balancing policy from spec.md §4.4.
// Ties are broken by rank to keep ordering stable and deterministic.
func (u *UsageTracker) OrderCandidates(file string, swarm []transport.Rank, self transport.Rank) []transport.Rank {
	candidates := make([]transport.Rank, 0, len(swarm))
	for _, r := range swarm {
		if r != self {
			candidates = append(candidates, r)
		}
	}
	counts := u.perFile[file]
	sort.SliceStable(candidates, func(i, j int) bool {
		ci, cj := counts[candidates[i]], counts[candidates[j]]
		if ci != cj {
			return ci < cj
		}
		return candidates[i] < candidates[j]
	})
	return candidates
}
