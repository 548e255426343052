package peer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"segmentswarm/internal/transport"
)

func TestOrderCandidatesExcludesSelfAndSortsByUsage(t *testing.T) {
	u := NewUsageTracker()
	u.Record("X", transport.Rank(2))
	u.Record("X", transport.Rank(2))
	u.Record("X", transport.Rank(3))

	swarm := []transport.Rank{1, 2, 3, 4}
	ordered := u.OrderCandidates("X", swarm, transport.Rank(1))

	require.Equal(t, []transport.Rank{4, 3, 2}, ordered)
}

func TestOrderCandidatesBreaksTiesByRank(t *testing.T) {
	u := NewUsageTracker()
	swarm := []transport.Rank{3, 1, 2}
	ordered := u.OrderCandidates("X", swarm, transport.Rank(99))
	require.Equal(t, []transport.Rank{1, 2, 3}, ordered)
}

func TestCountIsZeroForUnseenCandidate(t *testing.T) {
	u := NewUsageTracker()
	require.Equal(t, 0, u.Count("X", transport.Rank(5)))
}
