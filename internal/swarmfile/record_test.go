package swarmfile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"segmentswarm/internal/transport"
)

func hash(b byte) transport.Hash {
	var h transport.Hash
	for i := range h {
		h[i] = b
	}
	return h
}

func TestMergeOwnershipIsAppendOnly(t *testing.T) {
	reg := NewRegistry()
	reg.MergeOwnership("F", []transport.Hash{hash(1), hash(2)}, transport.Rank(1))
	reg.MergeOwnership("F", []transport.Hash{hash(2), hash(3)}, transport.Rank(2))

	rec, ok := reg.Get("F")
	require.True(t, ok)
	require.Equal(t, 3, rec.SegmentCount())
	require.Equal(t, []transport.Hash{hash(1), hash(2), hash(3)}, rec.Hashes)
	require.ElementsMatch(t, []transport.Rank{1, 2}, rec.Swarm)
}

func TestNamesPreservesFirstMentionOrder(t *testing.T) {
	reg := NewRegistry()
	reg.MergeOwnership("B", nil, transport.Rank(1))
	reg.MergeOwnership("A", nil, transport.Rank(2))
	require.Equal(t, []string{"B", "A"}, reg.Names())
}

func TestAddSwarmMemberRejectsUnknownFile(t *testing.T) {
	reg := NewRegistry()
	require.False(t, reg.AddSwarmMember("missing", transport.Rank(1)))
}

func TestCloneIsIndependent(t *testing.T) {
	rec := &FileRecord{Name: "F", Hashes: []transport.Hash{hash(1)}, Swarm: []transport.Rank{1}}
	clone := rec.Clone()
	clone.AddToSwarm(2)
	require.Len(t, rec.Swarm, 1)
	require.Len(t, clone.Swarm, 2)
}
