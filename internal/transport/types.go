// Package transport realizes the reliable, in-order, tag-demultiplexed
// point-to-point channel the coordination protocol assumes. It does not
// care whether the participants are MPI ranks, OS processes, or — as here —
// goroutines sharing a process; every Send/Recv call site is written
// against the Bus the same way regardless of substrate.
package transport

// Rank identifies a protocol participant. The tracker always holds
// TrackerRank; peers hold 1..N-1.
type Rank int

// AnyRank requests a wildcard-source receive: the call returns the next
// message on the given tag from any participant that has one pending (picked
// at random when several do), along with that participant's Rank.
const AnyRank Rank = -1

// TrackerRank is the tracker's fixed identifier.
const TrackerRank Rank = 0

// Tag partitions logically distinct message streams. Tag values intentionally
// repeat across unrelated (source, destination) pairs, exactly as in the
// reference protocol's tag table: a tag's meaning is determined by who is
// sending to whom, not by the numeral alone.
type Tag int

const (
	// TagRegister carries peer->tracker registration, the tracker's ACK of
	// it, and peer->peer probe responses (ACK/NACK).
	TagRegister Tag = 1
	// TagBroadcast carries the tracker's initial registry broadcast and,
	// separately, the hash payload that follows a peer->peer DOWNLOAD probe.
	TagBroadcast Tag = 0
	// TagProbe carries peer->peer DOWNLOAD probes and the tracker's
	// SHUTDOWN directive to uploaders.
	TagProbe Tag = 5
	// TagControl carries peer->tracker SWARM/ONE_FILE/ALL_FILES keywords.
	TagControl Tag = 6
	// TagSwarm carries the SWARM query follow-up: file name, then swarm
	// size and member list.
	TagSwarm Tag = 7
)

// Protocol wire-format constants, normative per the spec's external
// interfaces section.
const (
	MessageSize = 10
	MaxFileName = 15
	HashSize    = 32
)

// Control keywords exchanged on TagRegister, TagProbe, and TagControl.
const (
	KeywordACK      = "ACK"
	KeywordNACK     = "NACK"
	KeywordDownload = "DOWNLOAD"
	KeywordSwarm    = "SWARM"
	KeywordOneFile  = "ONE_FILE"
	KeywordAllFiles = "ALL_FILES"
	KeywordShutdown = "SHUTDOWN"
)
