// Package tracker implements the single-process swarm registry and
// termination coordinator: rank 0 in every run.
package tracker

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"segmentswarm/internal/swarmfile"
	"segmentswarm/internal/transport"
)

// Tracker runs the three phases described in spec.md §4.2 against a fixed
// number of peers, ranks 1..peerCount.
type Tracker struct {
	ep        *transport.Endpoint
	peerCount int
	registry  *swarmfile.Registry
	log       *log.Entry

	oneFileCount  int
	allFilesCount int
}

// New returns a tracker endpoint-bound to ep, coordinating peerCount peers.
func New(ep *transport.Endpoint, peerCount int, logger *log.Entry) *Tracker {
	return &Tracker{
		ep:        ep,
		peerCount: peerCount,
		registry:  swarmfile.NewRegistry(),
		log:       logger,
	}
}

// Run executes registration, broadcast, and the runtime loop in order,
// returning once every peer has reported ALL_FILES and been shut down.
func (t *Tracker) Run() error {
	t.registerAll()
	t.acknowledgeAll()
	t.broadcastAll()
	return t.serve()
}

// Registry returns the tracker's final file/swarm registry, for callers
// that want to persist session state after Run returns (see
// internal/snapshot).
func (t *Tracker) Registry() *swarmfile.Registry {
	return t.registry
}

// registerAll implements Phase 1: peers are received strictly in rank
// order, each contributing its owned files to the registry.
func (t *Tracker) registerAll() {
	for rank := 1; rank <= t.peerCount; rank++ {
		peer := transport.Rank(rank)
		count, _ := t.ep.RecvInt(peer, transport.TagRegister)
		for i := 0; i < count; i++ {
			name, _ := t.ep.RecvFileName(peer, transport.TagRegister)
			segCount, _ := t.ep.RecvInt(peer, transport.TagRegister)
			hashes := make([]transport.Hash, segCount)
			for j := 0; j < segCount; j++ {
				hashes[j], _ = t.ep.RecvHash(peer, transport.TagRegister)
			}
			t.registry.MergeOwnership(name, hashes, peer)
		}
	}
	t.log.WithField("files", t.registry.Len()).Info("registration complete")
}

// acknowledgeAll closes out Phase 1: every peer learns global state is
// assembled before broadcast begins.
func (t *Tracker) acknowledgeAll() {
	for rank := 1; rank <= t.peerCount; rank++ {
		t.ep.SendKeyword(transport.Rank(rank), transport.TagRegister, transport.KeywordACK)
	}
}

// broadcastAll implements Phase 2: the full registry is replicated to
// every peer, in the tracker's own (stable but unspecified) file order.
func (t *Tracker) broadcastAll() {
	names := t.registry.Names()
	for rank := 1; rank <= t.peerCount; rank++ {
		peer := transport.Rank(rank)
		t.ep.SendInt(peer, transport.TagBroadcast, len(names))
		for _, name := range names {
			rec, _ := t.registry.Get(name)
			t.sendFileRecord(peer, rec)
		}
	}
	t.log.Info("broadcast complete")
}

func (t *Tracker) sendFileRecord(peer transport.Rank, rec *swarmfile.FileRecord) {
	_ = t.ep.SendFileName(peer, transport.TagBroadcast, rec.Name)
	t.ep.SendInt(peer, transport.TagBroadcast, rec.SegmentCount())
	for _, h := range rec.Hashes {
		t.ep.SendHash(peer, transport.TagBroadcast, h)
	}
	t.ep.SendInt(peer, transport.TagBroadcast, len(rec.Swarm))
	for _, member := range rec.Swarm {
		t.ep.SendInt(peer, transport.TagBroadcast, int(member))
	}
}

// serve implements Phase 3: the runtime loop that answers SWARM queries
// and tracks completion signals until every peer has reported ALL_FILES.
func (t *Tracker) serve() error {
	for t.allFilesCount < t.peerCount {
		word, from := t.ep.RecvKeyword(transport.AnyRank, transport.TagControl)
		switch word {
		case transport.KeywordSwarm:
			t.handleSwarmQuery(from)
		case transport.KeywordOneFile:
			t.oneFileCount++
		case transport.KeywordAllFiles:
			t.allFilesCount++
		default:
			t.log.WithFields(log.Fields{"keyword": word, "from": from}).Error("unknown control keyword")
			return &ProtocolError{Keyword: word, From: from}
		}
	}

	for rank := 1; rank <= t.peerCount; rank++ {
		t.ep.SendKeyword(transport.Rank(rank), transport.TagProbe, transport.KeywordShutdown)
	}
	t.log.WithField("one_file_signals", t.oneFileCount).Info("all peers complete, shutdown sent")
	return nil
}

// handleSwarmQuery answers a SWARM refresh: the querying peer is narrowed
// to (per spec.md §5, the same narrowing pattern the probe protocol uses)
// on the tag-7 follow-up carrying the file name, and is itself folded into
// the file's swarm since it is on its way to holding a segment.
func (t *Tracker) handleSwarmQuery(from transport.Rank) {
	name, _ := t.ep.RecvFileName(from, transport.TagSwarm)
	rec, ok := t.registry.Get(name)
	if !ok {
		t.ep.SendInt(from, transport.TagSwarm, 0)
		return
	}
	members := append([]transport.Rank(nil), rec.Swarm...)
	t.ep.SendInt(from, transport.TagSwarm, len(members))
	for _, member := range members {
		t.ep.SendInt(from, transport.TagSwarm, int(member))
	}
	t.registry.AddSwarmMember(name, from)
}

// ProtocolError reports an unrecognized control keyword, a protocol
// violation per spec.md §7 that the tracker fails fast on.
type ProtocolError struct {
	Keyword string
	From    transport.Rank
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("tracker: unknown control keyword %q from rank %d", e.Keyword, e.From)
}
