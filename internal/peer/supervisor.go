package peer

import (
	log "github.com/sirupsen/logrus"

	"segmentswarm/internal/peerio"
	"segmentswarm/internal/swarmfile"
	"segmentswarm/internal/transport"
)

// Supervisor performs the registration handshake, then runs a peer's
// downloader and uploader concurrently, joining the downloader first since
// it terminates on its own while the uploader waits for SHUTDOWN
// (spec.md §4.6).
type Supervisor struct {
	ep     *transport.Endpoint
	input  *peerio.Input
	outDir string
	log    *log.Entry
}

// NewSupervisor builds a supervisor for one peer rank.
func NewSupervisor(ep *transport.Endpoint, input *peerio.Input, outDir string, logger *log.Entry) *Supervisor {
	return &Supervisor{ep: ep, input: input, outDir: outDir, log: logger}
}

// Run executes registration, the broadcast receive, and both worker
// loops, returning once the uploader has observed SHUTDOWN.
func (s *Supervisor) Run() error {
	s.register()
	s.awaitAck()
	view := s.receiveBroadcast()

	owned := NewOwnedSnapshot(s.input.Owned)
	uploader := NewUploader(s.ep, owned, s.log)
	downloader := NewDownloader(s.ep, s.ep.Rank(), s.input.Wanted, view, s.outDir, s.log)

	uploaderDone := make(chan struct{})
	go func() {
		uploader.Run()
		close(uploaderDone)
	}()

	if err := downloader.Run(); err != nil {
		<-uploaderDone
		return err
	}

	<-uploaderDone
	return nil
}

// register sends owned-file registration in the shape the tracker's Phase
// 1 expects: count, then per file name, segment count, and hashes.
func (s *Supervisor) register() {
	s.ep.SendInt(transport.TrackerRank, transport.TagRegister, len(s.input.OwnedOrder))
	for _, name := range s.input.OwnedOrder {
		hashes := s.input.Owned[name]
		_ = s.ep.SendFileName(transport.TrackerRank, transport.TagRegister, name)
		s.ep.SendInt(transport.TrackerRank, transport.TagRegister, len(hashes))
		for _, h := range hashes {
			s.ep.SendHash(transport.TrackerRank, transport.TagRegister, h)
		}
	}
}

func (s *Supervisor) awaitAck() {
	s.ep.RecvKeyword(transport.TrackerRank, transport.TagRegister)
}

// receiveBroadcast reads Phase 2's full registry replication and builds the
// downloader's private tracker_view.
func (s *Supervisor) receiveBroadcast() map[string]*swarmfile.FileRecord {
	view := make(map[string]*swarmfile.FileRecord)
	count, _ := s.ep.RecvInt(transport.TrackerRank, transport.TagBroadcast)
	for i := 0; i < count; i++ {
		name, _ := s.ep.RecvFileName(transport.TrackerRank, transport.TagBroadcast)
		segCount, _ := s.ep.RecvInt(transport.TrackerRank, transport.TagBroadcast)
		hashes := make([]transport.Hash, segCount)
		for j := 0; j < segCount; j++ {
			hashes[j], _ = s.ep.RecvHash(transport.TrackerRank, transport.TagBroadcast)
		}
		swarmSize, _ := s.ep.RecvInt(transport.TrackerRank, transport.TagBroadcast)
		swarm := make([]transport.Rank, swarmSize)
		for j := 0; j < swarmSize; j++ {
			v, _ := s.ep.RecvInt(transport.TrackerRank, transport.TagBroadcast)
			swarm[j] = transport.Rank(v)
		}
		view[name] = &swarmfile.FileRecord{Name: name, Hashes: hashes, Swarm: swarm}
	}
	return view
}
