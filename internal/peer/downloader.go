package peer

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"segmentswarm/internal/peerio"
	"segmentswarm/internal/swarmfile"
	"segmentswarm/internal/transport"
)

// refreshEvery is the swarm-refresh cadence from spec.md §4.4: a refresh
// fires before every segment whose acquired-count so far is a multiple of
// this, so the very first segment of a file always triggers one.
const refreshEvery = 10

// Downloader drives acquisition of a peer's wanted files.
type Downloader struct {
	ep     *transport.Endpoint
	self   transport.Rank
	wanted []string
	view   map[string]*swarmfile.FileRecord
	outDir string
	usage  *UsageTracker
	log    *log.Entry

	swarmQueries int
}

// SwarmQueries returns how many SWARM refresh queries this downloader has
// issued so far, for exercising the refresh cadence in tests.
func (d *Downloader) SwarmQueries() int {
	return d.swarmQueries
}

// NewDownloader builds a downloader over the peer's tracker_view snapshot.
// view is private to the downloader: the uploader never touches it.
func NewDownloader(ep *transport.Endpoint, self transport.Rank, wanted []string, view map[string]*swarmfile.FileRecord, outDir string, logger *log.Entry) *Downloader {
	return &Downloader{
		ep:     ep,
		self:   self,
		wanted: wanted,
		view:   view,
		outDir: outDir,
		usage:  NewUsageTracker(),
		log:    logger,
	}
}

// Run processes every wanted file in order, then signals ALL_FILES.
func (d *Downloader) Run() error {
	for _, name := range d.wanted {
		if err := d.downloadFile(name); err != nil {
			return err
		}
	}
	d.ep.SendKeyword(transport.TrackerRank, transport.TagControl, transport.KeywordAllFiles)
	return nil
}

// downloadFile acquires every segment of name in index order, refreshing
// the local swarm view periodically, then emits the output file and the
// ONE_FILE completion signal.
func (d *Downloader) downloadFile(name string) error {
	rec, ok := d.view[name]
	if !ok {
		return fmt.Errorf("peer %d: wanted file %q is unknown to tracker_view", d.self, name)
	}

	swarm := append([]transport.Rank(nil), rec.Swarm...)
	progress := NewFileProgress(rec.SegmentCount())

	for idx, acquired := 0, 0; idx < rec.SegmentCount(); idx, acquired = idx+1, acquired+1 {
		if acquired%refreshEvery == 0 {
			d.refreshSwarm(name, &swarm)
		}
		candidates := d.usage.OrderCandidates(name, swarm, d.self)
		if err := d.downloadSegment(name, rec.Hashes[idx], candidates); err != nil {
			return err
		}
		progress.MarkSegment()
	}

	d.log.WithFields(log.Fields{
		"file":             name,
		"segments_per_sec": progress.SegmentsPerSecond(),
	}).Debug("file acquired")

	if err := peerio.WriteAcquiredFile(d.outDir, d.self, name, rec.Hashes); err != nil {
		d.log.WithError(err).WithField("file", name).Error("writing acquired file")
	}
	d.ep.SendKeyword(transport.TrackerRank, transport.TagControl, transport.KeywordOneFile)
	return nil
}

// refreshSwarm issues a SWARM query to the tracker and merges the returned
// membership into swarm, without duplicates.
func (d *Downloader) refreshSwarm(name string, swarm *[]transport.Rank) {
	d.swarmQueries++
	d.ep.SendKeyword(transport.TrackerRank, transport.TagControl, transport.KeywordSwarm)
	_ = d.ep.SendFileName(transport.TrackerRank, transport.TagSwarm, name)

	size, _ := d.ep.RecvInt(transport.TrackerRank, transport.TagSwarm)
	known := make(map[transport.Rank]bool, len(*swarm))
	for _, r := range *swarm {
		known[r] = true
	}
	for i := 0; i < size; i++ {
		v, _ := d.ep.RecvInt(transport.TrackerRank, transport.TagSwarm)
		member := transport.Rank(v)
		if !known[member] {
			*swarm = append(*swarm, member)
			known[member] = true
		}
	}
}

// downloadSegment probes candidates in order until one ACKs hash. Per
// spec.md §4.4/§7, exhausting every candidate without an ACK is a protocol
// violation: the tracker's swarm guarantees at least one holder.
func (d *Downloader) downloadSegment(file string, hash transport.Hash, candidates []transport.Rank) error {
	for _, candidate := range candidates {
		d.ep.SendKeyword(candidate, transport.TagProbe, transport.KeywordDownload)
		d.ep.SendHash(candidate, transport.TagBroadcast, hash)
		resp, _ := d.ep.RecvKeyword(candidate, transport.TagRegister)
		if resp == transport.KeywordACK {
			d.usage.Record(file, candidate)
			return nil
		}
	}
	return fmt.Errorf("peer %d: no candidate holds a segment of %q the tracker's swarm claims to have", d.self, file)
}
