package peer

import (
	log "github.com/sirupsen/logrus"

	"segmentswarm/internal/transport"
)

// Uploader services incoming segment-availability probes until it receives
// SHUTDOWN. It multiplexes both message kinds off a single wildcard receive
// on tag 5, per spec.md §4.5 and the control-flow note in §9.
type Uploader struct {
	ep    *transport.Endpoint
	owned OwnedSnapshot
	log   *log.Entry
}

// NewUploader builds an uploader over an immutable snapshot of the peer's
// initial ownership.
func NewUploader(ep *transport.Endpoint, owned OwnedSnapshot, logger *log.Entry) *Uploader {
	return &Uploader{ep: ep, owned: owned, log: logger}
}

// Run loops until SHUTDOWN, answering each DOWNLOAD probe with ACK or NACK.
func (u *Uploader) Run() {
	for {
		word, from := u.ep.RecvKeyword(transport.AnyRank, transport.TagProbe)
		switch word {
		case transport.KeywordDownload:
			u.serveProbe(from)
		case transport.KeywordShutdown:
			return
		default:
			u.log.WithField("keyword", word).Error("unknown keyword on probe channel")
			return
		}
	}
}

// serveProbe narrows the follow-up hash receive to from, the sender
// captured from the wildcard receive, so a concurrent probe from another
// peer cannot interleave with this one (spec.md §5).
func (u *Uploader) serveProbe(from transport.Rank) {
	hash, _ := u.ep.RecvHash(from, transport.TagBroadcast)
	if u.owned.Holds(hash) {
		u.ep.SendKeyword(from, transport.TagRegister, transport.KeywordACK)
		return
	}
	u.ep.SendKeyword(from, transport.TagRegister, transport.KeywordNACK)
}
