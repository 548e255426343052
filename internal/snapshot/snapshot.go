// Package snapshot serializes a tracker registry to bencode, the same
// encoding BitTorrent trackers use for their own metadata, so a run's final
// state can be persisted and diffed independently of the live session.
package snapshot

import (
	"io"

	"github.com/jackpal/bencode-go"

	"segmentswarm/internal/swarmfile"
	"segmentswarm/internal/transport"
)

// wireFile is the bencode-tagged shape of one file record on the wire.
// Hash bytes travel as raw strings; bencode strings are length-prefixed
// byte sequences, so the fixed 32-byte payload round-trips without escaping.
type wireFile struct {
	Name   string   `bencode:"name"`
	Hashes []string `bencode:"hashes"`
	Swarm  []int    `bencode:"swarm"`
}

type wireRegistry struct {
	Files []wireFile `bencode:"files"`
}

// Dump encodes reg's current state to w.
func Dump(w io.Writer, reg *swarmfile.Registry) error {
	wire := wireRegistry{}
	for _, name := range reg.Names() {
		rec, _ := reg.Get(name)
		wf := wireFile{Name: rec.Name}
		for _, h := range rec.Hashes {
			wf.Hashes = append(wf.Hashes, h.String())
		}
		for _, member := range rec.Swarm {
			wf.Swarm = append(wf.Swarm, int(member))
		}
		wire.Files = append(wire.Files, wf)
	}
	return bencode.Marshal(w, wire)
}

// Load decodes a registry previously written by Dump.
func Load(r io.Reader) (*swarmfile.Registry, error) {
	var wire wireRegistry
	if err := bencode.Unmarshal(r, &wire); err != nil {
		return nil, err
	}

	reg := swarmfile.NewRegistry()
	for _, wf := range wire.Files {
		hashes := make([]transport.Hash, 0, len(wf.Hashes))
		for _, s := range wf.Hashes {
			h, err := transport.ParseHash(s)
			if err != nil {
				return nil, err
			}
			hashes = append(hashes, h)
		}
		var owner transport.Rank
		if len(wf.Swarm) > 0 {
			owner = transport.Rank(wf.Swarm[0])
		}
		reg.MergeOwnership(wf.Name, hashes, owner)
		for i := 1; i < len(wf.Swarm); i++ {
			reg.AddSwarmMember(wf.Name, transport.Rank(wf.Swarm[i]))
		}
	}
	return reg, nil
}
