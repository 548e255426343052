// Package swarmfile holds the data model both the tracker and every peer
// keep a copy of: named, ordered segment-hash sequences and the swarms that
// hold them.
package swarmfile

import "segmentswarm/internal/transport"

// FileRecord is one file's identity (its ordered hash sequence) together
// with the set of peers known to hold at least one of its segments.
type FileRecord struct {
	Name   string
	Hashes []transport.Hash
	Swarm  []transport.Rank
}

// SegmentCount returns the number of segments currently known for the file.
func (f *FileRecord) SegmentCount() int {
	return len(f.Hashes)
}

// AddHash appends h if not already present, reporting whether it grew the
// record. Order is preserved: hashes are never reordered once appended.
func (f *FileRecord) AddHash(h transport.Hash) bool {
	for _, existing := range f.Hashes {
		if existing == h {
			return false
		}
	}
	f.Hashes = append(f.Hashes, h)
	return true
}

// AddToSwarm adds r to the swarm if absent, reporting whether it was added.
func (f *FileRecord) AddToSwarm(r transport.Rank) bool {
	for _, existing := range f.Swarm {
		if existing == r {
			return false
		}
	}
	f.Swarm = append(f.Swarm, r)
	return true
}

// Clone deep-copies the record so a recipient can mutate its own copy (swarm
// growth during download refreshes) without perturbing the sender's.
func (f *FileRecord) Clone() *FileRecord {
	out := &FileRecord{Name: f.Name}
	out.Hashes = append(out.Hashes, f.Hashes...)
	out.Swarm = append(out.Swarm, f.Swarm...)
	return out
}

// Registry is the tracker's append-only file catalogue. A file name is
// added on first mention and only grows afterward, per the invariant that
// the tracker's view of a file is monotonic for the life of a run. The
// tracker is single-threaded (spec.md §5), so Registry needs no
// synchronization of its own.
type Registry struct {
	order []string
	files map[string]*FileRecord
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{files: make(map[string]*FileRecord)}
}

// MergeOwnership folds a peer's registration for one file into the
// registry: new hashes are appended to the file's hash sequence, and owner
// is added to its swarm. File iteration order after this call reflects
// first-mention order across all registrations processed so far.
func (r *Registry) MergeOwnership(name string, hashes []transport.Hash, owner transport.Rank) {
	rec, ok := r.files[name]
	if !ok {
		rec = &FileRecord{Name: name}
		r.files[name] = rec
		r.order = append(r.order, name)
	}
	for _, h := range hashes {
		rec.AddHash(h)
	}
	rec.AddToSwarm(owner)
}

// AddSwarmMember adds member to name's swarm, returning false if name is
// unknown to the registry (a protocol violation the caller should surface).
func (r *Registry) AddSwarmMember(name string, member transport.Rank) bool {
	rec, ok := r.files[name]
	if !ok {
		return false
	}
	rec.AddToSwarm(member)
	return true
}

// Get returns the file record for name, if known.
func (r *Registry) Get(name string) (*FileRecord, bool) {
	rec, ok := r.files[name]
	return rec, ok
}

// Names returns every known file name in first-mention order. The order is
// stable across calls but, per spec.md §4.2, carries no semantic meaning
// beyond that stability.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of distinct files known to the registry.
func (r *Registry) Len() int {
	return len(r.order)
}
