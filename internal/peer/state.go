// Package peer implements the downloader, uploader, and supervisor that run
// on every non-tracker rank.
package peer

import "segmentswarm/internal/transport"

// OwnedSnapshot is the uploader's private, immutable view of the files a
// peer started the session owning. Per spec.md §9, the uploader only ever
// consults the initial ownership set, never segments its sibling downloader
// acquires later; keeping this as a snapshot handed once at startup (rather
// than a pointer into the downloader's live state) makes that choice
// structural instead of accidental.
type OwnedSnapshot struct {
	files map[string][]transport.Hash
}

// NewOwnedSnapshot copies owned so later mutation by the caller cannot leak
// into the snapshot.
func NewOwnedSnapshot(owned map[string][]transport.Hash) OwnedSnapshot {
	files := make(map[string][]transport.Hash, len(owned))
	for name, hashes := range owned {
		cp := make([]transport.Hash, len(hashes))
		copy(cp, hashes)
		files[name] = cp
	}
	return OwnedSnapshot{files: files}
}

// Holds reports whether the snapshot contains h, in any file.
func (s OwnedSnapshot) Holds(h transport.Hash) bool {
	for _, hashes := range s.files {
		for _, candidate := range hashes {
			if candidate == h {
				return true
			}
		}
	}
	return false
}
