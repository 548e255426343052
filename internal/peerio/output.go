package peerio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"segmentswarm/internal/transport"
)

// WriteAcquiredFile writes one fully-downloaded file's segment hashes to
// client<rank>_<filename> under dir, one hash per line, in segment order.
// This mirrors the reference client's per-file output artifact and lets an
// end-to-end run be checked by diffing against what the file's owner holds.
func WriteAcquiredFile(dir string, rank transport.Rank, name string, hashes []transport.Hash) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("client%d_%s", rank, name))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, h := range hashes {
		if _, err := fmt.Fprintln(w, h.String()); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return w.Flush()
}
