// Package peerio is the external interface adapter: parsing a peer's
// initial-state input file and writing its acquired files back out. Both
// formats are plain line/whitespace-delimited text, matching spec.md §6.
package peerio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"segmentswarm/internal/transport"
)

// Input is one peer's parsed in<rank>.txt: the files it starts out owning
// (in declaration order, since that order becomes registration send order)
// and the files it wants.
type Input struct {
	OwnedOrder []string
	Owned      map[string][]transport.Hash
	Wanted     []string
}

// tokenScanner reads whitespace-delimited tokens the way the reference
// implementation's ifstream::operator>> does, including across newlines.
type tokenScanner struct {
	scanner *bufio.Scanner
	path    string
}

func newTokenScanner(path string, r io.Reader) *tokenScanner {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &tokenScanner{scanner: sc, path: path}
}

func (t *tokenScanner) next() (string, error) {
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return "", fmt.Errorf("%s: %w", t.path, err)
		}
		return "", fmt.Errorf("%s: unexpected end of input", t.path)
	}
	return t.scanner.Text(), nil
}

func (t *tokenScanner) nextInt() (int, error) {
	tok, err := t.next()
	if err != nil {
		return 0, err
	}
	var v int
	if _, err := fmt.Sscanf(tok, "%d", &v); err != nil {
		return 0, fmt.Errorf("%s: expected integer, got %q", t.path, tok)
	}
	return v, nil
}

// ParseInputFile reads and validates a peer's in<rank>.txt. Any malformed
// or missing input is a configuration error (spec.md §7): the caller should
// report it to stderr and exit non-zero rather than continue.
func ParseInputFile(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening peer input: %w", err)
	}
	defer f.Close()

	ts := newTokenScanner(path, f)

	ownedCount, err := ts.nextInt()
	if err != nil {
		return nil, err
	}

	in := &Input{
		Owned: make(map[string][]transport.Hash, ownedCount),
	}

	for i := 0; i < ownedCount; i++ {
		name, err := ts.next()
		if err != nil {
			return nil, err
		}
		if len(name) > transport.MaxFileName-1 {
			return nil, fmt.Errorf("%s: file name %q exceeds %d characters", path, name, transport.MaxFileName-1)
		}
		segCount, err := ts.nextInt()
		if err != nil {
			return nil, err
		}
		hashes := make([]transport.Hash, segCount)
		for j := 0; j < segCount; j++ {
			tok, err := ts.next()
			if err != nil {
				return nil, err
			}
			h, err := transport.ParseHash(tok)
			if err != nil {
				return nil, fmt.Errorf("%s: file %q segment %d: %w", path, name, j, err)
			}
			hashes[j] = h
		}
		if _, exists := in.Owned[name]; !exists {
			in.OwnedOrder = append(in.OwnedOrder, name)
		}
		in.Owned[name] = hashes
	}

	wantedCount, err := ts.nextInt()
	if err != nil {
		return nil, err
	}
	in.Wanted = make([]string, wantedCount)
	for i := 0; i < wantedCount; i++ {
		name, err := ts.next()
		if err != nil {
			return nil, err
		}
		in.Wanted[i] = name
	}

	return in, nil
}
