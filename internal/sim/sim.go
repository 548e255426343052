// Package sim wires a transport.Bus, a tracker.Tracker, and one
// peer.Supervisor per rank into a single runnable session, the assembly
// point both the CLI and integration tests drive a full run through.
package sim

import (
	"fmt"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"

	"segmentswarm/internal/peer"
	"segmentswarm/internal/peerio"
	"segmentswarm/internal/simlog"
	"segmentswarm/internal/swarmfile"
	"segmentswarm/internal/tracker"
	"segmentswarm/internal/transport"
)

// Config describes one session: how many peers participate, where their
// in<rank>.txt files live, and where acquired files should be written.
type Config struct {
	PeerCount int
	InputDir  string
	OutputDir string
	Logger    *log.Logger
	RunID     string
}

// Result reports each participant's outcome so callers can assert on a
// specific rank's failure without guessing which error is whose, plus the
// tracker's final registry for callers that want to persist it.
type Result struct {
	TrackerErr error
	PeerErrs   map[transport.Rank]error
	Registry   *swarmfile.Registry
}

// Run executes one full session to completion: registration, broadcast,
// concurrent download/upload on every peer, and tracker-driven shutdown.
func Run(cfg Config) (*Result, error) {
	bus := transport.NewBus(cfg.PeerCount + 1)

	inputs := make(map[transport.Rank]*peerio.Input, cfg.PeerCount)
	for rank := 1; rank <= cfg.PeerCount; rank++ {
		path := filepath.Join(cfg.InputDir, fmt.Sprintf("in%d.txt", rank))
		in, err := peerio.ParseInputFile(path)
		if err != nil {
			return nil, fmt.Errorf("peer %d: %w", rank, err)
		}
		inputs[transport.Rank(rank)] = in
	}

	result := &Result{PeerErrs: make(map[transport.Rank]error, cfg.PeerCount)}
	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		trackerLog := simlog.ForRank(cfg.Logger, cfg.RunID, transport.TrackerRank)
		tr := tracker.New(bus.Endpoint(transport.TrackerRank), cfg.PeerCount, trackerLog)
		err := tr.Run()
		mu.Lock()
		result.TrackerErr = err
		result.Registry = tr.Registry()
		mu.Unlock()
	}()

	for rank := 1; rank <= cfg.PeerCount; rank++ {
		rank := transport.Rank(rank)
		wg.Add(1)
		go func() {
			defer wg.Done()
			peerLog := simlog.ForRank(cfg.Logger, cfg.RunID, rank)
			sup := peer.NewSupervisor(bus.Endpoint(rank), inputs[rank], cfg.OutputDir, peerLog)
			err := sup.Run()
			mu.Lock()
			result.PeerErrs[rank] = err
			mu.Unlock()
		}()
	}

	wg.Wait()

	if result.TrackerErr != nil {
		return result, fmt.Errorf("tracker: %w", result.TrackerErr)
	}
	for rank, err := range result.PeerErrs {
		if err != nil {
			return result, fmt.Errorf("peer %d: %w", rank, err)
		}
	}
	return result, nil
}
