// Package simlog sets up structured logging shared by the tracker and
// every peer in a run.
package simlog

import (
	"os"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"segmentswarm/internal/transport"
)

// New builds a logger writing structured text fields to out, tagged with a
// fresh run identifier so log lines from concurrent ranks in the same
// process can be told apart.
func New(out *os.File) (*log.Logger, string) {
	logger := log.New()
	logger.SetOutput(out)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return logger, uuid.NewString()
}

// ForRank returns a logger entry scoped to one rank within a run.
func ForRank(logger *log.Logger, runID string, rank transport.Rank) *log.Entry {
	role := "peer"
	if rank == transport.TrackerRank {
		role = "tracker"
	}
	return logger.WithFields(log.Fields{
		"run":  runID,
		"rank": int(rank),
		"role": role,
	})
}
