package main

import (
	"flag"
	"fmt"
	"os"

	"segmentswarm/internal/sim"
	"segmentswarm/internal/simlog"
	"segmentswarm/internal/snapshot"
	"segmentswarm/internal/transport"
)

func main() {
	peerCount := flag.Int("peers", 2, "number of peer processes (tracker is rank 0)")
	inputDir := flag.String("input", ".", "directory holding in<rank>.txt files")
	outputDir := flag.String("output", "./out", "directory to write client<rank>_<file> outputs")
	snapshotPath := flag.String("snapshot", "", "optional path to write the tracker's final registry (bencode)")
	flag.Parse()

	if *peerCount < 1 {
		fmt.Fprintln(os.Stderr, "❌ peers must be at least 1")
		os.Exit(1)
	}

	logger, runID := simlog.New(os.Stdout)
	runLog := simlog.ForRank(logger, runID, transport.TrackerRank)

	fmt.Println("🔍 STEP 1: Loading peer input files...")
	fmt.Printf("   📁 Input directory: %s\n", *inputDir)
	fmt.Printf("   👥 Peers: %d\n", *peerCount)

	fmt.Println("\n🔍 STEP 2: Preparing output directory...")
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		runLog.WithError(err).Fatal("❌ failed to create output directory")
	}
	fmt.Printf("✅ Output directory ready: %s\n", *outputDir)

	fmt.Println("\n🔍 STEP 3: Running session (tracker + peers)...")
	result, err := sim.Run(sim.Config{
		PeerCount: *peerCount,
		InputDir:  *inputDir,
		OutputDir: *outputDir,
		Logger:    logger,
		RunID:     runID,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ session failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n🎉 Session complete. All peers reported ALL_FILES and shut down cleanly.")
	fmt.Printf("   📄 Acquired files written under: %s\n", *outputDir)

	if *snapshotPath != "" {
		fmt.Println("\n🔍 STEP 4: Writing tracker registry snapshot...")
		f, err := os.Create(*snapshotPath)
		if err != nil {
			runLog.WithError(err).Fatal("❌ failed to create snapshot file")
		}
		defer f.Close()
		if err := snapshot.Dump(f, result.Registry); err != nil {
			runLog.WithError(err).Fatal("❌ failed to write snapshot")
		}
		fmt.Printf("✅ Registry snapshot written to: %s\n", *snapshotPath)
	}
}
