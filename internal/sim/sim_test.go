package sim

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

func writeInput(t *testing.T, dir string, rank int, contents string) {
	t.Helper()
	path := filepath.Join(dir, fmt.Sprintf("in%d.txt", rank))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func readOutput(t *testing.T, dir string, rank int, name string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf("client%d_%s", rank, name)))
	require.NoError(t, err)
	return splitLines(string(data))
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

var (
	h1 = strings.Repeat("1", 32)
	h2 = strings.Repeat("2", 32)
	h3 = strings.Repeat("3", 32)
	h4 = strings.Repeat("4", 32)
	h5 = strings.Repeat("5", 32)
)

func TestTwoPeersDisjointOwnershipSingleFile(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	writeInput(t, inDir, 1, fmt.Sprintf("1\nF 3\n%s\n%s\n%s\n0\n", h1, h2, h3))
	writeInput(t, inDir, 2, "0\n1\nF\n")

	_, err := Run(Config{PeerCount: 2, InputDir: inDir, OutputDir: outDir, Logger: testLogger(), RunID: "t1"})
	require.NoError(t, err)

	require.Equal(t, []string{h1, h2, h3}, readOutput(t, outDir, 2, "F"))
}

func TestThreePeersTwoFilesCrossRoles(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	writeInput(t, inDir, 1, fmt.Sprintf("1\nA 3\n%s\n%s\n%s\n1\nB\n", h1, h2, h3))
	writeInput(t, inDir, 2, fmt.Sprintf("1\nB 2\n%s\n%s\n1\nA\n", h4, h5))
	writeInput(t, inDir, 3, "0\n2\nA\nB\n")

	_, err := Run(Config{PeerCount: 3, InputDir: inDir, OutputDir: outDir, Logger: testLogger(), RunID: "t2"})
	require.NoError(t, err)

	require.Equal(t, []string{h4, h5}, readOutput(t, outDir, 1, "B"))
	require.Equal(t, []string{h1, h2, h3}, readOutput(t, outDir, 3, "A"))
	require.Equal(t, []string{h4, h5}, readOutput(t, outDir, 3, "B"))
}

func TestPartialOwnershipStitch(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	writeInput(t, inDir, 1, fmt.Sprintf("1\nZ 2\n%s\n%s\n0\n", h1, h2))
	writeInput(t, inDir, 2, fmt.Sprintf("1\nZ 3\n%s\n%s\n%s\n0\n", h3, h4, h5))
	writeInput(t, inDir, 3, "0\n1\nZ\n")

	_, err := Run(Config{PeerCount: 3, InputDir: inDir, OutputDir: outDir, Logger: testLogger(), RunID: "t3"})
	require.NoError(t, err)

	require.Equal(t, []string{h1, h2, h3, h4, h5}, readOutput(t, outDir, 3, "Z"))
}

func TestZeroWantedFilesWritesNoOutput(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	writeInput(t, inDir, 1, fmt.Sprintf("1\nF 1\n%s\n0\n", h1))
	writeInput(t, inDir, 2, "0\n0\n")

	_, err := Run(Config{PeerCount: 2, InputDir: inDir, OutputDir: outDir, Logger: testLogger(), RunID: "t4"})
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(outDir, "client2_F"))
	require.True(t, os.IsNotExist(statErr))
}
