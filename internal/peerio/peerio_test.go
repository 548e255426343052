package peerio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"segmentswarm/internal/transport"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "in1.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestParseInputFileOwnedAndWanted(t *testing.T) {
	h1 := "abcdefghij0123456789ABCDEFGHIJKL"
	h2 := "0123456789abcdefghijABCDEFGHIJKL"
	path := writeTemp(t, "1\nmovie.mkv 2\n"+h1+"\n"+h2+"\n2\nmusic.mp3\nbook.pdf\n")

	in, err := ParseInputFile(path)
	require.NoError(t, err)
	require.Equal(t, []string{"movie.mkv"}, in.OwnedOrder)
	require.Len(t, in.Owned["movie.mkv"], 2)
	require.Equal(t, []string{"music.mp3", "book.pdf"}, in.Wanted)
}

func TestParseInputFileNoOwnedFiles(t *testing.T) {
	path := writeTemp(t, "0\n1\nwanted.bin\n")
	in, err := ParseInputFile(path)
	require.NoError(t, err)
	require.Empty(t, in.OwnedOrder)
	require.Equal(t, []string{"wanted.bin"}, in.Wanted)
}

func TestParseInputFileRejectsBadHash(t *testing.T) {
	path := writeTemp(t, "1\nfile.bin 1\ntoo-short\n0\n")
	_, err := ParseInputFile(path)
	require.Error(t, err)
}

func TestParseInputFileRejectsTruncatedInput(t *testing.T) {
	path := writeTemp(t, "1\nfile.bin 2\n")
	_, err := ParseInputFile(path)
	require.Error(t, err)
}

func TestWriteAcquiredFile(t *testing.T) {
	dir := t.TempDir()
	h, err := transport.ParseHash("abcdefghij0123456789ABCDEFGHIJKL")
	require.NoError(t, err)

	require.NoError(t, WriteAcquiredFile(dir, transport.Rank(2), "movie.mkv", []transport.Hash{h}))

	data, err := os.ReadFile(filepath.Join(dir, "client2_movie.mkv"))
	require.NoError(t, err)
	require.Equal(t, "abcdefghij0123456789ABCDEFGHIJKL\n", string(data))
}
