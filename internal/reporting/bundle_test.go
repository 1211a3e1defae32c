package reporting

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

func TestWriteBundleRoundTrip(t *testing.T) {
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "summary.json"), []byte(`{"tool":"adbsmoke"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "logcat.txt"), []byte("log lines\n"), 0o644))

	bundle := filepath.Join(t.TempDir(), "artifacts.tar.zst")
	require.NoError(t, WriteBundle(outDir, bundle))

	names, contents := readBundle(t, bundle)
	sort.Strings(names)
	require.Equal(t, []string{"logcat.txt", "summary.json"}, names)
	require.Equal(t, []byte(`{"tool":"adbsmoke"}`), contents["summary.json"])
}

func TestWriteBundleExcludesItself(t *testing.T) {
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "summary.json"), []byte("{}"), 0o644))

	// Bundle written into the directory being archived.
	bundle := filepath.Join(outDir, "artifacts.tar.zst")
	require.NoError(t, WriteBundle(outDir, bundle))

	names, _ := readBundle(t, bundle)
	require.Equal(t, []string{"summary.json"}, names)
}

func readBundle(t *testing.T, path string) ([]string, map[string][]byte) {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	zr, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	contents := map[string][]byte{}
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		names = append(names, hdr.Name)
		contents[hdr.Name] = data
	}
	return names, contents
}
