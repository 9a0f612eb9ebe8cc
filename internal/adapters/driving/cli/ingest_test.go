package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetIngestFlags() {
	ingestInput = ""
	ingestOutput = ""
	ingestChunkSize = 0
	ingestOverlap = 0
	ingestForce = false
	ingestWatch = false
	ingestCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
}

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest", ingestCmd.Use)
}

func TestIngestCmd_RequiresInputFlag(t *testing.T) {
	setupTestServices(t)
	defer resetIngestFlags()

	_, err := execute(t, "ingest")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "input")
}

func TestIngestCmd_IngestsDirectory(t *testing.T) {
	store := setupTestServices(t)
	defer resetIngestFlags()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guide.md"),
		[]byte("Scale the node pool before upgrading the cluster."), 0600))

	out, err := execute(t, "ingest", "--input", dir)

	require.NoError(t, err)
	assert.Equal(t, 1, store.created)
	require.Len(t, store.docs, 1)
	assert.Equal(t, "mv2://docs/guide.md#chunk-1", store.docs[0].URI)
	assert.Contains(t, out, "Ingested 1 chunks")
}

func TestIngestCmd_MissingInputPath(t *testing.T) {
	setupTestServices(t)
	defer resetIngestFlags()

	_, err := execute(t, "ingest", "--input", filepath.Join(t.TempDir(), "absent"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestIngestCmd_PromptsBeforeOverwrite(t *testing.T) {
	store := setupTestServices(t)
	defer resetIngestFlags()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.md"), []byte("content"), 0600))

	memoryFile := filepath.Join(t.TempDir(), "existing.mv2")
	require.NoError(t, os.WriteFile(memoryFile, []byte("old"), 0600))

	rootCmd.SetIn(strings.NewReader("n\n"))
	out, err := execute(t, "ingest", "--input", dir, "--output", memoryFile)

	require.NoError(t, err)
	assert.Contains(t, out, "Overwrite?")
	assert.Contains(t, out, "Aborted.")
	assert.Zero(t, store.created)
}

func TestIngestCmd_ForceSkipsPrompt(t *testing.T) {
	store := setupTestServices(t)
	defer resetIngestFlags()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.md"), []byte("content"), 0600))

	memoryFile := filepath.Join(t.TempDir(), "existing.mv2")
	require.NoError(t, os.WriteFile(memoryFile, []byte("old"), 0600))

	out, err := execute(t, "ingest", "--input", dir, "--output", memoryFile, "--force")

	require.NoError(t, err)
	assert.NotContains(t, out, "Overwrite?")
	assert.Equal(t, 1, store.created)
}

func TestIngestCmd_CustomChunkSettings(t *testing.T) {
	store := setupTestServices(t)
	defer resetIngestFlags()

	dir := t.TempDir()
	content := strings.Repeat("Sentence about platform operations. ", 20)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "long.md"), []byte(content), 0600))

	_, err := execute(t, "ingest", "--input", dir, "--chunk-size", "120", "--overlap", "20")

	require.NoError(t, err)
	assert.Greater(t, len(store.docs), 1)
}

func TestIngestCmd_EmptyDirectory(t *testing.T) {
	setupTestServices(t)
	defer resetIngestFlags()

	_, err := execute(t, "ingest", "--input", t.TempDir())
	assert.Error(t, err)
}
