package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memrag-cli/internal/chunker"
)

const documentXMLTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph of the manual.</w:t></w:r></w:p>
    <w:p><w:r><w:t></w:t></w:r></w:p>
    <w:p><w:r><w:t>Second paragraph with </w:t></w:r><w:r><w:t>two runs.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func writeDocx(t *testing.T, name, documentXML string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestExtensions(t *testing.T) {
	l := New(chunker.New())
	assert.Equal(t, []string{".docx"}, l.Extensions())
}

func TestLoad_ExtractsParagraphs(t *testing.T) {
	path := writeDocx(t, "manual.docx", documentXMLTemplate)
	l := New(chunker.New(chunker.WithChunkSize(500), chunker.WithOverlap(50)))

	docs, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "First paragraph of the manual.\n\nSecond paragraph with two runs.", doc.Content)
	assert.Equal(t, "manual (Part 1/1)", doc.Title)
	assert.Equal(t, "mv2://docs/manual.docx#chunk-1", doc.URI)
	assert.Equal(t, "docx", doc.Tags["type"])
	assert.Equal(t, "1", doc.Tags["chunk"])
	assert.Equal(t, "1", doc.Tags["total_chunks"])
}

func TestLoad_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0o600))

	l := New(chunker.New())
	_, err := l.Load(context.Background(), path)
	assert.Error(t, err)
}

func TestLoad_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "hollow.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	l := New(chunker.New())
	docs, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
