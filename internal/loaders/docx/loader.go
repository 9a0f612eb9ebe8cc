// Package docx loads Word documents by extracting paragraph text from the
// OOXML archive.
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/memrag-cli/internal/chunker"
	"github.com/custodia-labs/memrag-cli/internal/core/domain"
	"github.com/custodia-labs/memrag-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader handles DOCX documents.
type Loader struct {
	splitter *chunker.Splitter
}

// New creates a new DOCX loader.
func New(splitter *chunker.Splitter) *Loader {
	return &Loader{splitter: splitter}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".docx"}
}

// Load extracts paragraph text from word/document.xml, joins paragraphs
// with blank lines and chunks the result.
func (l *Loader) Load(_ context.Context, path string) ([]domain.Document, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening DOCX %s: %w", path, err)
	}
	defer reader.Close()

	content, err := extractDocumentText(&reader.Reader)
	if err != nil {
		return nil, fmt.Errorf("extracting text from %s: %w", path, err)
	}

	chunks := l.splitter.Split(content)

	filename := filepath.Base(path)
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))

	docs := make([]domain.Document, 0, len(chunks))
	for i, chunk := range chunks {
		docs = append(docs, domain.Document{
			ID:         uuid.New().String(),
			Content:    chunk,
			Title:      fmt.Sprintf("%s (Part %d/%d)", stem, i+1, len(chunks)),
			URI:        fmt.Sprintf("mv2://docs/%s#chunk-%d", filename, i+1),
			SourceFile: path,
			Tags: map[string]string{
				"type":         "docx",
				"chunk":        strconv.Itoa(i + 1),
				"total_chunks": strconv.Itoa(len(chunks)),
			},
		})
	}

	return docs, nil
}

// extractDocumentText extracts paragraph text from word/document.xml.
func extractDocumentText(reader *zip.Reader) (string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", domain.ErrInvalidInput
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", domain.ErrInvalidInput
		}

		return parseDocumentXML(content), nil
	}
	return "", nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML joins non-empty paragraphs with blank lines.
func parseDocumentXML(content []byte) string {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return ""
	}

	var paras []string
	for _, para := range doc.Body.Paragraphs {
		var b strings.Builder
		for _, r := range para.Runs {
			for _, text := range r.Text {
				b.WriteString(text.Content)
			}
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			paras = append(paras, s)
		}
	}

	return strings.Join(paras, "\n\n")
}
