// Package docx normalises Word (.docx) policy documents.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Archive members read by the normaliser.
const (
	documentPart = "word/document.xml"
	corePart     = "docProps/core.xml"
)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns domain.FormatDOCX.
func (n *Normaliser) Format() string {
	return domain.FormatDOCX
}

// Extensions returns the extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".docx"}
}

// Normalise reads the paragraphs of word/document.xml, one per line.
// The title comes from docProps/core.xml when present.
func (n *Normaliser) Normalise(name string, data []byte) (domain.PolicyDocument, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return domain.PolicyDocument{}, domain.InvalidArgument("%s is not a DOCX archive: %v", name, err)
	}

	content, err := readPart(reader, documentPart)
	if err != nil {
		return domain.PolicyDocument{}, err
	}

	title := domain.TitleFromName(name)
	if core, err := readPart(reader, corePart); err == nil && core != nil {
		var props coreXML
		if xml.Unmarshal(core, &props) == nil && strings.TrimSpace(props.Title) != "" {
			title = strings.TrimSpace(props.Title)
		}
	}

	return domain.PolicyDocument{
		Title: title,
		Text:  parseDocumentXML(content),
	}, nil
}

// readPart returns the named member, or nil when the archive lacks it.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return content, nil
	}
	return nil, nil
}

// documentXML is the subset of word/document.xml that carries text.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
		Tables     []table     `xml:"tbl"`
	} `xml:"body"`
}

type table struct {
	Rows []struct {
		Cells []struct {
			Paragraphs []paragraph `xml:"p"`
		} `xml:"tc"`
	} `xml:"tr"`
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

func (p paragraph) text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Text {
			b.WriteString(t.Content)
		}
	}
	return b.String()
}

// parseDocumentXML joins paragraph text with newlines. Table rows follow the
// body paragraphs with cells separated by " | ".
func parseDocumentXML(content []byte) string {
	if content == nil {
		return ""
	}
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return ""
	}

	lines := make([]string, 0, len(doc.Body.Paragraphs))
	for _, para := range doc.Body.Paragraphs {
		lines = append(lines, para.text())
	}
	for _, tbl := range doc.Body.Tables {
		for _, row := range tbl.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				parts := make([]string, 0, len(cell.Paragraphs))
				for _, para := range cell.Paragraphs {
					parts = append(parts, para.text())
				}
				cells = append(cells, strings.TrimSpace(strings.Join(parts, " ")))
			}
			lines = append(lines, strings.Join(cells, " | "))
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// coreXML is the subset of docProps/core.xml that is read.
type coreXML struct {
	Title string `xml:"title"`
}
