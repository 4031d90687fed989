package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"LegalAnalyzer/internal/domain"
)

const documentPart = "word/document.xml"

// The HTML parser used by goquery does not honour XML self-closing tags, so they are
// expanded before parsing.
var selfClosingExpr = regexp.MustCompile(`<([A-Za-z][\w:.-]*)([^<>]*?)/>`)

// DOCXStrategy reads the paragraphs of a Word document.
type DOCXStrategy struct{}

func NewDOCXStrategy() *DOCXStrategy {
	return &DOCXStrategy{}
}

func (*DOCXStrategy) Name() string { return "docx" }

func (*DOCXStrategy) Formats() []string { return []string{"docx"} }

func (*DOCXStrategy) Extract(_ context.Context, doc domain.Document) (domain.ExtractedText, error) {
	archive, err := zip.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return domain.ExtractedText{}, fmt.Errorf("open docx: %w", err)
	}

	raw, err := readPart(archive, documentPart)
	if err != nil {
		return domain.ExtractedText{}, err
	}

	text, err := paragraphsFromXML(raw)
	if err != nil {
		return domain.ExtractedText{}, err
	}
	return domain.ExtractedText{Text: text}, nil
}

func readPart(archive *zip.Reader, name string) ([]byte, error) {
	for _, f := range archive.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("docx has no %s", name)
}

func paragraphsFromXML(raw []byte) (string, error) {
	expanded := selfClosingExpr.ReplaceAll(raw, []byte("<$1$2></$1>"))
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(expanded))
	if err != nil {
		return "", fmt.Errorf("parse docx xml: %w", err)
	}

	var paragraphs []string
	doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return goquery.NodeName(s) == "w:p"
	}).Each(func(_ int, p *goquery.Selection) {
		var b strings.Builder
		p.Find("*").Each(func(_ int, s *goquery.Selection) {
			switch goquery.NodeName(s) {
			case "w:t":
				b.WriteString(s.Text())
			case "w:tab":
				b.WriteString("\t")
			case "w:br", "w:cr":
				b.WriteString("\n")
			}
		})
		if line := strings.TrimSpace(b.String()); line != "" {
			paragraphs = append(paragraphs, line)
		}
	})

	return strings.Join(paragraphs, "\n\n"), nil
}
