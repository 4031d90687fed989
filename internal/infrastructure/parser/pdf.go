package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"LegalAnalyzer/internal/domain"
)

// PDFStrategy reads the text layer of a PDF. Scanned PDFs without text yield nothing.
type PDFStrategy struct{}

func NewPDFStrategy() *PDFStrategy {
	return &PDFStrategy{}
}

func (*PDFStrategy) Name() string { return "pdf" }

func (*PDFStrategy) Formats() []string { return []string{"pdf"} }

func (*PDFStrategy) Extract(_ context.Context, doc domain.Document) (out domain.ExtractedText, err error) {
	// The reader panics on some malformed cross reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return domain.ExtractedText{}, fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return domain.ExtractedText{}, fmt.Errorf("read pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return domain.ExtractedText{}, fmt.Errorf("read pdf text: %w", err)
	}

	return domain.ExtractedText{Text: buf.String(), Pages: reader.NumPage()}, nil
}
