package domain

import (
	"path/filepath"
	"strings"
)

// Document is an uploaded file awaiting analysis.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
}

// Format returns the lower-cased file extension without the dot, falling back to the content type.
func (d Document) Format() string {
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(d.Name)), "."); ext != "" {
		return ext
	}
	switch ct := strings.ToLower(d.ContentType); {
	case strings.Contains(ct, "pdf"):
		return "pdf"
	case strings.Contains(ct, "wordprocessingml"):
		return "docx"
	case strings.HasPrefix(ct, "text/"):
		return "txt"
	}
	return ""
}

// ExtractedText is the plain text pulled out of a Document.
// Pages is zero when the source format carries no page information.
type ExtractedText struct {
	Text  string
	Pages int
}
