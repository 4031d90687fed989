package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LegalAnalyzer/internal/domain"
	"LegalAnalyzer/internal/extractor"
	"LegalAnalyzer/internal/logging"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>Lease Agreement</w:t></w:r></w:p>
    <w:p/>
    <w:p>
      <w:r><w:t xml:space="preserve">1. The Tenant shall pay rent </w:t></w:r>
      <w:r><w:rPr><w:b/></w:rPr><w:t>monthly</w:t></w:r>
      <w:r><w:t>.</w:t></w:r>
    </w:p>
    <w:tbl><w:tr><w:tc><w:p><w:r><w:t>Smith &amp; Co</w:t><w:tab/><w:t>Landlord</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
  </w:body>
</w:document>`

func buildDOCX(t *testing.T, parts map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDOCXStrategyReadsParagraphs(t *testing.T) {
	t.Parallel()

	data := buildDOCX(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		documentPart:          documentXML,
	})

	out, err := NewDOCXStrategy().Extract(context.Background(), domain.Document{Name: "lease.docx", Data: data})
	require.NoError(t, err)
	assert.Equal(t, "Lease Agreement\n\n1. The Tenant shall pay rent monthly.\n\nSmith & Co\tLandlord", out.Text)
}

func TestDOCXStrategyRejectsBrokenArchives(t *testing.T) {
	t.Parallel()

	_, err := NewDOCXStrategy().Extract(context.Background(), domain.Document{Name: "x.docx", Data: []byte("not a zip")})
	assert.Error(t, err)

	data := buildDOCX(t, map[string]string{"word/styles.xml": "<w:styles/>"})
	_, err = NewDOCXStrategy().Extract(context.Background(), domain.Document{Name: "x.docx", Data: data})
	assert.ErrorContains(t, err, documentPart)
}

func TestPDFStrategyRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := NewPDFStrategy().Extract(context.Background(), domain.Document{Name: "x.pdf", Data: []byte("%PDF-1.4 broken")})
	assert.Error(t, err)
}

func TestStrategySourceEstimatesPages(t *testing.T) {
	t.Parallel()

	src := NewStrategySource(NewDefaultRegistry(), logging.Discard())
	text := "\ufeff" + strings.Repeat("word ", 1001)

	out, err := src.Extract(context.Background(), domain.Document{Name: "contract.txt", Data: []byte(text)})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Pages)
	assert.False(t, strings.HasPrefix(out.Text, "\ufeff"))
}

func TestStrategySourceResolvesByContentType(t *testing.T) {
	t.Parallel()

	src := NewStrategySource(NewDefaultRegistry(), logging.Discard())
	out, err := src.Extract(context.Background(), domain.Document{ContentType: "text/plain; charset=utf-8", Data: []byte("Pay rent.\r\n")})
	require.NoError(t, err)
	assert.Equal(t, "Pay rent.", out.Text)
	assert.Equal(t, 1, out.Pages)
}

func TestStrategySourceErrors(t *testing.T) {
	t.Parallel()

	src := NewStrategySource(NewDefaultRegistry(), logging.Discard())

	_, err := src.Extract(context.Background(), domain.Document{Name: "photo.png", Data: []byte{1, 2, 3}})
	assert.ErrorContains(t, err, "not supported")

	_, err = src.Extract(context.Background(), domain.Document{Name: "blank.txt", Data: []byte(" \n\n ")})
	assert.True(t, errors.Is(err, extractor.ErrEmptyDocument))

	_, err = NewStrategySource(nil, nil).Extract(context.Background(), domain.Document{Name: "a.txt"})
	assert.Error(t, err)
}

func TestRegistryFormats(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"docx", "md", "pdf", "text", "txt"}, NewDefaultRegistry().Formats())
}
