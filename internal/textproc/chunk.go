package textproc

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is used when a non-positive budget is requested.
const DefaultChunkSize = 1500

const paragraphSeparator = "\n\n"

var blankLineExpr = regexp.MustCompile(`\r?\n[ \t]*\r?\n`)

// Paragraphs splits text on blank lines and drops empty paragraphs.
func Paragraphs(text string) []string {
	raw := blankLineExpr.Split(strings.ReplaceAll(text, "\r\n", "\n"), -1)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Chunk packs paragraphs into chunks of at most maxChars runes.
// Paragraphs are joined with a blank line; a paragraph longer than maxChars is cut into
// fixed-size slices on its own.
func Chunk(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultChunkSize
	}

	var (
		chunks  []string
		buf     strings.Builder
		bufLen  int
		sepSize = utf8.RuneCountInString(paragraphSeparator)
	)

	flush := func() {
		if bufLen > 0 {
			chunks = append(chunks, buf.String())
			buf.Reset()
			bufLen = 0
		}
	}

	for _, para := range Paragraphs(text) {
		size := utf8.RuneCountInString(para)

		if size > maxChars {
			flush()
			chunks = append(chunks, hardSplit(para, maxChars)...)
			continue
		}

		if bufLen > 0 && bufLen+sepSize+size > maxChars {
			flush()
		}
		if bufLen > 0 {
			buf.WriteString(paragraphSeparator)
			bufLen += sepSize
		}
		buf.WriteString(para)
		bufLen += size
	}
	flush()

	return chunks
}

func hardSplit(para string, maxChars int) []string {
	runes := []rune(para)
	out := make([]string, 0, (len(runes)+maxChars-1)/maxChars)
	for start := 0; start < len(runes); start += maxChars {
		end := min(start+maxChars, len(runes))
		out = append(out, string(runes[start:end]))
	}
	return out
}
