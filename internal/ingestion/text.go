// Package ingestion prepares uploaded documents for insight extraction.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxUploadChars is the upstream cap applied to uploaded document text before
// it reaches the letter pipeline.
const MaxUploadChars = 20000

var (
	inlineSpace     = regexp.MustCompile(`[ \t\f\v]+`)
	excessiveBlanks = regexp.MustCompile(`\n\n\n+`)
)

// CleanDocument normalises line endings, collapses runs of spaces within each
// line and limits blank lines to one between paragraphs.
func CleanDocument(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
	}

	result := excessiveBlanks.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// TruncateUpload cuts content to MaxUploadChars characters and reports
// whether anything was dropped.
func TruncateUpload(content string) (string, bool) {
	count := 0
	for i := range content {
		if count == MaxUploadChars {
			return content[:i], true
		}
		count++
	}
	return content, false
}

// FromHTML extracts readable text from an HTML document, dropping scripts,
// styles and page chrome.
func FromHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", &DocumentError{Message: "failed to parse HTML", Cause: err}
	}

	doc.Find("script, style, noscript, nav, footer, header, iframe").Remove()

	// block elements end with a newline so paragraphs stay apart
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, br, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	content := doc.Find("body")
	if content.Length() == 0 {
		content = doc.Selection
	}
	return CleanDocument(content.Text()), nil
}

// IsHTML reports whether content looks like markup rather than plain text.
func IsHTML(content string) bool {
	head := strings.ToLower(strings.TrimSpace(content))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<body") || strings.Contains(head, "<p>")
}

// Prepare turns raw uploaded content into cleaned, size-capped text.
func Prepare(raw string) (string, *Metadata, error) {
	text := raw
	source := SourceText
	if IsHTML(raw) {
		var err error
		text, err = FromHTML(raw)
		if err != nil {
			return "", nil, err
		}
		source = SourceHTML
	}

	text = CleanDocument(text)
	text, truncated := TruncateUpload(text)
	return text, NewMetadata(raw, text, source, truncated), nil
}

// LoadFile reads an uploaded document from disk and prepares it. Files with an
// .html or .htm extension are always parsed as HTML.
func LoadFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, &DocumentError{Message: fmt.Sprintf("file not found: %s", path), Cause: err}
		}
		return "", nil, &DocumentError{Message: "failed to read file", Cause: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err := FromHTML(string(content))
		if err != nil {
			return "", nil, err
		}
		text, truncated := TruncateUpload(text)
		return text, NewMetadata(string(content), text, SourceHTML, truncated), nil
	default:
		return Prepare(string(content))
	}
}

// DocumentError reports an uploaded document that could not be read.
type DocumentError struct {
	Message string
	Cause   error
}

func (e *DocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("document error: %s", e.Message)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}
