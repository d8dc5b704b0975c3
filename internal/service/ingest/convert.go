package ingest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/sandevgo/studybuddy/pkg/conv"
)

// Runs of ASCII and Unicode whitespace, including NBSP and vertical tab.
var whitespace = regexp.MustCompile(`[\s\p{Z}\v\x{85}\x{1c}-\x{1f}]+`)

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Convert reads the file at path and renders it as a markdown document
// headed by its file name.
func Convert(path string) (string, error) {
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}

	var body string
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		body, err = pdfToMarkdown(data)
	case ".html", ".htm":
		body, err = conv.HTMLToText(readText(data))
	default:
		body = readText(data)
	}
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", name, err)
	}

	return fmt.Sprintf("# %s\n\n%s", name, body), nil
}

// pdfToMarkdown emits one "## Page N" section per page with text. Page
// numbers count every page, empty ones included.
func pdfToMarkdown(content []byte) (out string, err error) {
	// The pdf package panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("parse PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}

	var buf strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(&buf, "## Page %d\n\n%s\n\n", i, collapseWhitespace(text))
	}
	return buf.String(), nil
}

// readText drops invalid UTF-8 and turns CRLF and lone CR line endings into LF.
func readText(data []byte) string {
	return newlines.Replace(strings.ToValidUTF8(string(data), ""))
}

func collapseWhitespace(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}
