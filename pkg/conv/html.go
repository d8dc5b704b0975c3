package conv

import (
	"fmt"
	"strings"

	"github.com/inbucket/html2text"
)

// HTMLToText flattens an HTML document into readable text, keeping link targets.
func HTMLToText(doc string) (string, error) {
	text, err := html2text.FromString(doc, html2text.Options{
		OmitLinks:    false,
		PrettyTables: true,
	})
	if err != nil {
		return "", fmt.Errorf("html to text: %w", err)
	}
	return strings.TrimSpace(text), nil
}
