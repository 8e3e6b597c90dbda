package extraction

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// FitzExtractor reads the text layer of PDF documents through MuPDF.
type FitzExtractor struct{}

// NewFitzExtractor creates a new FitzExtractor
func NewFitzExtractor() *FitzExtractor {
	return &FitzExtractor{}
}

// ExtractText joins the text of all pages. Documents that cannot be
// opened or contain no text at all are reported as unreadable.
func (e *FitzExtractor) ExtractText(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening document: %v", ErrUnreadableDocument, err)
	}
	defer doc.Close()

	var b strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("%w: reading page %d: %v", ErrUnreadableDocument, n, err)
		}
		b.WriteString(text)
	}

	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("%w: no text layer", ErrUnreadableDocument)
	}
	return b.String(), nil
}
