package extraction

import "errors"

// ErrUnreadableDocument marks a file with no extractable text layer:
// a corrupt PDF or a scanned image without text. Such files go straight
// to the error location without entering classification.
var ErrUnreadableDocument = errors.New("unreadable document")

// TextExtractor defines the interface for the PDF text acquisition
// boundary
type TextExtractor interface {
	// ExtractText returns the document's plain text layer, or an error
	// wrapping ErrUnreadableDocument when there is none
	ExtractText(path string) (string, error)
}
