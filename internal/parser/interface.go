package parser

import (
	"context"
)

// TextExtractor converts document bytes into plain text
type TextExtractor interface {
	// Extract returns the document text with pages in order
	Extract(ctx context.Context, data []byte) (*Extraction, error)
}

// Extraction is the result of a successful text extraction
type Extraction struct {
	Text  string
	Pages int
}
