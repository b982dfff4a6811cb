package plaintext

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/medscope/textbook-qa/internal/core/domain"
	"github.com/medscope/textbook-qa/internal/core/ports"
)

// Extractor reads UTF-8 text documents. Form feeds mark page boundaries;
// a document without them is one page.
type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) ExtractPages(ctx context.Context, doc *domain.Document) ([]string, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read source document: %w", err)
	}

	if !utf8.Valid(raw) {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract_plaintext",
			fmt.Errorf("document %s is not valid UTF-8 text", doc.Filename))
	}

	pages := make([]string, 0, 1)
	for _, page := range strings.Split(string(raw), "\f") {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		pages = append(pages, page)
	}
	return pages, nil
}
