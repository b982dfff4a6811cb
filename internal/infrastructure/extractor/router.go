package extractor

import (
	"context"
	"strings"

	"github.com/medscope/textbook-qa/internal/core/domain"
	"github.com/medscope/textbook-qa/internal/core/ports"
)

// Router dispatches extraction by document mime type. PDFs go to the PDF
// extractor, everything else is treated as plain text.
type Router struct {
	pdf       ports.PageExtractor
	plaintext ports.PageExtractor
}

func NewRouter(pdf, plaintext ports.PageExtractor) *Router {
	return &Router{pdf: pdf, plaintext: plaintext}
}

func (r *Router) ExtractPages(ctx context.Context, doc *domain.Document) ([]string, error) {
	if isPDF(doc) {
		return r.pdf.ExtractPages(ctx, doc)
	}
	return r.plaintext.ExtractPages(ctx, doc)
}

func isPDF(doc *domain.Document) bool {
	if strings.EqualFold(doc.MimeType, "application/pdf") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(doc.Filename), ".pdf")
}
