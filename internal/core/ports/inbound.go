package ports

import (
	"context"
	"io"

	"github.com/medscope/textbook-qa/internal/core/domain"
)

// DocumentIngestor is the inbound contract for corpus document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentIndexer is the inbound contract for the asynchronous index build.
type DocumentIndexer interface {
	IndexByID(ctx context.Context, documentID string) error
}

// QuestionService is the inbound contract for answering questions against the index.
type QuestionService interface {
	Ask(ctx context.Context, question string) (string, error)
	Query(ctx context.Context, question string, topK int) (*domain.DetailedAnswer, error)
	BatchAsk(ctx context.Context, questions []string) []string
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}
