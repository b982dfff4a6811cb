package ports

import (
	"context"
	"io"

	"github.com/medscope/textbook-qa/internal/core/domain"
)

// DocumentRepository persists and reads document registry state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveIndexSummary(ctx context.Context, id string, summary domain.IndexSummary) error
}

// ObjectStorage stores uploaded source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes index-build events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// PageExtractor extracts per-page plain text from a stored document.
type PageExtractor interface {
	ExtractPages(ctx context.Context, doc *domain.Document) ([]string, error)
}

// Normalizer turns raw page texts into one cleaned string.
type Normalizer interface {
	Normalize(pages []string) string
}

// Chunker splits normalized text into bounded retrieval units.
type Chunker interface {
	Chunk(text string) []domain.Chunk
}

// Embedder builds vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore indexes chunk vectors and performs semantic search.
type VectorStore interface {
	IndexChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, limit int) ([]domain.Match, error)
}
