package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/medscope/textbook-qa/internal/core/domain"
	"github.com/medscope/textbook-qa/internal/core/ports"
)

// IndexDocumentUseCase runs the offline indexing pipeline for one stored
// document: extract pages, normalize, chunk, embed, upsert, record stats.
type IndexDocumentUseCase struct {
	repo       ports.DocumentRepository
	extractor  ports.PageExtractor
	normalizer ports.Normalizer
	chunker    ports.Chunker
	embedder   ports.Embedder
	vectorDB   ports.VectorStore
}

func NewIndexDocumentUseCase(
	repo ports.DocumentRepository,
	extractor ports.PageExtractor,
	normalizer ports.Normalizer,
	chunker ports.Chunker,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
) *IndexDocumentUseCase {
	return &IndexDocumentUseCase{
		repo:       repo,
		extractor:  extractor,
		normalizer: normalizer,
		chunker:    chunker,
		embedder:   embedder,
		vectorDB:   vectorDB,
	}
}

func (uc *IndexDocumentUseCase) IndexByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusIndexing, ""); err != nil {
		return fmt.Errorf("set status=indexing: %w", err)
	}

	doc, summary, err := uc.buildIndex(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveIndexSummary(ctx, doc.ID, summary); err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("save index summary: %w; mark failed status: %v", err, failErr)
		}
		return fmt.Errorf("save index summary: %w", err)
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *IndexDocumentUseCase) buildIndex(ctx context.Context, documentID string) (*domain.Document, domain.IndexSummary, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, domain.IndexSummary{}, fmt.Errorf("fetch document by id: %w", err)
	}

	pages, err := uc.extractor.ExtractPages(ctx, doc)
	if err != nil {
		return nil, domain.IndexSummary{}, fmt.Errorf("extract pages: %w", err)
	}

	text := uc.normalizer.Normalize(pages)
	if text == "" {
		return nil, domain.IndexSummary{}, domain.WrapError(domain.ErrInvalidInput, "normalize text", errors.New("document yielded no text"))
	}

	chunks := uc.chunker.Chunk(text)
	if len(chunks) == 0 {
		return nil, domain.IndexSummary{}, domain.WrapError(domain.ErrInvalidInput, "chunk text", errors.New("chunking produced zero chunks"))
	}
	for i := range chunks {
		chunks[i].DocumentID = doc.ID
		chunks[i].ID = fmt.Sprintf("%s:%d", doc.ID, chunks[i].Index)
	}

	vectors, err := uc.embedChunks(ctx, chunks)
	if err != nil {
		return nil, domain.IndexSummary{}, err
	}

	if err := uc.vectorDB.IndexChunks(ctx, doc, chunks, vectors); err != nil {
		return nil, domain.IndexSummary{}, fmt.Errorf("index chunks in vector db: %w", err)
	}

	return doc, summarize(len(pages), chunks), nil
}

func (uc *IndexDocumentUseCase) embedChunks(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)),
		)
	}
	return vectors, nil
}

func summarize(pageCount int, chunks []domain.Chunk) domain.IndexSummary {
	summary := domain.IndexSummary{
		PageCount:  pageCount,
		ChunkCount: len(chunks),
		WordMin:    chunks[0].WordCount,
		WordMax:    chunks[0].WordCount,
	}
	for _, chunk := range chunks {
		summary.WordTotal += chunk.WordCount
		if chunk.WordCount < summary.WordMin {
			summary.WordMin = chunk.WordCount
		}
		if chunk.WordCount > summary.WordMax {
			summary.WordMax = chunk.WordCount
		}
	}
	summary.WordMean = float64(summary.WordTotal) / float64(len(chunks))
	return summary
}

func (uc *IndexDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *IndexDocumentUseCase) markFailed(ctx context.Context, documentID string, indexErr error) error {
	if indexErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, indexErr.Error())
}
