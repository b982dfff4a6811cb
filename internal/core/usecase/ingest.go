package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medscope/textbook-qa/internal/core/domain"
	"github.com/medscope/textbook-qa/internal/core/ports"
)

// IngestDocumentUseCase accepts a corpus document, stores the raw bytes,
// registers it and hands the index build off to the worker via the queue.
type IngestDocumentUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewIngestDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	filename, mimeType string,
	body io.Reader,
) (*domain.Document, error) {
	name := safeFilename(filename)
	if name == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", errors.New("filename is required"))
	}
	if strings.TrimSpace(mimeType) == "" {
		mimeType = guessMimeType(name)
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:        uuid.NewString(),
		Filename:  filename,
		MimeType:  mimeType,
		Status:    domain.StatusUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}
	doc.StoragePath = path.Join("documents", doc.ID, name)

	if err := uc.storage.Save(ctx, doc.StoragePath, body); err != nil {
		return nil, fmt.Errorf("store document bytes: %w", err)
	}
	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("register document: %w", err)
	}
	if err := uc.queue.PublishDocumentIngested(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish index build event: %w", err)
	}

	slog.Info("document_ingested",
		"document_id", doc.ID,
		"filename", name,
		"mime_type", mimeType,
	)
	return doc, nil
}

// safeFilename reduces an upload name to a storage-safe base name. An empty
// result means the name carried nothing usable.
func safeFilename(name string) string {
	base := filepath.Base(strings.TrimSpace(name))

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := b.String()
	if strings.Trim(out, "._-") == "" {
		return ""
	}
	return out
}

func guessMimeType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
