package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/medscope/textbook-qa/internal/core/domain"
)

type ingestRepoFake struct {
	created *domain.Document
	err     error
}

func (f *ingestRepoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.err != nil {
		return f.err
	}
	copyDoc := *doc
	f.created = &copyDoc
	return nil
}

func (f *ingestRepoFake) GetByID(context.Context, string) (*domain.Document, error) {
	return nil, errors.New("not implemented")
}
func (f *ingestRepoFake) UpdateStatus(context.Context, string, domain.DocumentStatus, string) error {
	return errors.New("not implemented")
}
func (f *ingestRepoFake) SaveIndexSummary(context.Context, string, domain.IndexSummary) error {
	return errors.New("not implemented")
}

type ingestStorageFake struct {
	savedKey  string
	savedBody string
	err       error
}

func (f *ingestStorageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.err != nil {
		return f.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.savedKey = key
	f.savedBody = string(raw)
	return nil
}

func (f *ingestStorageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

type ingestQueueFake struct {
	published []string
	err       error
}

func (f *ingestQueueFake) PublishDocumentIngested(_ context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *ingestQueueFake) SubscribeDocumentIngested(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

func TestUploadStoresRecordsAndPublishes(t *testing.T) {
	repo := &ingestRepoFake{}
	storage := &ingestStorageFake{}
	queue := &ingestQueueFake{}
	uc := NewIngestDocumentUseCase(repo, storage, queue)

	doc, err := uc.Upload(context.Background(), "gray's anatomy.pdf", "application/pdf", bytes.NewBufferString("%PDF-"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.Status != domain.StatusUploaded {
		t.Fatalf("expected uploaded status, got %s", doc.Status)
	}
	if storage.savedBody != "%PDF-" {
		t.Fatalf("expected body stored, got %q", storage.savedBody)
	}
	if !strings.HasSuffix(storage.savedKey, "gray_s_anatomy.pdf") {
		t.Fatalf("filename not sanitized in storage key: %q", storage.savedKey)
	}
	if !strings.HasPrefix(storage.savedKey, "documents/"+doc.ID+"/") {
		t.Fatalf("storage key not scoped to document: %q", storage.savedKey)
	}
	if doc.StoragePath != storage.savedKey {
		t.Fatalf("StoragePath %q does not match stored key %q", doc.StoragePath, storage.savedKey)
	}
	if repo.created == nil || repo.created.ID != doc.ID {
		t.Fatalf("document record not created")
	}
	if len(queue.published) != 1 || queue.published[0] != doc.ID {
		t.Fatalf("index build event not published: %v", queue.published)
	}
}

func TestUploadRejectsUnusableFilename(t *testing.T) {
	uc := NewIngestDocumentUseCase(&ingestRepoFake{}, &ingestStorageFake{}, &ingestQueueFake{})

	for _, name := range []string{"", "   ", "..", "///"} {
		_, err := uc.Upload(context.Background(), name, "application/pdf", bytes.NewBufferString("x"))
		if !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("Upload(%q) error = %v, want invalid input", name, err)
		}
	}
}

func TestUploadGuessesMissingMimeType(t *testing.T) {
	repo := &ingestRepoFake{}
	uc := NewIngestDocumentUseCase(repo, &ingestStorageFake{}, &ingestQueueFake{})

	doc, err := uc.Upload(context.Background(), "notes.txt", "", bytes.NewBufferString("osmosis"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !strings.HasPrefix(doc.MimeType, "text/plain") {
		t.Fatalf("expected text/plain mime type, got %q", doc.MimeType)
	}
}

func TestUploadQueueFailureSurfaces(t *testing.T) {
	uc := NewIngestDocumentUseCase(&ingestRepoFake{}, &ingestStorageFake{}, &ingestQueueFake{err: errors.New("nats down")})
	if _, err := uc.Upload(context.Background(), "a.pdf", "application/pdf", bytes.NewBufferString("x")); err == nil {
		t.Fatalf("expected error")
	}
}
