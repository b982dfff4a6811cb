package extractor

import (
	"context"
	"testing"

	"github.com/medscope/textbook-qa/internal/core/domain"
)

type markerExtractor struct {
	marker string
}

func (m *markerExtractor) ExtractPages(context.Context, *domain.Document) ([]string, error) {
	return []string{m.marker}, nil
}

func TestRouterDispatchesByMimeType(t *testing.T) {
	router := NewRouter(&markerExtractor{marker: "pdf"}, &markerExtractor{marker: "text"})

	cases := []struct {
		name string
		doc  *domain.Document
		want string
	}{
		{"pdf mime", &domain.Document{MimeType: "application/pdf", Filename: "a.bin"}, "pdf"},
		{"pdf extension", &domain.Document{MimeType: "application/octet-stream", Filename: "gray.PDF"}, "pdf"},
		{"plain text", &domain.Document{MimeType: "text/plain", Filename: "notes.txt"}, "text"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pages, err := router.ExtractPages(context.Background(), tc.doc)
			if err != nil {
				t.Fatalf("ExtractPages: %v", err)
			}
			if len(pages) != 1 || pages[0] != tc.want {
				t.Errorf("pages = %v, want [%s]", pages, tc.want)
			}
		})
	}
}
