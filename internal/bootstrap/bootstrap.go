package bootstrap

import (
	"context"
	"fmt"

	"github.com/medscope/textbook-qa/internal/config"
	"github.com/medscope/textbook-qa/internal/core/ports"
	"github.com/medscope/textbook-qa/internal/core/usecase"
	"github.com/medscope/textbook-qa/internal/infrastructure/chunking"
	"github.com/medscope/textbook-qa/internal/infrastructure/embedding/ollama"
	"github.com/medscope/textbook-qa/internal/infrastructure/extractor"
	"github.com/medscope/textbook-qa/internal/infrastructure/extractor/pdftext"
	"github.com/medscope/textbook-qa/internal/infrastructure/extractor/plaintext"
	natsqueue "github.com/medscope/textbook-qa/internal/infrastructure/queue/nats"
	"github.com/medscope/textbook-qa/internal/infrastructure/repository/postgres"
	"github.com/medscope/textbook-qa/internal/infrastructure/resilience"
	"github.com/medscope/textbook-qa/internal/infrastructure/storage/localfs"
	"github.com/medscope/textbook-qa/internal/infrastructure/textnorm"
	"github.com/medscope/textbook-qa/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config

	Queue   ports.MessageQueue
	Repo    ports.DocumentRepository
	Ingest  ports.DocumentIngestor
	Indexer ports.DocumentIndexer
	Answers ports.QuestionService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natsqueue.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	embedder := ollama.NewEmbedder(
		ollama.New(cfg.OllamaURL, cfg.OllamaEmbedModel),
		ollama.EmbedderOptions{
			Dimension: cfg.EmbeddingDimension,
			Executor:  executor,
		},
	)

	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection, qdrant.Options{
		Executor: executor,
	})

	normalizer := textnorm.New()
	chunker := chunking.New(chunking.Config{
		MinSize:          cfg.ChunkMinSize,
		TargetSize:       cfg.ChunkTargetSize,
		MaxSize:          cfg.ChunkMaxSize,
		OverlapSentences: cfg.ChunkOverlapSentences,
	}, chunking.NewHeuristicSplitter())

	pages := extractor.NewRouter(
		pdftext.NewExtractor(storage),
		plaintext.NewExtractor(storage),
	)

	ingest := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	indexer := usecase.NewIndexDocumentUseCase(repo, pages, normalizer, chunker, embedder, vectorDB)
	answers := usecase.NewAnswerUseCase(embedder, vectorDB, usecase.GateConfig{
		Threshold:         cfg.RelevanceThreshold,
		TopK:              cfg.TopK,
		ContextScoreFloor: cfg.ContextScoreFloor,
		BatchParallelism:  cfg.BatchParallelism,
	})

	return &App{
		Config: cfg,

		Queue:   queue,
		Repo:    repo,
		Ingest:  ingest,
		Indexer: indexer,
		Answers: answers,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
