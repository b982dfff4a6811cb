package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/medscope/textbook-qa/internal/core/domain"
	"github.com/medscope/textbook-qa/internal/core/ports"
)

// GateConfig carries the relevance-gating knobs. ContextScoreFloor is an
// optional stricter per-item floor for supporting context in detailed mode;
// zero includes every returned match once the top match is accepted.
type GateConfig struct {
	Threshold         float64
	TopK              int
	ContextScoreFloor float64
	BatchParallelism  int
}

type AnswerUseCase struct {
	embedder ports.Embedder
	vectorDB ports.VectorStore
	gate     GateConfig
}

func NewAnswerUseCase(embedder ports.Embedder, vectorDB ports.VectorStore, gate GateConfig) *AnswerUseCase {
	if gate.TopK <= 0 {
		gate.TopK = 5
	}
	return &AnswerUseCase{
		embedder: embedder,
		vectorDB: vectorDB,
		gate:     gate,
	}
}

// Evaluate turns a ranked match set into an accept/reject decision.
// Matches are re-sorted descending by score so the decision does not depend
// on the search backend's ordering guarantees. An empty match set scores -1
// and is rejected; low relevance is a decision branch, never an error.
func Evaluate(matches []domain.Match, threshold float64) domain.RelevanceDecision {
	if len(matches) == 0 {
		return domain.RelevanceDecision{
			Accepted:  false,
			BestScore: -1,
		}
	}

	ordered := make([]domain.Match, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	best := ordered[0].Score
	return domain.RelevanceDecision{
		Accepted:  best >= threshold,
		BestScore: best,
		Matches:   ordered,
	}
}

// Ask answers in simple mode: the top match's text annotated with the best
// score and elapsed time, or the fixed rejection message.
func (uc *AnswerUseCase) Ask(ctx context.Context, question string) (string, error) {
	start := time.Now()

	decision, err := uc.retrieve(ctx, question, uc.gate.TopK)
	if err != nil {
		return "", err
	}
	if !decision.Accepted {
		return domain.RejectionMessage, nil
	}

	top := decision.Matches[0]
	return fmt.Sprintf("%s\n\n[score %.2f, %d ms]",
		top.Text, decision.BestScore, time.Since(start).Milliseconds()), nil
}

// Query answers in detailed mode: the top match as the primary answer plus
// up to topK-1 supporting passages, each labeled with its own score.
func (uc *AnswerUseCase) Query(ctx context.Context, question string, topK int) (*domain.DetailedAnswer, error) {
	if topK <= 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "query", fmt.Errorf("top_k must be positive, got %d", topK))
	}
	start := time.Now()

	decision, err := uc.retrieve(ctx, question, topK)
	if err != nil {
		return nil, err
	}
	if !decision.Accepted {
		return &domain.DetailedAnswer{
			Accepted:  false,
			Answer:    domain.RejectionMessage,
			BestScore: decision.BestScore,
			ElapsedMS: time.Since(start).Milliseconds(),
		}, nil
	}

	top := decision.Matches[0]
	answer := &domain.DetailedAnswer{
		Accepted:  true,
		Answer:    top.Text,
		BestScore: decision.BestScore,
	}
	for _, match := range decision.Matches[1:] {
		if match.Score < uc.gate.ContextScoreFloor {
			continue
		}
		answer.Supporting = append(answer.Supporting, domain.SupportingPassage{
			ChunkID:  match.ChunkID,
			Filename: match.Filename,
			Text:     match.Text,
			Score:    match.Score,
		})
	}
	answer.ElapsedMS = time.Since(start).Milliseconds()
	return answer, nil
}

func (uc *AnswerUseCase) retrieve(ctx context.Context, question string, topK int) (domain.RelevanceDecision, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.RelevanceDecision{}, domain.WrapError(domain.ErrInvalidInput, "retrieve", fmt.Errorf("question is empty"))
	}

	queryVector, err := uc.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return domain.RelevanceDecision{}, fmt.Errorf("embed query: %w", err)
	}

	matches, err := uc.vectorDB.Search(ctx, queryVector, topK)
	if err != nil {
		return domain.RelevanceDecision{}, fmt.Errorf("search vector db: %w", err)
	}

	return Evaluate(matches, uc.gate.Threshold), nil
}
