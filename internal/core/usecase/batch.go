package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

const defaultBatchParallelism = 4

// BatchAsk evaluates independent questions concurrently against the shared
// read-only embedder and vector store, preserving input order. A failing
// question fills its own slot with an error notice and never aborts its
// siblings.
func (uc *AnswerUseCase) BatchAsk(ctx context.Context, questions []string) []string {
	return uc.batchAsk(ctx, questions, uc.gate.BatchParallelism)
}

func (uc *AnswerUseCase) batchAsk(ctx context.Context, questions []string, parallelism int) []string {
	if len(questions) == 0 {
		return nil
	}
	if parallelism <= 0 {
		parallelism = defaultBatchParallelism
	}
	if parallelism > len(questions) {
		parallelism = len(questions)
	}

	answers := make([]string, len(questions))
	sem := make(chan struct{}, parallelism)
	var wg sync.WaitGroup

	for i, question := range questions {
		wg.Add(1)
		sem <- struct{}{}
		go func(slot int, q string) {
			defer wg.Done()
			defer func() { <-sem }()

			answer, err := uc.Ask(ctx, q)
			if err != nil {
				slog.Warn("batch_question_failed", "slot", slot, "error", err)
				answers[slot] = fmt.Sprintf("unable to answer this question: %v", err)
				return
			}
			answers[slot] = answer
		}(i, question)
	}
	wg.Wait()

	return answers
}
