package chunking

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/medscope/textbook-qa/internal/core/domain"
)

// listSplitter returns pre-built sentences so chunk boundary behavior can be
// tested independently of the heuristic splitter.
type listSplitter struct {
	sentences []string
}

func (s *listSplitter) Split(string) []string {
	return s.sentences
}

func sentenceOfWords(prefix string, n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return strings.Join(words, " ") + "."
}

func corpusSentences(count, wordsPer int) []string {
	out := make([]string, count)
	for i := range out {
		out[i] = sentenceOfWords(fmt.Sprintf("s%dw", i), wordsPer)
	}
	return out
}

func TestChunkEmptyText(t *testing.T) {
	c := New(DefaultConfig(), nil)
	if got := c.Chunk(""); got != nil {
		t.Fatalf("expected no chunks for empty text, got %d", len(got))
	}
}

func TestChunkShortTextSingleChunk(t *testing.T) {
	c := New(DefaultConfig(), nil)
	chunks := c.Chunk("Blood is a connective tissue. It circulates through vessels.")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].WordCount >= DefaultConfig().MinSize {
		t.Fatalf("test input unexpectedly large: %d words", chunks[0].WordCount)
	}
}

func TestChunkDeterminism(t *testing.T) {
	cfg := Config{MinSize: 20, TargetSize: 50, MaxSize: 90, OverlapSentences: 2}
	c := New(cfg, &listSplitter{sentences: corpusSentences(40, 10)})

	first := c.Chunk("irrelevant")
	second := c.Chunk("irrelevant")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated chunking produced different output")
	}
}

func TestChunkBoundsHold(t *testing.T) {
	cfg := Config{MinSize: 20, TargetSize: 50, MaxSize: 90, OverlapSentences: 2}
	c := New(cfg, &listSplitter{sentences: corpusSentences(40, 10)})

	chunks := c.Chunk("irrelevant")
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if i == len(chunks)-1 {
			if chunk.WordCount > cfg.MaxSize {
				t.Fatalf("final chunk %d exceeds max: %d", i, chunk.WordCount)
			}
			continue
		}
		if chunk.WordCount < cfg.MinSize || chunk.WordCount > cfg.MaxSize {
			t.Fatalf("chunk %d word count %d outside [%d, %d]", i, chunk.WordCount, cfg.MinSize, cfg.MaxSize)
		}
	}
}

func TestChunkSequentialIndexes(t *testing.T) {
	cfg := Config{MinSize: 20, TargetSize: 50, MaxSize: 90, OverlapSentences: 1}
	c := New(cfg, &listSplitter{sentences: corpusSentences(30, 10)})

	for i, chunk := range c.Chunk("irrelevant") {
		if chunk.Index != i {
			t.Fatalf("chunk %d has index %d", i, chunk.Index)
		}
	}
}

func TestChunkOverlapSentencesShared(t *testing.T) {
	cfg := Config{MinSize: 20, TargetSize: 50, MaxSize: 90, OverlapSentences: 2}
	sentences := corpusSentences(40, 10)
	c := New(cfg, &listSplitter{sentences: sentences})

	chunks := c.Chunk("irrelevant")
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prev := strings.Split(chunks[i-1].Text, ". ")
		cur := strings.Split(chunks[i].Text, ". ")
		if len(prev) < cfg.OverlapSentences || len(cur) < cfg.OverlapSentences {
			t.Fatalf("chunks %d/%d too short for overlap check", i-1, i)
		}
		tail := prev[len(prev)-cfg.OverlapSentences:]
		head := cur[:cfg.OverlapSentences]
		// The join point strips the trailing period context differently at
		// each end, so compare on the sentence start words.
		for j := range tail {
			if !strings.HasPrefix(head[j], firstWord(tail[j])) {
				t.Fatalf("chunk %d head %q does not continue chunk %d tail %q", i, head[j], i-1, tail[j])
			}
		}
	}
}

func TestChunkCoverageNoGaps(t *testing.T) {
	cfg := Config{MinSize: 20, TargetSize: 50, MaxSize: 90, OverlapSentences: 2}
	sentences := corpusSentences(35, 10)
	c := New(cfg, &listSplitter{sentences: sentences})

	chunks := c.Chunk("irrelevant")
	joined := " "
	for _, chunk := range chunks {
		joined += chunk.Text + " "
	}
	for _, sentence := range sentences {
		if !strings.Contains(joined, " "+sentence+" ") {
			t.Fatalf("sentence %q missing from chunk output", sentence)
		}
	}
}

func TestChunkForceSplitsOversizedSentence(t *testing.T) {
	cfg := Config{MinSize: 20, TargetSize: 50, MaxSize: 90, OverlapSentences: 2}
	giant := sentenceOfWords("g", 230)
	sentences := []string{
		sentenceOfWords("a", 10),
		giant,
		sentenceOfWords("b", 10),
	}
	c := New(cfg, &listSplitter{sentences: sentences})

	chunks := c.Chunk("irrelevant")
	if len(chunks) < 5 {
		t.Fatalf("expected leading chunk, split pieces and trailing chunk, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.WordCount > cfg.MaxSize {
			t.Fatalf("chunk %d exceeds max after force split: %d", i, chunk.WordCount)
		}
	}

	// 230 words at target 50 gives 4 full pieces and one 30-word remainder.
	var pieces []domain.Chunk
	for _, chunk := range chunks {
		if strings.HasPrefix(chunk.Text, "g") {
			pieces = append(pieces, chunk)
		}
	}
	if len(pieces) != 5 {
		t.Fatalf("expected 5 split pieces, got %d", len(pieces))
	}
	for i, piece := range pieces[:4] {
		if piece.WordCount != cfg.TargetSize {
			t.Fatalf("split piece %d has %d words, want %d", i, piece.WordCount, cfg.TargetSize)
		}
	}
	if pieces[4].WordCount != 30 {
		t.Fatalf("split remainder has %d words, want 30", pieces[4].WordCount)
	}
}

func TestChunkWordCountMatchesText(t *testing.T) {
	cfg := Config{MinSize: 20, TargetSize: 50, MaxSize: 90, OverlapSentences: 1}
	c := New(cfg, &listSplitter{sentences: corpusSentences(25, 10)})

	for i, chunk := range c.Chunk("irrelevant") {
		if got := len(strings.Fields(chunk.Text)); got != chunk.WordCount {
			t.Fatalf("chunk %d cached word count %d, text has %d", i, chunk.WordCount, got)
		}
	}
}

func TestNewNormalizesDegenerateConfig(t *testing.T) {
	c := New(Config{MinSize: -1, TargetSize: 0, MaxSize: 0, OverlapSentences: -3}, nil)
	if c.cfg.MinSize <= 0 || c.cfg.TargetSize < c.cfg.MinSize || c.cfg.MaxSize < c.cfg.TargetSize {
		t.Fatalf("config not normalized: %+v", c.cfg)
	}
	if c.cfg.OverlapSentences != 0 {
		t.Fatalf("expected overlap clamped to 0, got %d", c.cfg.OverlapSentences)
	}
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
