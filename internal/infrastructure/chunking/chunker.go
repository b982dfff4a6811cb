package chunking

import (
	"strings"

	"github.com/medscope/textbook-qa/internal/core/domain"
)

type Config struct {
	MinSize          int
	TargetSize       int
	MaxSize          int
	OverlapSentences int
}

func DefaultConfig() Config {
	return Config{
		MinSize:          50,
		TargetSize:       200,
		MaxSize:          350,
		OverlapSentences: 2,
	}
}

// Chunker accumulates sentences greedily into word-bounded chunks.
// Boundaries always fall between sentences unless a single sentence alone
// exceeds MaxSize, in which case it is force-split on word boundaries.
// Identical input and config always produce identical chunks.
type Chunker struct {
	cfg      Config
	splitter SentenceSplitter
}

func New(cfg Config, splitter SentenceSplitter) *Chunker {
	def := DefaultConfig()
	if cfg.MinSize <= 0 {
		cfg.MinSize = def.MinSize
	}
	if cfg.TargetSize < cfg.MinSize {
		cfg.TargetSize = maxInt(def.TargetSize, cfg.MinSize)
	}
	if cfg.MaxSize < cfg.TargetSize {
		cfg.MaxSize = maxInt(def.MaxSize, cfg.TargetSize)
	}
	if cfg.OverlapSentences < 0 {
		cfg.OverlapSentences = 0
	}
	if splitter == nil {
		splitter = NewHeuristicSplitter()
	}
	return &Chunker{cfg: cfg, splitter: splitter}
}

func (c *Chunker) Chunk(text string) []domain.Chunk {
	sentences := c.splitter.Split(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []domain.Chunk

	// Running buffer of sentences for the open chunk. fresh counts the
	// sentences appended since the last emit; a buffer holding only overlap
	// carry-over must never be emitted on its own.
	var buf []string
	bufWords := 0
	fresh := 0

	emit := func(withOverlap bool) {
		if fresh == 0 {
			buf = nil
			bufWords = 0
			return
		}
		chunks = append(chunks, c.newChunk(len(chunks), strings.Join(buf, " ")))
		if withOverlap && c.cfg.OverlapSentences > 0 {
			tail := buf[maxInt(0, len(buf)-c.cfg.OverlapSentences):]
			buf = append([]string(nil), tail...)
			bufWords = wordCountAll(buf)
		} else {
			buf = nil
			bufWords = 0
		}
		fresh = 0
	}

	for _, sentence := range sentences {
		words := wordCount(sentence)

		if words > c.cfg.MaxSize {
			// Oversized sentence: close whatever is open, then force-split
			// the sentence itself. Overlap resumes at the next real sentence.
			emit(false)
			chunks = append(chunks, c.forceSplit(sentence, len(chunks))...)
			continue
		}

		if bufWords > 0 && bufWords+words > c.cfg.MaxSize {
			emit(true)
		}

		buf = append(buf, sentence)
		bufWords += words
		fresh++

		if bufWords >= c.cfg.TargetSize {
			emit(true)
		}
	}

	// Trailing content below MinSize is still kept as the final chunk.
	emit(false)

	return chunks
}

// forceSplit cuts one oversized sentence into consecutive word runs of
// roughly TargetSize words, with no overlap inside the split.
func (c *Chunker) forceSplit(sentence string, nextIndex int) []domain.Chunk {
	words := strings.Fields(sentence)
	out := make([]domain.Chunk, 0, len(words)/c.cfg.TargetSize+1)
	for start := 0; start < len(words); start += c.cfg.TargetSize {
		end := start + c.cfg.TargetSize
		if end > len(words) {
			end = len(words)
		}
		out = append(out, c.newChunk(nextIndex+len(out), strings.Join(words[start:end], " ")))
	}
	return out
}

func (c *Chunker) newChunk(index int, text string) domain.Chunk {
	return domain.Chunk{
		Index:     index,
		Text:      text,
		WordCount: wordCount(text),
	}
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func wordCountAll(sentences []string) int {
	total := 0
	for _, s := range sentences {
		total += wordCount(s)
	}
	return total
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
