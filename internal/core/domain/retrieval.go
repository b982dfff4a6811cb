package domain

// RejectionMessage is returned verbatim whenever the best retrieved match
// scores below the configured relevance threshold. Out-of-scope questions
// must never be answered with retrieved text.
const RejectionMessage = "I can only answer questions covered by the indexed medical textbook corpus. " +
	"This question appears to be outside its scope - please rephrase it or ask about a topic from the corpus."

// Match is one similarity-search hit, cosine score in [-1, 1].
type Match struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// RelevanceDecision is the accept/reject outcome for one question.
// Matches are ordered descending by score.
type RelevanceDecision struct {
	Accepted  bool
	BestScore float64
	Matches   []Match
}

// SupportingPassage is a secondary match included in a detailed answer.
type SupportingPassage struct {
	ChunkID  string  `json:"chunk_id"`
	Filename string  `json:"filename"`
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
}

// DetailedAnswer is the structured result of a detailed-mode query.
type DetailedAnswer struct {
	Accepted   bool                `json:"accepted"`
	Answer     string              `json:"answer"`
	BestScore  float64             `json:"best_score"`
	Supporting []SupportingPassage `json:"supporting,omitempty"`
	ElapsedMS  int64               `json:"elapsed_ms"`
}
