package domain

// Chunk is the unit of retrieval: a bounded run of consecutive sentences
// cut from the normalized corpus text. Chunks are created once during an
// index build and are immutable afterwards.
type Chunk struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Index      int    `json:"index"`
	Text       string `json:"text"`
	WordCount  int    `json:"word_count"`
}
