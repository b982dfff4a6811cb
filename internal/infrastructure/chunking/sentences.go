package chunking

import (
	"strings"
	"unicode"
)

// SentenceSplitter segments text into ordered sentences. The boundary
// detection is a heuristic; implementations can be swapped without touching
// the chunker's accumulation logic.
type SentenceSplitter interface {
	Split(text string) []string
}

// HeuristicSplitter detects sentence ends on '.', '!' and '?', guarding
// against common abbreviations and decimal numbers.
type HeuristicSplitter struct{}

func NewHeuristicSplitter() *HeuristicSplitter {
	return &HeuristicSplitter{}
}

// Tokens (lowercased, without the trailing period) that end with a period
// mid-sentence. Dotted forms cover "e.g." and "i.e." interiors.
var abbreviations = map[string]struct{}{
	"dr": {}, "mr": {}, "mrs": {}, "ms": {}, "prof": {}, "st": {},
	"fig": {}, "vol": {}, "no": {}, "vs": {}, "etc": {}, "al": {},
	"approx": {}, "e.g": {}, "i.e": {}, "cf": {}, "resp": {},
}

func (s *HeuristicSplitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	sentences := make([]string, 0, 32)
	var b strings.Builder

	for i, r := range runes {
		b.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if !isSentenceBoundary(runes, i) {
			continue
		}
		if sentence := strings.TrimSpace(b.String()); sentence != "" {
			sentences = append(sentences, sentence)
		}
		b.Reset()
	}
	if tail := strings.TrimSpace(b.String()); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func isSentenceBoundary(runes []rune, i int) bool {
	if runes[i] == '.' {
		// 3.5 mL, pH 7.4 and similar decimal constructions.
		if i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
			return false
		}
		if _, ok := abbreviations[precedingToken(runes, i)]; ok {
			return false
		}
	}

	if i+1 == len(runes) {
		return true
	}
	if !unicode.IsSpace(runes[i+1]) {
		return false
	}

	j := i + 1
	for j < len(runes) && unicode.IsSpace(runes[j]) {
		j++
	}
	if j == len(runes) {
		return true
	}
	next := runes[j]
	return unicode.IsUpper(next) || unicode.IsDigit(next) || next == '"' || next == '('
}

// precedingToken returns the lowercased word immediately before the period at
// position i, keeping interior dots so "e.g." resolves to "e.g".
func precedingToken(runes []rune, i int) string {
	start := i
	for start > 0 && !unicode.IsSpace(runes[start-1]) {
		start--
	}
	token := strings.ToLower(string(runes[start:i]))
	return strings.TrimPrefix(token, "(")
}
