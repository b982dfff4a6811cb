package textnorm

import (
	"strings"
	"unicode"
)

// Lines must recur on at least this many pages before the repetition
// heuristic treats them as header/footer boilerplate.
const boilerplateMinPages = 3

// Headers and footers are short; longer repeated lines are kept as content.
const boilerplateMaxLineLen = 80

// Normalizer cleans raw extracted page text into one flat string:
// boilerplate lines and bare page numbers are dropped, control characters
// stripped and whitespace runs collapsed to single spaces. The operation is
// deterministic and idempotent.
type Normalizer struct{}

func New() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) Normalize(pages []string) string {
	if len(pages) == 0 {
		return ""
	}

	boilerplate := recurringLines(pages)

	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if _, ok := boilerplate[trimmed]; ok {
				continue
			}
			if isPageNumber(trimmed) {
				continue
			}
			parts = append(parts, trimmed)
		}
	}

	joined := strings.Map(dropNonPrintable, strings.Join(parts, " "))
	return strings.Join(strings.Fields(joined), " ")
}

// recurringLines finds short lines repeating across enough pages to be
// header/footer artifacts rather than content.
func recurringLines(pages []string) map[string]struct{} {
	if len(pages) < boilerplateMinPages {
		return nil
	}

	counts := make(map[string]int)
	for _, page := range pages {
		seen := make(map[string]struct{})
		for _, line := range strings.Split(page, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || len(trimmed) > boilerplateMaxLineLen {
				continue
			}
			if _, ok := seen[trimmed]; ok {
				continue
			}
			seen[trimmed] = struct{}{}
			counts[trimmed]++
		}
	}

	threshold := len(pages) / 2
	if threshold < boilerplateMinPages {
		threshold = boilerplateMinPages
	}

	out := make(map[string]struct{})
	for line, count := range counts {
		if count >= threshold {
			out[line] = struct{}{}
		}
	}
	return out
}

func isPageNumber(line string) bool {
	if len(line) == 0 || len(line) > 4 {
		return false
	}
	for _, r := range line {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func dropNonPrintable(r rune) rune {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return ' '
	case unicode.IsControl(r) || !unicode.IsPrint(r):
		return -1
	default:
		return r
	}
}
