// Package summary implements frequency based extractive summarization.
package summary

import (
	"sort"
	"strings"

	"github.com/spigell/resume-ats/internal/nlp"
)

// minWords is the exclusive lower bound on words for a sentence to count.
const minWords = 3

type Summarizer struct {
	tokenizer nlp.Tokenizer
}

func New(tokenizer nlp.Tokenizer) *Summarizer {
	return &Summarizer{tokenizer: tokenizer}
}

// Summarize picks up to maxSentences sentences with the highest word frequency
// scores and returns them in document order. Frequencies are counted over the
// whole text. It returns nil when no sentence has more than three words.
func (s *Summarizer) Summarize(text string, maxSentences int) []string {
	text = strings.TrimSpace(text)
	if text == "" || maxSentences <= 0 {
		return nil
	}

	var meaningful []string
	for _, sent := range s.tokenizer.Sentences(text) {
		sent = strings.TrimSpace(sent)
		if len(strings.Fields(sent)) > minWords {
			meaningful = append(meaningful, sent)
		}
	}
	if len(meaningful) == 0 {
		return nil
	}

	freq := s.frequencies(text)

	scores := make([]int, len(meaningful))
	for i, sent := range meaningful {
		for _, w := range s.tokenizer.Words(sent) {
			if nlp.IsAlnum(w) {
				scores[i] += freq[strings.ToLower(w)]
			}
		}
	}

	idx := make([]int, len(meaningful))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	if maxSentences < len(idx) {
		idx = idx[:maxSentences]
	}
	sort.Ints(idx)

	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, meaningful[i])
	}
	return out
}

func (s *Summarizer) frequencies(text string) map[string]int {
	freq := make(map[string]int)
	for _, w := range s.tokenizer.Words(text) {
		if nlp.IsAlnum(w) {
			freq[strings.ToLower(w)]++
		}
	}
	return freq
}
