package summary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubTokenizer splits sentences on periods and words on whitespace,
// emitting trailing punctuation as separate tokens.
type stubTokenizer struct{}

func (stubTokenizer) Sentences(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ".") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p+".")
		}
	}
	return out
}

func (stubTokenizer) Words(text string) []string {
	var out []string
	for _, f := range strings.Fields(text) {
		word := strings.TrimRight(f, ".,!")
		if word != "" {
			out = append(out, word)
		}
		if word != f {
			out = append(out, f[len(word):])
		}
	}
	return out
}

func TestSummarizePreservesDocumentOrder(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"Led a small reading club.",
		"Won the national python hackathon with python tooling.",
		"Organized weekly chess meetups downtown.",
		"Volunteered at the local animal shelter.",
		"Published python research on python performance.",
		"Mentored three junior colleagues.",
	}, " ")

	got := New(stubTokenizer{}).Summarize(text, 2)
	assert.Equal(t, []string{
		"Won the national python hackathon with python tooling.",
		"Published python research on python performance.",
	}, got)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		max    int
		expect []string
	}{
		{name: "empty", text: "  ", max: 5, expect: nil},
		{name: "no meaningful sentence", text: "Top rank. Gold medal.", max: 5, expect: nil},
		{name: "non positive budget", text: "Won the regional coding contest.", max: 0, expect: nil},
		{
			name:   "short sentences are dropped",
			text:   "Gold medal. Won the regional coding contest.",
			max:    5,
			expect: []string{"Won the regional coding contest."},
		},
		{
			name:   "ties keep earlier sentences",
			text:   "Alpha beta gamma delta. Epsilon zeta eta theta. Iota kappa lambda mu.",
			max:    2,
			expect: []string{"Alpha beta gamma delta.", "Epsilon zeta eta theta."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, New(stubTokenizer{}).Summarize(tt.text, tt.max))
		})
	}
}
