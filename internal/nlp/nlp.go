package nlp

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"
)

// ErrRuntimeUnavailable is returned when the language models cannot be loaded.
var ErrRuntimeUnavailable = errors.New("nlp runtime unavailable")

// Tokenizer splits text into sentences and word tokens.
type Tokenizer interface {
	Sentences(text string) []string
	Words(text string) []string
}

// EntityRecognizer detects person names in free text.
type EntityRecognizer interface {
	Persons(text string) []string
}

// Lemmatizer maps a word to its dictionary base form.
type Lemmatizer interface {
	Lemma(word string) string
}

// Runtime bundles the language capabilities shared by every request.
// It is read-only after Load and safe for concurrent use.
type Runtime struct {
	Tokenizer  Tokenizer
	Entities   EntityRecognizer
	Lemmatizer Lemmatizer
}

// Load initializes the sentence splitter, tagger, entity model and lemma dictionary.
func Load() (*Runtime, error) {
	lemmatizer, err := NewGolemLemmatizer()
	if err != nil {
		return nil, err
	}

	p := &Prose{}
	// Warm up the models so that a broken installation fails at startup.
	if _, err := prose.NewDocument("Warm up the models.", prose.WithTagging(false)); err != nil {
		return nil, fmt.Errorf("%w: loading prose models: %v", ErrRuntimeUnavailable, err)
	}

	return &Runtime{
		Tokenizer:  p,
		Entities:   p,
		Lemmatizer: lemmatizer,
	}, nil
}

// Prose implements Tokenizer and EntityRecognizer on top of prose.
type Prose struct{}

func (p *Prose) Sentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithTokenization(false),
	)
	if err != nil {
		return nil
	}

	sents := doc.Sentences()
	out := make([]string, 0, len(sents))
	for _, s := range sents {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (p *Prose) Words(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil
	}

	tokens := doc.Tokens()
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Text)
	}
	return out
}

// Persons returns PERSON entities in the order the model reports them.
func (p *Prose) Persons(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil
	}

	var out []string
	for _, ent := range doc.Entities() {
		if ent.Label == "PERSON" {
			out = append(out, ent.Text)
		}
	}
	return out
}

// GolemLemmatizer wraps the golem English dictionary.
type GolemLemmatizer struct {
	l *golem.Lemmatizer
}

func NewGolemLemmatizer() (*GolemLemmatizer, error) {
	l, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("%w: loading lemma dictionary: %v", ErrRuntimeUnavailable, err)
	}
	return &GolemLemmatizer{l: l}, nil
}

func (g *GolemLemmatizer) Lemma(word string) string {
	return g.l.Lemma(word)
}

// IsAlnum reports whether s is non-empty and made only of letters and digits.
func IsAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
