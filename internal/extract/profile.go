package extract

import (
	"go.uber.org/zap"

	"github.com/spigell/resume-ats/internal/nlp"
	"github.com/spigell/resume-ats/internal/sections"
	"github.com/spigell/resume-ats/internal/summary"
)

// Profile is the structured view of one résumé.
type Profile struct {
	Name          Field    `json:"name"`
	Email         Field    `json:"email"`
	Phone         Field    `json:"phone"`
	Skills        []string `json:"skills"`
	AcademicScore Field    `json:"academic_score"`
	Achievements  Field    `json:"achievements"`
	ProjectStack  Field    `json:"project_tech_stack"`
}

// Extractor runs every field extractor over raw text. It holds read-only
// dependencies and is safe for concurrent use.
type Extractor struct {
	entities   nlp.EntityRecognizer
	summarizer *summary.Summarizer
	maxBullets int
	logger     *zap.Logger
}

type Option func(*Extractor)

func WithMaxBullets(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxBullets = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New builds an extractor over the tokenizer and entity recognizer of rt.
func New(rt *nlp.Runtime, opts ...Option) *Extractor {
	e := &Extractor{
		entities:   rt.Entities,
		summarizer: summary.New(rt.Tokenizer),
		maxBullets: DefaultMaxBullets,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// segmentProfile splits text on achievement and project headings together so
// that each kind of section closes the other.
func segmentProfile(text string) *sections.Map {
	keywords := make([]string, 0, len(AchievementKeywords)+len(ProjectKeywords))
	keywords = append(keywords, AchievementKeywords...)
	keywords = append(keywords, ProjectKeywords...)
	return sections.Segment(text, keywords)
}

// Profile extracts all fields. It never fails; misses carry sentinels.
func (e *Extractor) Profile(text string) *Profile {
	segmented := segmentProfile(text)

	e.logger.Debug("sections detected", zap.Strings("sections", segmented.Keys()))

	return &Profile{
		Name:          e.Name(text),
		Email:         Email(text),
		Phone:         Phone(text),
		Skills:        Skills(text),
		AcademicScore: AcademicScore(text),
		Achievements:  e.achievements(segmented),
		ProjectStack:  projectStack(segmented),
	}
}
