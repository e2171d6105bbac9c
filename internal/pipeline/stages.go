package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/resume-ats/internal/document"
	"github.com/spigell/resume-ats/internal/scoring"
)

// Stage names in execution order.
const (
	StageExtractText  = "extract_text"
	StageParseProfile = "parse_profile"
	StageClassify     = "classify"
	StageATSScore     = "ats_score"
)

// Warnings attached to results.
const (
	WarnNoText           = "no text could be extracted from the document"
	WarnNoJobDescription = "no job description provided; ATS score skipped"
)

type stage struct {
	name     string
	disabled bool
	reason   string
}

func (s *stage) Name() string { return s.name }

func (s *stage) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *stage) IsEnabled() bool { return !s.disabled }

func (s *stage) Status() Status {
	return Status{Name: s.name, Enabled: !s.disabled, Reason: s.reason}
}

type extractTextStage struct{ stage }

// NewExtractText creates the stage that reads text from the uploaded document.
// Unreadable content only produces a warning.
func NewExtractText() Stage {
	return &extractTextStage{stage{name: StageExtractText}}
}

func (st *extractTextStage) Apply(ctx context.Context, deps Deps, s *State) error {
	text, err := deps.Text.Extract(ctx, s.Document)
	if err != nil {
		if !document.IsRecoverable(err) {
			return err
		}
		deps.Logger.Warn("text extraction failed", zap.Error(err))
		s.Text = ""
		s.warn(WarnNoText + ": " + err.Error())
		return nil
	}

	s.Text = text
	if text == "" {
		deps.Logger.Warn("document has no text")
		s.warn(WarnNoText)
		return nil
	}

	deps.Logger.Debug("text extracted", zap.Int("chars", len([]rune(text))), preview(text))
	return nil
}

type parseProfileStage struct{ stage }

// NewParseProfile creates the stage that extracts profile fields from the text.
func NewParseProfile() Stage {
	return &parseProfileStage{stage{name: StageParseProfile}}
}

func (st *parseProfileStage) Apply(_ context.Context, deps Deps, s *State) error {
	s.Profile = deps.Profile.Profile(s.Text)
	deps.Logger.Debug("profile parsed",
		zap.String("name", s.Profile.Name.Value),
		zap.Strings("skills", s.Profile.Skills),
		zap.String("academic_score", s.Profile.AcademicScore.Value),
	)
	return nil
}

type classifyStage struct{ stage }

// NewClassify creates the stage that predicts the job role.
func NewClassify() Stage {
	return &classifyStage{stage{name: StageClassify}}
}

func (st *classifyStage) Apply(_ context.Context, deps Deps, s *State) error {
	s.Score.JobRole, s.Score.Confidence = deps.Scorer.Classify(s.Text)
	return nil
}

type atsScoreStage struct{ stage }

// NewATSScore creates the stage that rates the résumé against the job description.
func NewATSScore() Stage {
	return &atsScoreStage{stage{name: StageATSScore}}
}

func (st *atsScoreStage) Apply(_ context.Context, deps Deps, s *State) error {
	s.Score.ATSScore = deps.Scorer.ATSScore(s.Text, s.JobDescription)
	s.Score.MatchedSkills, s.Score.MissingSkills = scoring.SkillGap(s.Text, s.JobDescription)
	return nil
}
