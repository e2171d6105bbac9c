// Package pipeline runs one résumé through extraction, parsing and scoring.
package pipeline

import (
	"context"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-ats/internal/document"
	"github.com/spigell/resume-ats/internal/extract"
	"github.com/spigell/resume-ats/internal/logger"
	"github.com/spigell/resume-ats/internal/scoring"
	"github.com/spigell/resume-ats/internal/utils"
)

// TextExtractor reads plain text out of an uploaded document.
type TextExtractor interface {
	Extract(ctx context.Context, doc document.Document) (string, error)
}

// ProfileParser turns raw text into profile fields.
type ProfileParser interface {
	Profile(text string) *extract.Profile
}

// Scorer predicts a job role and rates a résumé against a job description.
type Scorer interface {
	Classify(text string) (string, float64)
	ATSScore(resume, jd string) float64
}

// Stage is a single named step of processing.
type Stage interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(ctx context.Context, deps Deps, s *State) error
}

// Deps aggregates dependencies shared across all stages.
type Deps struct {
	Text    TextExtractor
	Profile ProfileParser
	Scorer  Scorer
	Logger  *zap.Logger
}

// State carries one document through the stages.
type State struct {
	RequestID      string
	Document       document.Document
	JobDescription string

	Text     string
	Profile  *extract.Profile
	Score    scoring.Result
	Warnings []string
}

func (s *State) warn(msg string) {
	s.Warnings = append(s.Warnings, msg)
}

// Status describes how a stage ran.
type Status struct {
	Name     string        `json:"name"`
	Enabled  bool          `json:"enabled"`
	Reason   string        `json:"reason,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// DocumentInfo summarizes the processed upload.
type DocumentInfo struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
	Bytes     int    `json:"bytes"`
	TextChars int    `json:"text_chars"`
}

// Result is everything produced for one document.
type Result struct {
	RequestID string           `json:"request_id"`
	Document  DocumentInfo     `json:"document"`
	Profile   *extract.Profile `json:"profile"`
	Score     scoring.Result   `json:"score"`
	Warnings  []string         `json:"warnings"`
	Stages    []Status         `json:"stages"`
}

// Pipeline is safe for concurrent use; every call gets its own stages and state.
type Pipeline struct {
	deps Deps
}

func New(deps Deps) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Pipeline{deps: deps}
}

// DisableByName marks a stage with the provided name as disabled while keeping it in the list.
func DisableByName(stages []Stage, name, reason string) {
	for _, stage := range stages {
		if stage.Name() == name {
			stage.Disable(reason)
		}
	}
}

// Stages returns the ordered stages for a request.
func Stages(jd string) []Stage {
	stages := []Stage{
		NewExtractText(),
		NewParseProfile(),
		NewClassify(),
		NewATSScore(),
	}
	if strings.TrimSpace(jd) == "" {
		DisableByName(stages, StageATSScore, "no job description provided")
	}
	return stages
}

// Process runs every stage over doc. A returned error is always a
// *ProcessError; recoverable problems only add warnings to the result.
func (p *Pipeline) Process(ctx context.Context, requestID string, doc document.Document, jd string) (*Result, error) {
	if requestID == "" {
		requestID = uuid.NewString()
	}

	log := logger.WithFields(p.deps.Logger, logger.RequestFields(requestID, doc.Name, doc.Ext)...)
	deps := p.deps
	deps.Logger = log

	state := &State{
		RequestID:      requestID,
		Document:       doc,
		JobDescription: jd,
		Score:          scoring.Result{JobRole: scoring.UnknownRole, MatchedSkills: []string{}, MissingSkills: []string{}},
	}

	log.Info("processing document", zap.Int("bytes", len(doc.Data)))

	stages := Stages(jd)
	if strings.TrimSpace(jd) == "" {
		state.warn(WarnNoJobDescription)
	}
	statuses, err := Run(ctx, deps, stages, state)
	if err != nil {
		log.Error("processing failed", zap.Error(err))
		return nil, err
	}

	if state.Profile == nil {
		state.Profile = deps.Profile.Profile("")
	}
	if state.Warnings == nil {
		state.Warnings = []string{}
	}

	log.Info("document processed",
		zap.String("job_role", state.Score.JobRole),
		zap.Float64("confidence", state.Score.Confidence),
		zap.Float64("ats_score", state.Score.ATSScore),
		zap.Int("warnings", len(state.Warnings)),
	)

	return &Result{
		RequestID: requestID,
		Document: DocumentInfo{
			Name:      doc.Name,
			Extension: doc.Ext,
			Bytes:     len(doc.Data),
			TextChars: len([]rune(state.Text)),
		},
		Profile:  state.Profile,
		Score:    state.Score,
		Warnings: state.Warnings,
		Stages:   statuses,
	}, nil
}

// Run executes the supplied stages sequentially. A panic inside a stage is
// converted into a ProcessError.
func Run(ctx context.Context, deps Deps, stages []Stage, s *State) ([]Status, error) {
	statuses := make([]Status, 0, len(stages))
	for _, stage := range stages {
		if !stage.IsEnabled() {
			status := describe(stage)
			deps.Logger.Info("stage disabled", zap.String("name", stage.Name()), zap.String("reason", status.Reason))
			statuses = append(statuses, status)
			continue
		}

		if err := ctx.Err(); err != nil {
			return statuses, newStageError(s.RequestID, stage.Name(), err)
		}

		started := time.Now()
		if err := applySafely(ctx, deps, stage, s); err != nil {
			return statuses, err
		}
		status := describe(stage)
		status.Duration = time.Since(started)

		deps.Logger.Info("stage",
			zap.String("name", stage.Name()),
			zap.Duration("duration", status.Duration),
		)
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func applySafely(ctx context.Context, deps Deps, stage Stage, s *State) (err error) {
	defer func() {
		if r := recover(); r != nil {
			deps.Logger.Error("stage panicked",
				zap.String("name", stage.Name()),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			err = newPanicError(s.RequestID, stage.Name(), r)
		}
	}()

	if err := stage.Apply(ctx, deps, s); err != nil {
		return newStageError(s.RequestID, stage.Name(), err)
	}
	return nil
}

// Describe returns status entries for the provided stages.
func Describe(stages []Stage) []Status {
	statuses := make([]Status, 0, len(stages))
	for _, stage := range stages {
		statuses = append(statuses, describe(stage))
	}
	return statuses
}

func describe(stage Stage) Status {
	if reporter, ok := stage.(interface{ Status() Status }); ok {
		return reporter.Status()
	}
	return Status{Name: stage.Name(), Enabled: stage.IsEnabled()}
}

func preview(text string) zap.Field {
	return zap.String("preview", utils.TruncateForLog(text, 80))
}
