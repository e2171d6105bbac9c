// Package scoring predicts a job role for a résumé and rates how well it
// matches a job description.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-ats/internal/extract"
)

// UnknownRole is reported when there is nothing to classify.
const UnknownRole = "Unknown"

// Normalizer reduces text to the form the vectorizer was fitted on.
type Normalizer interface {
	Normalize(text string) string
}

// Result is the scoring outcome for one résumé.
type Result struct {
	JobRole       string   `json:"job_role"`
	Confidence    float64  `json:"confidence"`
	ATSScore      float64  `json:"ats_score"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
}

// Engine wraps the fitted models. Models are read-only and shared between
// requests.
type Engine struct {
	normalizer Normalizer
	vectorizer Vectorizer
	classifier Classifier
	logger     *zap.Logger
}

func NewEngine(n Normalizer, v Vectorizer, c Classifier, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{normalizer: n, vectorizer: v, classifier: c, logger: logger}
}

// Classify predicts the job role of text and the probability of that role.
func (e *Engine) Classify(text string) (string, float64) {
	normalized := e.normalizer.Normalize(text)
	if normalized == "" {
		return UnknownRole, 0
	}

	x := e.vectorizer.Transform(normalized)
	label := e.classifier.Predict(x)
	proba := e.classifier.PredictProba(x)

	// probabilities follow Classes order, not any fixed label order
	for i, class := range e.classifier.Classes() {
		if class == label && i < len(proba) {
			return label, clamp(proba[i], 0, 1)
		}
	}

	e.logger.Warn("predicted label is not among classifier classes", zap.String("label", label))
	return label, 0
}

// ATSScore is the cosine similarity of the résumé and job description vectors
// as a percentage rounded to two decimals.
func (e *Engine) ATSScore(resume, jd string) float64 {
	if strings.TrimSpace(resume) == "" || strings.TrimSpace(jd) == "" {
		return 0
	}

	nr, nj := e.normalizer.Normalize(resume), e.normalizer.Normalize(jd)
	if nr == "" || nj == "" {
		return 0
	}

	sim := Cosine(e.vectorizer.Transform(nr), e.vectorizer.Transform(nj))
	return clamp(math.Round(sim*100*100)/100, 0, 100)
}

// selfCheckSample is classified by SelfCheck.
const selfCheckSample = "Software engineer experienced in Python, SQL and machine learning."

// SelfCheck runs one classification end to end and verifies the shape of the
// output: columns inside the vocabulary, one finite probability per class,
// probabilities summing to one and a label among the classes.
func (e *Engine) SelfCheck() error {
	if e.normalizer == nil || e.vectorizer == nil || e.classifier == nil {
		return errors.New("models are not loaded")
	}

	x := e.vectorizer.Transform(e.normalizer.Normalize(selfCheckSample))
	for _, col := range x.Indices {
		if col < 0 || col >= e.vectorizer.Dim() {
			return fmt.Errorf("%w: column %d outside vocabulary of %d terms", ErrInvalidArtifact, col, e.vectorizer.Dim())
		}
	}

	classes := e.classifier.Classes()
	proba := e.classifier.PredictProba(x)
	if len(proba) != len(classes) {
		return fmt.Errorf("%w: %d probabilities for %d classes", ErrInvalidArtifact, len(proba), len(classes))
	}
	var sum float64
	for _, p := range proba {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return fmt.Errorf("%w: invalid probability %v", ErrInvalidArtifact, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("%w: probabilities sum to %v", ErrInvalidArtifact, sum)
	}

	label := e.classifier.Predict(x)
	for _, class := range classes {
		if class == label {
			return nil
		}
	}
	return fmt.Errorf("%w: predicted label %q is not a class", ErrInvalidArtifact, label)
}

// SkillGap lists vocabulary skills the job description asks for, split by
// whether the résumé mentions them.
func SkillGap(resume, jd string) (matched, missing []string) {
	matched, missing = []string{}, []string{}
	if strings.TrimSpace(jd) == "" {
		return matched, missing
	}

	have := make(map[string]bool)
	for _, s := range extract.MatchSkills(resume) {
		have[s] = true
	}
	for _, s := range extract.MatchSkills(jd) {
		if have[s] {
			matched = append(matched, s)
		} else {
			missing = append(missing, s)
		}
	}
	return matched, missing
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
