package cmd

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-ats/internal/document"
	"github.com/spigell/resume-ats/internal/extract"
	"github.com/spigell/resume-ats/internal/nlp"
	"github.com/spigell/resume-ats/internal/pipeline"
	"github.com/spigell/resume-ats/internal/scoring"
)

const (
	hintNLPRuntime = "the prose models or the golem english dictionary could not be initialized; reinstall the binary built with github.com/jdkato/prose/v2 and github.com/aaaton/golem/v4/dicts/en"
	hintModels     = "set models.vectorizer and models.classifier (or RESUME_ATS_MODELS_VECTORIZER and RESUME_ATS_MODELS_CLASSIFIER) to exported model files"
)

// loadRuntime is replaced in tests.
var loadRuntime = nlp.Load

// services holds everything loaded once at startup and shared read-only
// by all requests.
type services struct {
	pipeline  *pipeline.Pipeline
	extractor *document.Extractor
	engine    *scoring.Engine
}

// mustBuildServices loads the NLP runtime and model artifacts. Any failure is
// fatal, with a hint naming what to fix.
func mustBuildServices(config *Config, logger *zap.Logger) *services {
	rt, err := loadRuntime()
	if err != nil {
		logger.Fatal("loading nlp runtime", zap.Error(err), zap.String("hint", hintNLPRuntime))
	}

	svc, err := buildServices(config, rt, logger)
	if err != nil {
		logger.Fatal("loading models", zap.Error(err), zap.String("hint", hintModels))
	}
	return svc
}

func buildServices(config *Config, rt *nlp.Runtime, logger *zap.Logger) (*services, error) {
	vecPath := strings.TrimSpace(config.Models.Vectorizer)
	clfPath := strings.TrimSpace(config.Models.Classifier)
	if vecPath == "" || clfPath == "" {
		return nil, fmt.Errorf("%w: model paths are not configured", scoring.ErrInvalidArtifact)
	}

	vectorizer, classifier, err := scoring.LoadModels(vecPath, clfPath)
	if err != nil {
		return nil, err
	}

	logger.Info("models loaded",
		zap.String("vectorizer", vecPath),
		zap.String("classifier", clfPath),
		zap.Int("vocabulary", vectorizer.Dim()),
		zap.Strings("classes", classifier.Classes()),
	)

	engine := scoring.NewEngine(nlp.NewNormalizer(rt.Lemmatizer), vectorizer, classifier, logger.Named("scoring"))
	if err := engine.SelfCheck(); err != nil {
		return nil, fmt.Errorf("models self check: %w", err)
	}

	extractor := document.NewExtractor(
		document.WithTempDir(config.Extraction.TempDir),
		document.WithMaxBytes(config.Extraction.MaxBytes),
		document.WithLogger(logger.Named("document")),
	)

	parser := extract.New(rt,
		extract.WithMaxBullets(config.Achievements.MaxBullets),
		extract.WithLogger(logger.Named("extract")),
	)

	p := pipeline.New(pipeline.Deps{
		Text:    extractor,
		Profile: parser,
		Scorer:  engine,
		Logger:  logger.Named("pipeline"),
	})

	return &services{pipeline: p, extractor: extractor, engine: engine}, nil
}
