package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidArtifact is returned when a model file is missing, unreadable or
// inconsistent with its counterpart.
var ErrInvalidArtifact = errors.New("invalid model artifact")

// LoadVectorizer reads a TFIDF export from a JSON file.
func LoadVectorizer(path string) (*TFIDF, error) {
	var v TFIDF
	if err := readJSON(path, &v); err != nil {
		return nil, err
	}
	if err := v.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &v, nil
}

// LoadClassifier reads a linear model export and checks it against dim terms.
func LoadClassifier(path string, dim int) (*Linear, error) {
	var c Linear
	if err := readJSON(path, &c); err != nil {
		return nil, err
	}
	if err := c.validate(dim); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

// LoadModels loads both artifacts. Any failure is fatal for the caller.
func LoadModels(vectorizerPath, classifierPath string) (*TFIDF, *Linear, error) {
	vec, err := LoadVectorizer(vectorizerPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading vectorizer: %w", err)
	}
	clf, err := LoadClassifier(classifierPath, vec.Dim())
	if err != nil {
		return nil, nil, fmt.Errorf("loading classifier: %w", err)
	}
	return vec, clf, nil
}

func readJSON(path string, v any) error {
	if path == "" {
		return fmt.Errorf("%w: path is not configured", ErrInvalidArtifact)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrInvalidArtifact, path, err)
	}
	return nil
}
