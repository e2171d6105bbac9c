package scoring

import (
	"fmt"
	"math"
)

// Classifier predicts a label and class probabilities for a vector.
type Classifier interface {
	Classes() []string
	Predict(x Vector) string
	PredictProba(x Vector) []float64
}

// Linear is a fitted linear model such as logistic regression.
type Linear struct {
	Labels     []string    `json:"classes"`
	Coef       [][]float64 `json:"coef"`
	Intercept  []float64   `json:"intercept"`
	MultiClass string      `json:"multi_class"`
}

func (l *Linear) Classes() []string { return l.Labels }

func (l *Linear) validate(dim int) error {
	if len(l.Labels) == 0 {
		return fmt.Errorf("%w: classifier has no classes", ErrInvalidArtifact)
	}
	rows := len(l.Labels)
	if rows == 2 && len(l.Coef) == 1 {
		rows = 1
	}
	if len(l.Labels) == 1 || len(l.Coef) != rows {
		return fmt.Errorf("%w: classifier has %d coefficient rows for %d classes", ErrInvalidArtifact, len(l.Coef), len(l.Labels))
	}
	if len(l.Intercept) != rows {
		return fmt.Errorf("%w: classifier has %d intercepts for %d rows", ErrInvalidArtifact, len(l.Intercept), rows)
	}
	for i, row := range l.Coef {
		if len(row) != dim {
			return fmt.Errorf("%w: classifier row %d has %d weights, vectorizer has %d terms", ErrInvalidArtifact, i, len(row), dim)
		}
	}
	switch l.MultiClass {
	case "", "multinomial", "ovr":
	default:
		return fmt.Errorf("%w: classifier multi_class %q", ErrInvalidArtifact, l.MultiClass)
	}
	return nil
}

func (l *Linear) decision(x Vector) []float64 {
	out := make([]float64, len(l.Coef))
	for r, row := range l.Coef {
		d := l.Intercept[r]
		for i, col := range x.Indices {
			if col < len(row) {
				d += row[col] * x.Values[i]
			}
		}
		out[r] = d
	}
	return out
}

func (l *Linear) binary() bool { return len(l.Coef) == 1 }

// Predict returns the label with the highest decision value. Ties go to the
// earlier class.
func (l *Linear) Predict(x Vector) string {
	d := l.decision(x)
	if l.binary() {
		if d[0] > 0 {
			return l.Labels[1]
		}
		return l.Labels[0]
	}

	best := 0
	for i := 1; i < len(d); i++ {
		if d[i] > d[best] {
			best = i
		}
	}
	return l.Labels[best]
}

// PredictProba returns one probability per class in Classes order.
func (l *Linear) PredictProba(x Vector) []float64 {
	d := l.decision(x)
	if l.binary() {
		p := sigmoid(d[0])
		return []float64{1 - p, p}
	}
	if l.MultiClass == "ovr" {
		return normalizedSigmoids(d)
	}
	return softmax(d)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func softmax(d []float64) []float64 {
	peak := math.Inf(-1)
	for _, v := range d {
		peak = math.Max(peak, v)
	}
	out := make([]float64, len(d))
	var sum float64
	for i, v := range d {
		out[i] = math.Exp(v - peak)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func normalizedSigmoids(d []float64) []float64 {
	out := make([]float64, len(d))
	var sum float64
	for i, v := range d {
		out[i] = sigmoid(v)
		sum += out[i]
	}
	if sum == 0 {
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
