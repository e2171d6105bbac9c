package server

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Checker represents a dependency health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// Readiness aggregates dependency checkers.
type Readiness struct {
	checkers []Checker
}

func NewReadiness(checkers ...Checker) *Readiness {
	return &Readiness{checkers: checkers}
}

// Ready returns the first failing check.
func (r *Readiness) Ready(ctx context.Context) error {
	for _, ch := range r.checkers {
		if err := ch.Check(ctx); err != nil {
			return fmt.Errorf("%s: %w", ch.Name(), err)
		}
	}
	return nil
}

// TempDirChecker verifies that uploads can be staged.
type TempDirChecker struct {
	dir string
}

func NewTempDirChecker(dir string) *TempDirChecker {
	return &TempDirChecker{dir: dir}
}

func (c *TempDirChecker) Name() string { return "temp_dir" }

func (c *TempDirChecker) Check(context.Context) error {
	f, err := os.CreateTemp(c.dir, "resume-ready-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// ModelProber runs a dry-run prediction through the loaded models.
type ModelProber interface {
	SelfCheck() error
}

// ModelsChecker reports whether the loaded models still produce a valid
// prediction.
type ModelsChecker struct {
	models ModelProber
}

func NewModelsChecker(models ModelProber) *ModelsChecker {
	return &ModelsChecker{models: models}
}

func (c *ModelsChecker) Name() string { return "models" }

func (c *ModelsChecker) Check(context.Context) error {
	if c.models == nil {
		return errors.New("models are not loaded")
	}
	return c.models.SelfCheck()
}
