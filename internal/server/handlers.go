package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spigell/resume-ats/internal/document"
	"github.com/spigell/resume-ats/internal/pipeline"
)

// Processor runs one document through the pipeline.
type Processor interface {
	Process(ctx context.Context, requestID string, doc document.Document, jd string) (*pipeline.Result, error)
}

// Handler serves the analysis and probe endpoints.
type Handler struct {
	processor Processor
	readiness *Readiness
	maxBytes  int64
	logger    *zap.Logger
}

func NewHandler(p Processor, readiness *Readiness, maxBytes int64, logger *zap.Logger) *Handler {
	if maxBytes <= 0 {
		maxBytes = document.DefaultMaxBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if readiness == nil {
		readiness = NewReadiness()
	}
	return &Handler{processor: p, readiness: readiness, maxBytes: maxBytes, logger: logger}
}

// Health is the liveness probe.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// Ready runs every readiness checker.
func (h *Handler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
	defer cancel()
	if err := h.readiness.Ready(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "not_ready",
			"details": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ready"})
}

// Analyze accepts a multipart upload with a "file" and an optional
// "job_description" and returns the pipeline result.
func (h *Handler) Analyze(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return Error(c, http.StatusBadRequest, "file is required")
	}

	file, err := fh.Open()
	if err != nil {
		return Error(c, http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()

	data, err := readAtMost(file, h.maxBytes)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	res, err := h.processor.Process(c.UserContext(), requestID(c), document.New(fh.Filename, data), c.FormValue("job_description"))
	if err != nil {
		if errors.Is(err, document.ErrTooLarge) {
			return Error(c, http.StatusBadRequest, err.Error())
		}
		h.logger.Warn("analysis failed", zap.String("request_id", requestID(c)), zap.Error(err))
		return Error(c, http.StatusUnprocessableEntity, err.Error())
	}

	return JSON(c, http.StatusOK, res)
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("file too large: limit is %d bytes", max)
	}
	return b, nil
}
