// Package server exposes the pipeline over HTTP.
package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestid"
	apiKeyHeader    = "X-API-Key"

	// multipart framing and the job description on top of the file itself
	formOverhead = 1 << 20
)

// Config holds the HTTP settings.
type Config struct {
	Listen      string
	ReadTimeout time.Duration
	APIKey      string
}

// Server wraps the fiber application.
type Server struct {
	app    *fiber.App
	listen string
	logger *zap.Logger
}

// New builds the application and registers the routes. When cfg.APIKey is
// set the analysis routes require a matching X-API-Key header.
func New(cfg Config, h *Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "resume-ats",
		BodyLimit:             int(h.maxBytes) + formOverhead,
		ReadTimeout:           cfg.ReadTimeout,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header:     requestIDHeader,
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))

	Register(app, h, apiKeyAuth(cfg.APIKey))

	return &Server{app: app, listen: cfg.Listen, logger: logger}
}

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, h *Handler, auth fiber.Handler) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	v1.Get("/health", h.Health)
	v1.Get("/ready", h.Ready)

	rg := v1.Group("/resume")
	if auth != nil {
		rg.Use(auth)
	}
	rg.Post("/analyze", h.Analyze)
}

func apiKeyAuth(key string) fiber.Handler {
	if key == "" {
		return nil
	}
	return keyauth.New(keyauth.Config{
		KeyLookup: "header:" + apiKeyHeader,
		Validator: func(_ *fiber.Ctx, got string) (bool, error) {
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) == 1 {
				return true, nil
			}
			return false, keyauth.ErrMissingOrMalformedAPIKey
		},
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			return Error(c, http.StatusUnauthorized, "missing or invalid api key")
		},
	})
}

// App exposes the fiber application for tests.
func (s *Server) App() *fiber.App { return s.app }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errs := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", zap.String("listen", s.listen))
		errs <- s.app.Listen(s.listen)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			return err
		}
		if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}
