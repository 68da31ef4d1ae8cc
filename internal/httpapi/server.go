// Package httpapi exposes the map view to presentation clients as a JSON API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/compass/internal/mapview"
	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// DefaultRequestTimeout bounds how long a request waits for its operation outcome.
const DefaultRequestTimeout = 30 * time.Second

// View is the part of the map view served over HTTP.
type View interface {
	Snapshot() mapview.State
	SetSearchText(ctx context.Context, text string) <-chan mapview.Outcome
	SubmitSearch(ctx context.Context, text string) <-chan mapview.Outcome
	RequestDirections(ctx context.Context, destination models.Coordinates) <-chan mapview.Outcome
	RequestLookAround(ctx context.Context, at models.Coordinates) <-chan mapview.Outcome
	DismissScene(ctx context.Context) <-chan mapview.Outcome
}

// Publisher accepts position fixes pushed by clients.
type Publisher interface {
	Publish(at models.Coordinates)
}

// Server is the HTTP server of the map API.
type Server struct {
	app       *fiber.App
	view      View
	publisher Publisher
	log       *slog.Logger
	timeout   time.Duration
}

// NewServer creates the API server and registers its routes. With a nil
// publisher the location route answers 409.
func NewServer(
	view View,
	publisher Publisher,
	log *slog.Logger,
	appMetrics *metrics.Metrics,
	timeout time.Duration,
) *Server {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	app := fiber.New(fiber.Config{
		AppName:               "Compass",
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          timeout + 10*time.Second,
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	s := &Server{app: app, view: view, publisher: publisher, log: log, timeout: timeout}

	app.Use(requestLogger(log, appMetrics))
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	api := s.app.Group("/api/v1")

	api.Get("/state", s.getState)
	api.Put("/search-text", s.putSearchText)
	api.Post("/search", s.postSearch)
	api.Post("/directions", s.postDirections)
	api.Post("/look-around", s.postLookAround)
	api.Delete("/look-around", s.deleteLookAround)
	api.Put("/location", s.putLocation)
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves the API on port until Shutdown is called.
func (s *Server) Listen(port int) error {
	s.log.Info("Starting API server", "port", port)
	return s.app.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			re *requestError
			fe *fiber.Error
		)
		switch {
		case errors.As(err, &re):
			log.DebugContext(c.UserContext(), "Bad request", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
				Error: errorBody{Code: fiber.StatusBadRequest, Message: re.message, Fields: re.fields},
			})
		case errors.As(err, &fe):
			log.DebugContext(c.UserContext(), "HTTP error", "path", c.Path(), "status", fe.Code, "error", err)
			return c.Status(fe.Code).JSON(errorResponse{Error: errorBody{Code: fe.Code, Message: fe.Message}})
		default:
			log.ErrorContext(c.UserContext(), "HTTP error", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
				Error: errorBody{Code: fiber.StatusInternalServerError, Message: "internal server error"},
			})
		}
	}
}
