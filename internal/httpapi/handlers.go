package httpapi

import (
	"context"

	"github.com/UnknownOlympus/compass/internal/mapview"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) getState(c *fiber.Ctx) error {
	return c.JSON(successResponse{Data: s.view.Snapshot()})
}

func (s *Server) putSearchText(c *fiber.Ctx) error {
	var req searchTextRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	return s.respond(c, func(ctx context.Context) <-chan mapview.Outcome {
		return s.view.SetSearchText(ctx, req.Text)
	})
}

// postSearch submits the text of the body, or the stored search text when the body has none.
func (s *Server) postSearch(c *fiber.Ctx) error {
	var req searchRequest
	if len(c.Body()) > 0 {
		if err := s.bind(c, &req); err != nil {
			return err
		}
	}

	return s.respond(c, func(ctx context.Context) <-chan mapview.Outcome {
		if req.Text == "" {
			return s.view.SubmitSearch(ctx, s.view.Snapshot().SearchText)
		}
		if outcome := <-s.view.SetSearchText(ctx, req.Text); !outcome.OK() {
			done := make(chan mapview.Outcome, 1)
			done <- outcome
			return done
		}
		return s.view.SubmitSearch(ctx, req.Text)
	})
}

func (s *Server) postDirections(c *fiber.Ctx) error {
	var req coordinateRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	return s.respond(c, func(ctx context.Context) <-chan mapview.Outcome {
		return s.view.RequestDirections(ctx, req.coordinates())
	})
}

func (s *Server) postLookAround(c *fiber.Ctx) error {
	var req coordinateRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	return s.respond(c, func(ctx context.Context) <-chan mapview.Outcome {
		return s.view.RequestLookAround(ctx, req.coordinates())
	})
}

func (s *Server) deleteLookAround(c *fiber.Ctx) error {
	return s.respond(c, s.view.DismissScene)
}

// putLocation feeds a client position fix into the location stream. The map
// view picks it up asynchronously, so the answer echoes the fix only.
func (s *Server) putLocation(c *fiber.Ctx) error {
	if s.publisher == nil {
		return fiber.NewError(fiber.StatusConflict, "location is not accepted by this server")
	}

	var req coordinateRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	at := req.coordinates()
	s.publisher.Publish(at)
	s.log.DebugContext(c.UserContext(), "Location published", "latitude", at.Latitude, "longitude", at.Longitude)

	return c.JSON(successResponse{Data: at})
}

// bind parses and validates the JSON body into req. The returned error is
// rendered as 400 by the error handler.
func (s *Server) bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return &requestError{message: "invalid request body", cause: err}
	}

	if err := validate.Struct(req); err != nil {
		return &requestError{message: "validation failed", fields: validationFields(err), cause: err}
	}

	return nil
}

// respond starts an operation, waits for its outcome and answers with it and
// the resulting state. Failed operations are still answered with 200.
func (s *Server) respond(c *fiber.Ctx, start func(ctx context.Context) <-chan mapview.Outcome) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), s.timeout)
	defer cancel()

	outcome := <-start(ctx)

	return c.JSON(successResponse{Data: outcomeResponse{
		ID:        outcome.ID.String(),
		Operation: outcome.Operation,
		Kind:      outcome.Kind,
		OK:        outcome.OK(),
		State:     s.view.Snapshot(),
	}})
}
