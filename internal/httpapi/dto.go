package httpapi

import (
	"github.com/UnknownOlympus/compass/internal/mapview"
	"github.com/UnknownOlympus/compass/internal/models"
)

type searchTextRequest struct {
	Text string `json:"text" validate:"max=512"`
}

type searchRequest struct {
	Text string `json:"text" validate:"max=512"`
}

// coordinateRequest uses pointers so that a missing field differs from zero.
type coordinateRequest struct {
	Latitude  *float64 `json:"latitude"  validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

func (r coordinateRequest) coordinates() models.Coordinates {
	return models.Coordinates{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

type successResponse struct {
	Data any `json:"data"`
}

// outcomeResponse reports an operation without its internal cause.
type outcomeResponse struct {
	ID        string            `json:"id"`
	Operation mapview.Operation `json:"operation"`
	Kind      mapview.Kind      `json:"kind"`
	OK        bool              `json:"ok"`
	State     mapview.State     `json:"state"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Fields  []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}
