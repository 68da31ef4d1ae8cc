package mapview

import (
	"time"

	"github.com/UnknownOlympus/compass/internal/models"
)

// State is the view state observed by the presentation layer.
// Values reachable from a State are replaced on update, never modified in place,
// so a snapshot stays consistent after later mutations.
type State struct {
	SearchText   string              `json:"search_text"`
	Placemark    *models.Placemark   `json:"placemark,omitempty"`
	Route        *models.Route       `json:"route,omitempty"`
	Scene        *models.Scene       `json:"scene,omitempty"`
	Region       models.Region       `json:"region"`
	SceneVisible bool                `json:"scene_visible"`
	UserLocation *models.Coordinates `json:"user_location,omitempty"` // latest live fix, nil until one arrives
	Annotations  []models.Annotation `json:"annotations"`             // fixed markers, never modified
	LastError    *OperationError     `json:"last_error,omitempty"`
}

// OperationError describes the most recent failed operation.
type OperationError struct {
	Operation Operation `json:"operation"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"-"` // cause, kept for logs only
	At        time.Time `json:"at"`
}

func initialState() State {
	return State{
		Region:      models.NewRegion(models.Home),
		Annotations: models.Landmarks(),
	}
}
