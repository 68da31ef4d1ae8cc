package models

// Scene is a handle to a street-level panorama tied to a coordinate.
type Scene struct {
	ID         string      `json:"id"`                    // ID is the provider's panorama identifier.
	Location   Coordinates `json:"location"`              // Location is where the panorama was captured.
	CapturedAt string      `json:"captured_at,omitempty"` // CapturedAt is the capture date as reported ("2019-05").
	Copyright  string      `json:"copyright,omitempty"`
}
