package models

// Placemark is the resolved result of a text-to-location query.
type Placemark struct {
	Name     string       `json:"name,omitempty"`     // Name is the display name; empty when the service gave none.
	Location *Coordinates `json:"location,omitempty"` // Location is nil when the match has no coordinate.
}
