package models

// Annotation is a fixed labeled marker drawn on the map.
type Annotation struct {
	Title    string      `json:"title"`
	Location Coordinates `json:"location"`
}

// Landmarks returns the markers always shown on the map.
func Landmarks() []Annotation {
	return []Annotation{
		{Title: "My Home", Location: Home},
		{Title: "Allianz Arena", Location: AllianzArena},
	}
}
