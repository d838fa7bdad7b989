package domain

import "strconv"

// Immutable geographic coordinates (latitude, longitude) in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Render as "lat,lng" with five decimals, the directions query format.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lat, 'f', 5, 64) + "," + strconv.FormatFloat(c.Lng, 'f', 5, 64)
}

// Return coordinates as [lat, lng] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lat, c.Lng} }
