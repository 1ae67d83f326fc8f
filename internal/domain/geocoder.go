package domain

// Coordinate is a WGS-84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocoder resolves free-text locations to coordinates.
type Geocoder interface {
	// Resolve maps a location string to a coordinate. The boolean is false
	// when the location cannot be placed; such rows are left off the map.
	Resolve(location string) (Coordinate, bool)
}
