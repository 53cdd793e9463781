package datastructure

// Coordinate is a vertex position for graphs built from lat/lon points.
// Vertex i of such a graph sits at coords[i-1].
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

// TourCoordinates maps a tour over 1..len(coords) to the visited positions,
// closing the cycle by repeating the first one.
func TourCoordinates(tour []int, coords []Coordinate) []Coordinate {
	if len(tour) == 0 {
		return []Coordinate{}
	}
	res := make([]Coordinate, 0, len(tour)+1)
	for _, v := range tour {
		res = append(res, coords[v-1])
	}
	return append(res, coords[tour[0]-1])
}
