package geo

import (
	"math"

	"lintang/tspanneal/pkg/datastructure"

	"github.com/golang/geo/s2"
	"github.com/twpayne/go-polyline"
)

const earthRadiusMeters = 6371008.8

// GreatCircleMeters is the s2 angular distance between two points scaled to
// the mean earth radius.
func GreatCircleMeters(a, b datastructure.Coordinate) float64 {
	pa := s2.LatLngFromDegrees(a.Lat, a.Lon)
	pb := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return pa.Distance(pb).Radians() * earthRadiusMeters
}

// EdgeWeight rounds the distance to whole meters. Distinct points never
// get weight 0, which would read as "no edge".
func EdgeWeight(a, b datastructure.Coordinate) datastructure.Weight {
	d := math.Round(GreatCircleMeters(a, b))
	if d < 1 {
		d = 1
	}
	if d >= float64(datastructure.SentinelWeight) {
		return datastructure.SentinelWeight - 1
	}
	return datastructure.Weight(d)
}

// GraphFromCoordinates builds the complete graph whose vertex i sits at
// coords[i-1].
func GraphFromCoordinates(coords []datastructure.Coordinate) *datastructure.Graph {
	g := datastructure.NewGraph(len(coords))
	for i := 2; i <= len(coords); i++ {
		for j := 1; j < i; j++ {
			g.SetEdge(i, j, EdgeWeight(coords[i-1], coords[j-1]))
		}
	}
	return g
}

// RenderPath encodes the coordinates as a google polyline.
func RenderPath(path []datastructure.Coordinate) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}
