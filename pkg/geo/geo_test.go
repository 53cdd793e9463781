package geo_test

import (
	"testing"

	"lintang/tspanneal/pkg/datastructure"
	"lintang/tspanneal/pkg/geo"

	"github.com/stretchr/testify/assert"
)

func TestGreatCircleMeters(t *testing.T) {
	// one degree of latitude is about 111.2 km
	d := geo.GreatCircleMeters(datastructure.NewCoordinate(0, 0), datastructure.NewCoordinate(1, 0))
	assert.InDelta(t, 111195, d, 50)
	assert.Equal(t, 0.0, geo.GreatCircleMeters(datastructure.NewCoordinate(-7.5, 110.8), datastructure.NewCoordinate(-7.5, 110.8)))
}

func TestEdgeWeight(t *testing.T) {
	p := datastructure.NewCoordinate(-7.55, 110.8)
	assert.Equal(t, datastructure.Weight(1), geo.EdgeWeight(p, p))
	assert.Equal(t, datastructure.Weight(111195), geo.EdgeWeight(datastructure.NewCoordinate(0, 0), datastructure.NewCoordinate(1, 0)))
}

func TestGraphFromCoordinates(t *testing.T) {
	coords := []datastructure.Coordinate{
		datastructure.NewCoordinate(0, 0),
		datastructure.NewCoordinate(0, 1),
		datastructure.NewCoordinate(1, 1),
	}
	g := geo.GraphFromCoordinates(coords)
	assert.Equal(t, 3, g.NumberOfVertex())
	assert.Len(t, g.Edges(), 3)
	assert.Equal(t, g.WeightAt(1, 3), g.WeightAt(3, 1))
	assert.Greater(t, g.WeightAt(1, 3), g.WeightAt(1, 2))
}

func TestRenderPath(t *testing.T) {
	path := []datastructure.Coordinate{
		datastructure.NewCoordinate(38.5, -120.2),
		datastructure.NewCoordinate(40.7, -120.95),
		datastructure.NewCoordinate(43.252, -126.453),
	}
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", geo.RenderPath(path))
	assert.Equal(t, "", geo.RenderPath(nil))
}
