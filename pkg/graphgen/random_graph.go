package graphgen

import (
	"lintang/tspanneal/pkg/datastructure"
	"lintang/tspanneal/pkg/server"

	"golang.org/x/exp/rand"
)

// WeightRange is the half-open interval [Min, Max) edge weights are drawn from.
type WeightRange struct {
	Min datastructure.Weight
	Max datastructure.Weight
}

func (wr WeightRange) draw(rng *rand.Rand) datastructure.Weight {
	return wr.Min + datastructure.Weight(rng.Uint64n(uint64(wr.Max-wr.Min)))
}

// MaxEdges is the edge count of the complete graph on n vertices.
func MaxEdges(n int) int {
	return n * (n - 1) / 2
}

// GenerateRandomCompleteGraph builds a connected graph over 1..n: a random
// spanning tree (n-1 edges) followed by additionalEdges more edges on pairs
// that had none. Infeasible requests fail before anything is allocated.
func GenerateRandomCompleteGraph(rng *rand.Rand, n int, weightRange WeightRange, additionalEdges int) (*datastructure.Graph, error) {
	if n < 2 {
		return nil, server.WrapErrorf(nil, server.ErrConstruction, "graph needs at least 2 vertices, got %d", n)
	}
	if additionalEdges < 0 {
		return nil, server.WrapErrorf(nil, server.ErrConstruction, "additional edges must not be negative, got %d", additionalEdges)
	}
	if weightRange.Min == 0 || weightRange.Max <= weightRange.Min {
		return nil, server.WrapErrorf(nil, server.ErrConstruction, "weight range [%d, %d) must be non-empty and start above 0",
			weightRange.Min, weightRange.Max)
	}
	if n-1+additionalEdges > MaxEdges(n) {
		return nil, server.WrapErrorf(nil, server.ErrConstruction, "too many edges requested for %d vertex graph! %d/%d",
			n, n-1+additionalEdges, MaxEdges(n))
	}

	graph := datastructure.NewGraph(n)

	// spanning tree: vertex i hangs off a uniformly chosen earlier vertex.
	for i := 2; i <= n; i++ {
		parent := 1 + rng.Intn(i-1)
		graph.SetEdge(i, parent, weightRange.draw(rng))
	}

	for e := 0; e < additionalEdges; e++ {
		for {
			v1 := 2 + rng.Intn(n-1)
			v2 := 1 + rng.Intn(v1-1)
			if graph.AddEdgeIfNotExists(v1, v2, weightRange.draw(rng)) {
				break
			}
		}
	}

	return graph, nil
}
