package heuristics_test

import (
	"testing"

	"lintang/tspanneal/pkg/datastructure"
	"lintang/tspanneal/pkg/engine/heuristics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestTwoOpt(t *testing.T) {
	t.Run("untangles the four vertex example", func(t *testing.T) {
		g := datastructure.NewGraph(4)
		g.SetEdge(1, 2, 5)
		g.SetEdge(1, 3, 3)
		g.SetEdge(1, 4, 2)
		g.SetEdge(2, 3, 4)
		g.SetEdge(2, 4, 6)
		g.SetEdge(3, 4, 6)

		tour := []int{1, 2, 4, 3}
		route, cost := heuristics.TwoOpt(g, tour)
		assert.Equal(t, datastructure.Cost(15), cost)
		assert.Equal(t, g.DistanceCycle(route), cost)
		assert.True(t, datastructure.IsPermutation(route, 4))
		assert.Equal(t, []int{1, 2, 4, 3}, tour)
	})

	t.Run("never worse than the annealed tour", func(t *testing.T) {
		g := randomGraph(t, 20, 60, 13)
		cfg := smallConfig()
		cfg.PolishTwoOpt = true
		sa, err := heuristics.NewSimulatedAnnealing(g, 20, cfg, rand.New(rand.NewSource(13)))
		require.NoError(t, err)
		res := sa.Solve()
		require.NotNil(t, res.Polished)

		route, cost := heuristics.TwoOpt(g, res.Tour)
		assert.Equal(t, route, res.Polished.Tour)
		assert.Equal(t, cost, res.Polished.Cost)
		assert.True(t, datastructure.IsPermutation(route, 20))
		assert.LessOrEqual(t, cost, g.DistanceCycle(res.Tour))
		assert.Equal(t, g.DistanceCycle(route), cost)
	})

	t.Run("tiny tours are returned as is", func(t *testing.T) {
		g := datastructure.NewGraph(3)
		g.SetEdge(1, 2, 1)
		g.SetEdge(2, 3, 1)
		g.SetEdge(1, 3, 1)
		route, cost := heuristics.TwoOpt(g, []int{3, 1, 2})
		assert.Equal(t, []int{3, 1, 2}, route)
		assert.Equal(t, datastructure.Cost(3), cost)
	})
}
