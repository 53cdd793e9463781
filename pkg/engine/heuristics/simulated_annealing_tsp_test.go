package heuristics_test

import (
	"math"
	"testing"
	"time"

	"lintang/tspanneal/pkg/datastructure"
	"lintang/tspanneal/pkg/engine/heuristics"
	"lintang/tspanneal/pkg/graphgen"
	"lintang/tspanneal/pkg/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func randomGraph(t *testing.T, n, extra int, seed uint64) *datastructure.Graph {
	t.Helper()
	g, err := graphgen.GenerateRandomCompleteGraph(rand.New(rand.NewSource(seed)), n, graphgen.WeightRange{Min: 1, Max: 100}, extra)
	require.NoError(t, err)
	g.SetZeroToMax()
	return g
}

func smallConfig() heuristics.AnnealingConfig {
	return heuristics.AnnealingConfig{
		InitialTemperature: 100,
		EraLength:          200,
		TemperatureFloor:   1,
		CoolingMultiplier:  0.5,
	}
}

func TestAnnealingConfigValidate(t *testing.T) {
	assert.NoError(t, heuristics.DefaultAnnealingConfig().Validate())

	for name, mutate := range map[string]func(*heuristics.AnnealingConfig){
		"cooling multiplier of one": func(c *heuristics.AnnealingConfig) { c.CoolingMultiplier = 1.0 },
		"cooling multiplier zero":   func(c *heuristics.AnnealingConfig) { c.CoolingMultiplier = 0 },
		"zero floor":                func(c *heuristics.AnnealingConfig) { c.TemperatureFloor = 0 },
		"negative floor":            func(c *heuristics.AnnealingConfig) { c.TemperatureFloor = -1 },
		"zero temperature":          func(c *heuristics.AnnealingConfig) { c.InitialTemperature = 0 },
		"empty era":                 func(c *heuristics.AnnealingConfig) { c.EraLength = 0 },
		"negative trace cap":        func(c *heuristics.AnnealingConfig) { c.MaxTracePoints = -1 },
		"infinite temperature":      func(c *heuristics.AnnealingConfig) { c.InitialTemperature = math.Inf(1) },
		"NaN temperature":           func(c *heuristics.AnnealingConfig) { c.InitialTemperature = math.NaN() },
		"infinite floor":            func(c *heuristics.AnnealingConfig) { c.TemperatureFloor = math.Inf(1) },
		"oversized era":             func(c *heuristics.AnnealingConfig) { c.EraLength = 1 << 40 },
		"era just past the limit":   func(c *heuristics.AnnealingConfig) { c.EraLength = heuristics.MaxEraLength + 1 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := heuristics.DefaultAnnealingConfig()
			mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, server.ErrBadParamInput, server.ErrorCode(err))
		})
	}
}

func TestNewSimulatedAnnealing(t *testing.T) {
	g := randomGraph(t, 5, 0, 1)
	rng := rand.New(rand.NewSource(1))

	_, err := heuristics.NewSimulatedAnnealing(g, 1, smallConfig(), rng)
	assert.Equal(t, server.ErrBadParamInput, server.ErrorCode(err))

	_, err = heuristics.NewSimulatedAnnealing(g, 6, smallConfig(), rng)
	assert.Equal(t, server.ErrBadParamInput, server.ErrorCode(err))

	_, err = heuristics.NewSimulatedAnnealing(nil, 5, smallConfig(), rng)
	assert.Equal(t, server.ErrBadParamInput, server.ErrorCode(err))

	_, err = heuristics.NewSimulatedAnnealing(g, 5, smallConfig(), nil)
	assert.Equal(t, server.ErrBadParamInput, server.ErrorCode(err))

	cfg := smallConfig()
	cfg.CoolingMultiplier = 1.0
	_, err = heuristics.NewSimulatedAnnealing(g, 5, cfg, rng)
	assert.Equal(t, server.ErrBadParamInput, server.ErrorCode(err))

	sa, err := heuristics.NewSimulatedAnnealing(g, 5, smallConfig(), rng)
	require.NoError(t, err)
	assert.NotNil(t, sa)
}

func TestSolve(t *testing.T) {
	t.Run("final tour is a permutation with its cycle cost", func(t *testing.T) {
		g := randomGraph(t, 12, 20, 9)
		sa, err := heuristics.NewSimulatedAnnealing(g, 12, smallConfig(), rand.New(rand.NewSource(5)))
		require.NoError(t, err)

		res := sa.Solve()
		assert.True(t, datastructure.IsPermutation(res.Tour, 12))
		require.Greater(t, res.Accepted, int64(0))
		assert.Equal(t, g.DistanceCycle(res.Tour), res.Cost)
		assert.Equal(t, heuristics.ErasUntilFloor(smallConfig()), res.Eras)
		assert.Equal(t, 7, res.Eras)
		assert.Equal(t, int64(7*200), res.Iterations)
		assert.Len(t, res.Trace, int(res.Accepted))
		assert.Less(t, res.FinalTemperature, 1.0)
		assert.Nil(t, res.Best)
		assert.Equal(t, res.Cost, res.Trace[len(res.Trace)-1].Cost)
	})

	t.Run("same seed same run", func(t *testing.T) {
		g := randomGraph(t, 10, 10, 2)
		run := func() heuristics.Result {
			sa, err := heuristics.NewSimulatedAnnealing(g, 10, smallConfig(), rand.New(rand.NewSource(77)),
				heuristics.WithClock(func() time.Duration { return 0 }))
			require.NoError(t, err)
			return sa.Solve()
		}
		a, b := run(), run()
		assert.Equal(t, a.Tour, b.Tour)
		assert.Equal(t, a.Cost, b.Cost)
		assert.Equal(t, a.Trace, b.Trace)
	})

	t.Run("near zero temperature never worsens", func(t *testing.T) {
		g := randomGraph(t, 15, 30, 4)
		cfg := heuristics.AnnealingConfig{
			InitialTemperature:   1e-9,
			EraLength:            2000,
			TemperatureFloor:     1e-10,
			CoolingMultiplier:    0.5,
			NormalizeInitialCost: true,
		}
		sa, err := heuristics.NewSimulatedAnnealing(g, 15, cfg, rand.New(rand.NewSource(11)))
		require.NoError(t, err)

		res := sa.Solve()
		prev := g.DistanceCycle(datastructure.IdentityTour(15))
		for _, p := range res.Trace {
			assert.LessOrEqual(t, p.Cost, prev)
			prev = p.Cost
		}
		assert.LessOrEqual(t, res.Cost, g.DistanceCycle(datastructure.IdentityTour(15)))
	})

	t.Run("no accepted move keeps the initial path cost", func(t *testing.T) {
		g := datastructure.NewGraph(2)
		g.SetEdge(1, 2, 10)
		cfg := heuristics.AnnealingConfig{
			InitialTemperature: 1e-9,
			EraLength:          50,
			TemperatureFloor:   1e-10,
			CoolingMultiplier:  0.5,
		}
		sa, err := heuristics.NewSimulatedAnnealing(g, 2, cfg, rand.New(rand.NewSource(1)))
		require.NoError(t, err)

		res := sa.Solve()
		assert.Equal(t, int64(0), res.Accepted)
		assert.Empty(t, res.Trace)
		assert.Equal(t, datastructure.Cost(10), res.Cost)
		assert.Equal(t, []int{1, 2}, res.Tour)
	})

	t.Run("normalized start accepts equal cost swaps", func(t *testing.T) {
		g := datastructure.NewGraph(2)
		g.SetEdge(1, 2, 10)
		cfg := heuristics.AnnealingConfig{
			InitialTemperature:   1e-9,
			EraLength:            50,
			TemperatureFloor:     1e-10,
			CoolingMultiplier:    0.5,
			NormalizeInitialCost: true,
		}
		sa, err := heuristics.NewSimulatedAnnealing(g, 2, cfg, rand.New(rand.NewSource(1)))
		require.NoError(t, err)

		res := sa.Solve()
		assert.Equal(t, res.Iterations, res.Accepted)
		assert.Equal(t, datastructure.Cost(20), res.Cost)
	})

	t.Run("track best", func(t *testing.T) {
		g := randomGraph(t, 12, 15, 6)
		cfg := smallConfig()
		cfg.TrackBest = true
		sa, err := heuristics.NewSimulatedAnnealing(g, 12, cfg, rand.New(rand.NewSource(3)))
		require.NoError(t, err)

		res := sa.Solve()
		require.NotNil(t, res.Best)
		assert.True(t, datastructure.IsPermutation(res.Best.Tour, 12))
		assert.Equal(t, g.DistanceCycle(res.Best.Tour), res.Best.Cost)
		assert.LessOrEqual(t, res.Best.Cost, g.DistanceCycle(datastructure.IdentityTour(12)))
		for _, p := range res.Trace {
			assert.LessOrEqual(t, res.Best.Cost, p.Cost)
		}
	})

	t.Run("trace cap counts dropped points", func(t *testing.T) {
		g := randomGraph(t, 10, 10, 8)
		cfg := smallConfig()
		cfg.MaxTracePoints = 5
		sa, err := heuristics.NewSimulatedAnnealing(g, 10, cfg, rand.New(rand.NewSource(8)))
		require.NoError(t, err)

		res := sa.Solve()
		require.Greater(t, res.Accepted, int64(5))
		assert.Len(t, res.Trace, 5)
		assert.Equal(t, res.Accepted, int64(len(res.Trace))+res.TraceDropped)
	})

	t.Run("clock and era hook", func(t *testing.T) {
		g := randomGraph(t, 8, 5, 10)
		hookCalls := 0
		lastTemp := smallConfig().InitialTemperature
		sa, err := heuristics.NewSimulatedAnnealing(g, 8, smallConfig(), rand.New(rand.NewSource(10)),
			heuristics.WithClock(func() time.Duration { return 42 * time.Nanosecond }),
			heuristics.WithEraHook(func(era int, temperature float64, cost datastructure.Cost) {
				hookCalls++
				assert.Equal(t, hookCalls, era)
				assert.Less(t, temperature, lastTemp)
				lastTemp = temperature
			}))
		require.NoError(t, err)

		res := sa.Solve()
		assert.Equal(t, res.Eras, hookCalls)
		for _, p := range res.Trace {
			assert.Equal(t, 42*time.Nanosecond, p.Elapsed)
		}
	})

	t.Run("tour over a prefix of the graph", func(t *testing.T) {
		g := randomGraph(t, 10, 10, 12)
		sa, err := heuristics.NewSimulatedAnnealing(g, 6, smallConfig(), rand.New(rand.NewSource(12)))
		require.NoError(t, err)
		res := sa.Solve()
		assert.True(t, datastructure.IsPermutation(res.Tour, 6))
	})
}

func TestErasUntilFloor(t *testing.T) {
	assert.Equal(t, 88, heuristics.ErasUntilFloor(heuristics.DefaultAnnealingConfig()))
	assert.Equal(t, 1, heuristics.ErasUntilFloor(heuristics.AnnealingConfig{
		InitialTemperature: 1, TemperatureFloor: 5, CoolingMultiplier: 0.5, EraLength: 1,
	}))
}
