package heuristics

import (
	"math"
	"time"

	"lintang/tspanneal/pkg/datastructure"
	"lintang/tspanneal/pkg/server"

	"golang.org/x/exp/rand"
)

type TracePoint struct {
	Elapsed time.Duration
	Cost    datastructure.Cost
}

type BestState struct {
	Tour []int
	Cost datastructure.Cost
}

// Result is the final accepted state of a run, not the best one seen. Best
// is only set when the config asks for it.
type Result struct {
	Tour             []int
	Cost             datastructure.Cost
	Trace            []TracePoint
	TraceDropped     int64
	Eras             int
	Iterations       int64
	Accepted         int64
	FinalTemperature float64
	Best             *BestState
	Polished         *BestState
}

type EraHook func(era int, temperature float64, cost datastructure.Cost)

type Option func(*SimulatedAnnealing)

// WithClock replaces the wall clock used for trace timestamps. The function
// returns the time elapsed since the run started.
func WithClock(clock func() time.Duration) Option {
	return func(sa *SimulatedAnnealing) {
		sa.clock = clock
	}
}

// WithEraHook is called once per era, after cooling.
func WithEraHook(hook EraHook) Option {
	return func(sa *SimulatedAnnealing) {
		sa.eraHook = hook
	}
}

type SimulatedAnnealing struct {
	graph   *datastructure.Graph
	n       int
	cfg     AnnealingConfig
	rng     *rand.Rand
	clock   func() time.Duration
	eraHook EraHook
}

// NewSimulatedAnnealing validates the schedule up front: a run that passes
// here always terminates.
func NewSimulatedAnnealing(graph *datastructure.Graph, n int, cfg AnnealingConfig, rng *rand.Rand, opts ...Option) (*SimulatedAnnealing, error) {
	if graph == nil {
		return nil, server.WrapErrorf(nil, server.ErrBadParamInput, "graph is required")
	}
	if rng == nil {
		return nil, server.WrapErrorf(nil, server.ErrBadParamInput, "random generator is required")
	}
	if n < 2 {
		return nil, server.WrapErrorf(nil, server.ErrBadParamInput, "tour needs at least 2 vertices, got %d", n)
	}
	if n > graph.NumberOfVertex() {
		return nil, server.WrapErrorf(nil, server.ErrBadParamInput, "tour of %d vertices does not fit a %d vertex graph", n, graph.NumberOfVertex())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sa := &SimulatedAnnealing{
		graph: graph,
		n:     n,
		cfg:   cfg,
		rng:   rng,
	}
	for _, opt := range opts {
		opt(sa)
	}
	return sa, nil
}

// acceptanceProbability is the Metropolis rule: non-worsening moves always
// pass, worse ones with exp(-delta/T).
func acceptanceProbability(energy, newEnergy datastructure.Cost, temperature float64) float64 {
	if newEnergy <= energy {
		return 1.0
	}
	return math.Exp(-float64(newEnergy-energy) / temperature)
}

// pickSwapPositions draws two distinct tour positions uniformly without
// replacement.
func pickSwapPositions(rng *rand.Rand, n int) (int, int) {
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return i, j
}

// affectedEdges returns the distinct cycle edges touching positions i and j.
// Edge k joins position k and position (k+1)%n.
func affectedEdges(n, i, j int, buf *[4]int) []int {
	out := buf[:0]
	for _, k := range [4]int{(i + n - 1) % n, i, (j + n - 1) % n, j} {
		dup := false
		for _, e := range out {
			if e == k {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, k)
		}
	}
	return out
}

func (sa *SimulatedAnnealing) edgesCost(tour []int, edges []int) datastructure.Cost {
	var sum datastructure.Cost
	for _, k := range edges {
		sum += datastructure.Cost(sa.graph.Distance(tour[k], tour[(k+1)%len(tour)]))
	}
	return sum
}

// Solve runs the annealing loop until the temperature drops below the floor.
// Each candidate is the current tour with two positions swapped; its cycle
// cost is derived from the current one by replacing the touched edges.
func (sa *SimulatedAnnealing) Solve() Result {
	start := time.Now()
	clock := sa.clock
	if clock == nil {
		clock = func() time.Duration { return time.Since(start) }
	}

	n := sa.n
	tour := datastructure.IdentityTour(n)
	cycleCost := sa.graph.DistanceCycle(tour)

	currentCost := sa.graph.DistanceVec(tour)
	if sa.cfg.NormalizeInitialCost {
		currentCost = cycleCost
	}

	var best *BestState
	if sa.cfg.TrackBest {
		best = &BestState{Tour: append([]int(nil), tour...), Cost: cycleCost}
	}

	res := Result{}
	res.Trace = make([]TracePoint, 0, traceCapacity(sa.cfg))

	temperature := sa.cfg.InitialTemperature
	var buf [4]int
	for {
		for it := 0; it < sa.cfg.EraLength; it++ {
			res.Iterations++
			i, j := pickSwapPositions(sa.rng, n)
			edges := affectedEdges(n, i, j, &buf)

			before := sa.edgesCost(tour, edges)
			tour[i], tour[j] = tour[j], tour[i]
			candidateCost := cycleCost - before + sa.edgesCost(tour, edges)

			if candidateCost > currentCost {
				p := acceptanceProbability(currentCost, candidateCost, temperature)
				u := sa.rng.Float64()
				if p <= 0 || u > p {
					tour[i], tour[j] = tour[j], tour[i]
					continue
				}
			}

			cycleCost = candidateCost
			currentCost = candidateCost
			res.Accepted++
			if sa.cfg.MaxTracePoints == 0 || len(res.Trace) < sa.cfg.MaxTracePoints {
				res.Trace = append(res.Trace, TracePoint{Elapsed: clock(), Cost: currentCost})
			} else {
				res.TraceDropped++
			}
			if best != nil && currentCost < best.Cost {
				best.Cost = currentCost
				copy(best.Tour, tour)
			}
		}

		res.Eras++
		temperature *= sa.cfg.CoolingMultiplier
		if sa.eraHook != nil {
			sa.eraHook(res.Eras, temperature, currentCost)
		}
		if temperature < sa.cfg.TemperatureFloor {
			break
		}
	}

	res.Tour = tour
	res.Cost = currentCost
	res.FinalTemperature = temperature
	res.Best = best
	if sa.cfg.PolishTwoOpt {
		route, cost := TwoOpt(sa.graph, tour)
		res.Polished = &BestState{Tour: route, Cost: cost}
	}
	return res
}

// initialTraceCap bounds the trace preallocation, append grows it past that.
const initialTraceCap = 1 << 16

func traceCapacity(cfg AnnealingConfig) int {
	c := min(cfg.EraLength, initialTraceCap)
	if cfg.MaxTracePoints > 0 {
		c = min(c, cfg.MaxTracePoints)
	}
	return max(c, 0)
}

// ErasUntilFloor is how many eras the schedule runs before stopping. The
// harness uses it as the era count of its progress bar.
func ErasUntilFloor(cfg AnnealingConfig) int {
	eras := 0
	t := cfg.InitialTemperature
	for {
		eras++
		t *= cfg.CoolingMultiplier
		if t < cfg.TemperatureFloor || eras == math.MaxInt32 {
			return eras
		}
	}
}
