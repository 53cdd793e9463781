package service

import (
	"context"
	"log/slog"
	"time"

	"lintang/tspanneal/pkg/datastructure"
	"lintang/tspanneal/pkg/engine/heuristics"
	"lintang/tspanneal/pkg/geo"
	"lintang/tspanneal/pkg/graphgen"
	"lintang/tspanneal/pkg/harness"
	"lintang/tspanneal/pkg/kv"
	"lintang/tspanneal/pkg/logging"
	"lintang/tspanneal/pkg/server"

	"golang.org/x/exp/rand"
)

type RunStore interface {
	SaveRun(rec kv.RunRecord) (string, error)
	GetRun(id string) (kv.RunRecord, error)
}

type AnnealOutcome struct {
	RunID       string
	Duration    time.Duration
	Result      heuristics.Result
	Coordinates []datastructure.Coordinate
	Polyline    string
}

type TSPService struct {
	store       RunStore
	maxVertices int
	log         *slog.Logger
}

// NewTSPService builds the service. store may be nil, runs are then not
// persisted and GetRun reports not found.
func NewTSPService(store RunStore, maxVertices int, logger *slog.Logger) *TSPService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &TSPService{store: store, maxVertices: maxVertices, log: logger}
}

func (uc *TSPService) checkSize(n int) error {
	if n < 2 {
		return server.WrapErrorf(nil, server.ErrBadParamInput, "graph needs at least 2 vertices, got %d", n)
	}
	if uc.maxVertices > 0 && n > uc.maxVertices {
		return server.WrapErrorf(nil, server.ErrBadParamInput, "graph of %d vertices exceeds the limit of %d", n, uc.maxVertices)
	}
	return nil
}

// BuildGraph turns a request edge list into a graph. Pairs without an edge
// keep weight 0 until the caller applies SetZeroToMax.
func (uc *TSPService) BuildGraph(n int, edges []datastructure.Edge) (*datastructure.Graph, error) {
	if err := uc.checkSize(n); err != nil {
		return nil, err
	}
	graph := datastructure.NewGraph(n)
	for i, e := range edges {
		if e.From < 1 || e.From > n || e.To < 1 || e.To > n {
			return nil, server.WrapErrorf(nil, server.ErrBadParamInput, "edge %d: vertex outside 1..%d", i, n)
		}
		if e.From == e.To {
			return nil, server.WrapErrorf(nil, server.ErrBadParamInput, "edge %d: self loop on vertex %d", i, e.From)
		}
		graph.SetEdge(e.From, e.To, e.Weight)
	}
	return graph, nil
}

func (uc *TSPService) anneal(ctx context.Context, input string, graph *datastructure.Graph, cfg heuristics.AnnealingConfig, seed uint64) (AnnealOutcome, error) {
	if err := ctx.Err(); err != nil {
		return AnnealOutcome{}, server.WrapErrorf(err, server.ErrBadParamInput, "request cancelled")
	}
	graph.SetZeroToMax()

	sa, err := heuristics.NewSimulatedAnnealing(graph, graph.NumberOfVertex(), cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return AnnealOutcome{}, err
	}

	createdAt := time.Now()
	res := sa.Solve()
	out := AnnealOutcome{Duration: time.Since(createdAt), Result: res}
	uc.log.Info("anneal finished", "input", input, "n", graph.NumberOfVertex(), "cost", res.Cost, "duration", out.Duration)

	if uc.store != nil {
		id, err := uc.store.SaveRun(harness.NewRunRecord(input, seed, createdAt, out.Duration, res))
		if err != nil {
			return out, err
		}
		out.RunID = id
	}
	return out, nil
}

func (uc *TSPService) Anneal(ctx context.Context, n int, edges []datastructure.Edge, cfg heuristics.AnnealingConfig, seed uint64) (AnnealOutcome, error) {
	graph, err := uc.BuildGraph(n, edges)
	if err != nil {
		return AnnealOutcome{}, err
	}
	return uc.anneal(ctx, "http:edges", graph, cfg, seed)
}

// AnnealCoordinates solves over great-circle distances and returns the tour
// as coordinates plus its encoded polyline.
func (uc *TSPService) AnnealCoordinates(ctx context.Context, coords []datastructure.Coordinate, cfg heuristics.AnnealingConfig, seed uint64) (AnnealOutcome, error) {
	if err := uc.checkSize(len(coords)); err != nil {
		return AnnealOutcome{}, err
	}
	out, err := uc.anneal(ctx, "http:coordinates", geo.GraphFromCoordinates(coords), cfg, seed)
	if err != nil {
		return out, err
	}
	out.Coordinates = datastructure.TourCoordinates(out.Result.Tour, coords)
	out.Polyline = geo.RenderPath(out.Coordinates)
	return out, nil
}

func (uc *TSPService) RandomGraph(ctx context.Context, n int, weightRange graphgen.WeightRange, additionalEdges int, seed uint64) (*datastructure.Graph, error) {
	if err := uc.checkSize(n); err != nil {
		return nil, err
	}
	return graphgen.GenerateRandomCompleteGraph(rand.New(rand.NewSource(seed)), n, weightRange, additionalEdges)
}

func (uc *TSPService) GetRun(ctx context.Context, id string) (kv.RunRecord, error) {
	if uc.store == nil {
		return kv.RunRecord{}, server.WrapErrorf(nil, server.ErrNotFound, "run store is disabled")
	}
	return uc.store.GetRun(id)
}
