package harness

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"lintang/tspanneal/pkg/concurrent"
	"lintang/tspanneal/pkg/datastructure"
	"lintang/tspanneal/pkg/engine/heuristics"
	"lintang/tspanneal/pkg/kv"
	"lintang/tspanneal/pkg/logging"
	"lintang/tspanneal/pkg/server"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/exp/rand"
)

type RunStore interface {
	SaveRun(rec kv.RunRecord) (string, error)
}

type RunnerConfig struct {
	// Input names the artifacts: <Input>_<i>.out.csv and friends.
	Input     string
	Tests     int
	Workers   int
	Seed      uint64
	Annealing heuristics.AnnealingConfig

	Budget           time.Duration
	OnBudgetExceeded func(elapsed time.Duration)
	SampleInterval   time.Duration
	Spinner          bool
	WriteArtifacts   bool
}

type RunOutcome struct {
	Index    int
	Seed     uint64
	Duration time.Duration
	Result   heuristics.Result
	RunID    string
	Err      error
}

type Runner struct {
	graph *datastructure.Graph
	cfg   RunnerConfig
	store RunStore
	log   *slog.Logger
}

// NewRunner prepares a batch of independent runs. store may be nil.
func NewRunner(graph *datastructure.Graph, cfg RunnerConfig, store RunStore, logger *slog.Logger) (*Runner, error) {
	if graph == nil {
		return nil, server.WrapErrorf(nil, server.ErrBadParamInput, "graph is required")
	}
	if cfg.Tests < 1 {
		return nil, server.WrapErrorf(nil, server.ErrBadParamInput, "number of tests must be at least 1, got %d", cfg.Tests)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	// fail on a bad schedule before any run starts
	if _, err := heuristics.NewSimulatedAnnealing(graph, graph.NumberOfVertex(), cfg.Annealing, rand.New(rand.NewSource(cfg.Seed))); err != nil {
		return nil, err
	}
	return &Runner{graph: graph, cfg: cfg, store: store, log: logger}, nil
}

// DeriveSeed gives run i of a batch its own stream (SplitMix64 finalizer).
func DeriveSeed(base uint64, i int) uint64 {
	x := base ^ (uint64(i) + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Run executes every test and returns the outcomes ordered by index.
func (r *Runner) Run() []RunOutcome {
	workers := concurrent.NewWorkerPool[concurrent.RunJob, RunOutcome](r.cfg.Workers, r.cfg.Tests)
	for i := 0; i < r.cfg.Tests; i++ {
		workers.AddJob(concurrent.RunJob{Index: i, Seed: DeriveSeed(r.cfg.Seed, i)})
	}
	workers.Close()

	workers.Start(r.runOne)
	workers.Wait()

	outcomes := make([]RunOutcome, 0, r.cfg.Tests)
	for o := range workers.CollectResults() {
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Index < outcomes[j].Index })
	return outcomes
}

func (r *Runner) runOne(job concurrent.RunJob) RunOutcome {
	out := RunOutcome{Index: job.Index, Seed: job.Seed}
	n := r.graph.NumberOfVertex()
	logger := r.log.With("run", job.Index, "seed", job.Seed)

	var bar *progressbar.ProgressBar
	if r.cfg.Spinner && r.cfg.Workers == 1 {
		bar = NewEraBar(heuristics.ErasUntilFloor(r.cfg.Annealing), fmt.Sprintf("Annealing run %d", job.Index))
	}

	sa, err := heuristics.NewSimulatedAnnealing(r.graph, n, r.cfg.Annealing, rand.New(rand.NewSource(job.Seed)),
		heuristics.WithEraHook(func(era int, temperature float64, cost datastructure.Cost) {
			logger.Debug("era finished", "era", era, "temperature", temperature, "cost", cost)
			if bar != nil {
				_ = bar.Add(1)
			}
		}))
	if err != nil {
		out.Err = err
		return out
	}

	opts := MeasureOptions{
		Budget:           r.cfg.Budget,
		OnBudgetExceeded: r.cfg.OnBudgetExceeded,
		SampleInterval:   r.cfg.SampleInterval,
		Bar:              bar,
		Logger:           logger,
	}
	if r.cfg.WriteArtifacts {
		opts.MemFile = MemPath(r.cfg.Input)
	}

	createdAt := time.Now()
	out.Duration, out.Result = MeasureExecutionTime(opts, sa.Solve)
	logger.Info("run finished", "duration", out.Duration, "cost", out.Result.Cost, "accepted", out.Result.Accepted, "eras", out.Result.Eras)

	if r.cfg.WriteArtifacts {
		if err := WriteResult(ResultPath(r.cfg.Input, job.Index), out.Duration, out.Result.Cost, out.Result.Tour); err != nil {
			out.Err = err
			return out
		}
		if err := WriteTrace(TracePath(r.cfg.Input, job.Index), out.Result.Trace); err != nil {
			out.Err = err
			return out
		}
	}

	if r.store != nil {
		id, err := r.store.SaveRun(NewRunRecord(r.cfg.Input, job.Seed, createdAt, out.Duration, out.Result))
		if err != nil {
			out.Err = err
			return out
		}
		out.RunID = id
	}
	return out
}

// NewRunRecord converts a finished run into its stored form.
func NewRunRecord(input string, seed uint64, createdAt time.Time, d time.Duration, res heuristics.Result) kv.RunRecord {
	rec := kv.RunRecord{
		Input:        input,
		Seed:         seed,
		CreatedAtNs:  createdAt.UnixNano(),
		DurationNs:   d.Nanoseconds(),
		Cost:         uint64(res.Cost),
		Tour:         toInt32(res.Tour),
		Eras:         int64(res.Eras),
		Iterations:   res.Iterations,
		Accepted:     res.Accepted,
		TraceDropped: res.TraceDropped,
		Trace:        make([]kv.TracePointRecord, len(res.Trace)),
	}
	for i, p := range res.Trace {
		rec.Trace[i] = kv.TracePointRecord{ElapsedNs: p.Elapsed.Nanoseconds(), Cost: uint64(p.Cost)}
	}
	if res.Best != nil {
		rec.HasBest = true
		rec.BestCost = uint64(res.Best.Cost)
		rec.BestTour = toInt32(res.Best.Tour)
	}
	return rec
}

func toInt32(tour []int) []int32 {
	out := make([]int32, len(tour))
	for i, v := range tour {
		out[i] = int32(v)
	}
	return out
}
