package harness_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"lintang/tspanneal/pkg/datastructure"
	"lintang/tspanneal/pkg/engine/heuristics"
	"lintang/tspanneal/pkg/graphgen"
	"lintang/tspanneal/pkg/harness"
	"lintang/tspanneal/pkg/kv"
	"lintang/tspanneal/pkg/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestArtifacts(t *testing.T) {
	t.Run("paths", func(t *testing.T) {
		assert.Equal(t, "in.csv_3.out.csv", harness.ResultPath("in.csv", 3))
		assert.Equal(t, "in.csv_0.plot.csv", harness.TracePath("in.csv", 0))
		assert.Equal(t, "in.csv.out.mem", harness.MemPath("in.csv"))
	})

	t.Run("result line", func(t *testing.T) {
		line := harness.ResultLine(1500*time.Nanosecond, 17, []int{1, 2, 3, 4})
		assert.Equal(t, "1500, 17, [1 - 2 - 3 - 4]\n", line)
	})

	t.Run("trace lines", func(t *testing.T) {
		var buf bytes.Buffer
		err := harness.WriteTraceTo(&buf, []heuristics.TracePoint{
			{Elapsed: 10, Cost: 30},
			{Elapsed: 25, Cost: 21},
		})
		require.NoError(t, err)
		assert.Equal(t, "10, 30\n25, 21\n", buf.String())
	})

	t.Run("unwritable result", func(t *testing.T) {
		err := harness.WriteResult(filepath.Join(t.TempDir(), "no", "x.out.csv"), 0, 0, nil)
		assert.Equal(t, server.ErrIO, server.ErrorCode(err))
	})
}

func TestMeasureExecutionTime(t *testing.T) {
	t.Run("returns the function result", func(t *testing.T) {
		d, v := harness.MeasureExecutionTime(harness.MeasureOptions{SampleInterval: time.Millisecond}, func() int {
			time.Sleep(5 * time.Millisecond)
			return 42
		})
		assert.Equal(t, 42, v)
		assert.GreaterOrEqual(t, d, 5*time.Millisecond)
	})

	t.Run("budget callback fires once", func(t *testing.T) {
		var calls atomic.Int32
		_, _ = harness.MeasureExecutionTime(harness.MeasureOptions{
			Budget:         5 * time.Millisecond,
			SampleInterval: time.Millisecond,
			OnBudgetExceeded: func(elapsed time.Duration) {
				calls.Add(1)
			},
		}, func() struct{} {
			time.Sleep(50 * time.Millisecond)
			return struct{}{}
		})
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("fast run never hits the budget", func(t *testing.T) {
		var calls atomic.Int32
		_, _ = harness.MeasureExecutionTime(harness.MeasureOptions{
			Budget:           time.Hour,
			SampleInterval:   time.Millisecond,
			OnBudgetExceeded: func(time.Duration) { calls.Add(1) },
		}, func() int { return 0 })
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("memory samples", func(t *testing.T) {
		memFile := filepath.Join(t.TempDir(), "in.csv.out.mem")
		_, _ = harness.MeasureExecutionTime(harness.MeasureOptions{
			SampleInterval: time.Millisecond,
			MemFile:        memFile,
		}, func() int {
			time.Sleep(20 * time.Millisecond)
			return 0
		})
		data, err := os.ReadFile(memFile)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		require.NotEmpty(t, lines)
		assert.Len(t, strings.Split(lines[0], ", "), 3)
	})
}

type memStore struct {
	recs []kv.RunRecord
}

func (m *memStore) SaveRun(rec kv.RunRecord) (string, error) {
	m.recs = append(m.recs, rec)
	return "run-" + string(rune('a'+len(m.recs)-1)), nil
}

func testConfig() heuristics.AnnealingConfig {
	return heuristics.AnnealingConfig{
		InitialTemperature: 50,
		EraLength:          100,
		TemperatureFloor:   1,
		CoolingMultiplier:  0.5,
	}
}

func TestRunner(t *testing.T) {
	g, err := graphgen.GenerateRandomCompleteGraph(rand.New(rand.NewSource(1)), 8, graphgen.WeightRange{Min: 1, Max: 30}, 10)
	require.NoError(t, err)
	g.SetZeroToMax()

	t.Run("writes artifacts per run", func(t *testing.T) {
		input := filepath.Join(t.TempDir(), "in.csv")
		runner, err := harness.NewRunner(g, harness.RunnerConfig{
			Input:          input,
			Tests:          3,
			Workers:        2,
			Seed:           5,
			Annealing:      testConfig(),
			SampleInterval: time.Millisecond,
			WriteArtifacts: true,
		}, nil, nil)
		require.NoError(t, err)

		outcomes := runner.Run()
		require.Len(t, outcomes, 3)
		for i, out := range outcomes {
			require.NoError(t, out.Err)
			assert.Equal(t, i, out.Index)
			assert.Equal(t, harness.DeriveSeed(5, i), out.Seed)
			assert.True(t, datastructure.IsPermutation(out.Result.Tour, 8))

			data, err := os.ReadFile(harness.ResultPath(input, i))
			require.NoError(t, err)
			assert.Equal(t, harness.ResultLine(out.Duration, out.Result.Cost, out.Result.Tour), string(data))

			trace, err := os.ReadFile(harness.TracePath(input, i))
			require.NoError(t, err)
			assert.Equal(t, len(out.Result.Trace), strings.Count(string(trace), "\n"))
		}
		_, err = os.Stat(harness.MemPath(input))
		assert.NoError(t, err)
	})

	t.Run("stores runs", func(t *testing.T) {
		store := &memStore{}
		runner, err := harness.NewRunner(g, harness.RunnerConfig{
			Input:     "mem",
			Tests:     2,
			Workers:   1,
			Seed:      9,
			Annealing: testConfig(),
		}, store, nil)
		require.NoError(t, err)

		outcomes := runner.Run()
		require.Len(t, store.recs, 2)
		for _, out := range outcomes {
			require.NoError(t, out.Err)
			assert.NotEmpty(t, out.RunID)
		}
		for _, rec := range store.recs {
			assert.Equal(t, "mem", rec.Input)
			assert.Len(t, rec.Tour, 8)
			assert.Equal(t, rec.Accepted, int64(len(rec.Trace))+rec.TraceDropped)
		}
	})

	t.Run("single worker drives the era bar", func(t *testing.T) {
		runner, err := harness.NewRunner(g, harness.RunnerConfig{Tests: 1, Workers: 1, Seed: 3, Annealing: testConfig(), Spinner: true}, nil, nil)
		require.NoError(t, err)

		outcomes := runner.Run()
		require.Len(t, outcomes, 1)
		require.NoError(t, outcomes[0].Err)
		assert.Equal(t, heuristics.ErasUntilFloor(testConfig()), outcomes[0].Result.Eras)
	})

	t.Run("same seed same batch", func(t *testing.T) {
		run := func() []harness.RunOutcome {
			runner, err := harness.NewRunner(g, harness.RunnerConfig{Tests: 3, Workers: 3, Seed: 21, Annealing: testConfig()}, nil, nil)
			require.NoError(t, err)
			return runner.Run()
		}
		a, b := run(), run()
		for i := range a {
			assert.Equal(t, a[i].Result.Tour, b[i].Result.Tour)
			assert.Equal(t, a[i].Result.Cost, b[i].Result.Cost)
		}
	})

	t.Run("rejects bad configs", func(t *testing.T) {
		_, err := harness.NewRunner(g, harness.RunnerConfig{Tests: 0, Annealing: testConfig()}, nil, nil)
		assert.Equal(t, server.ErrBadParamInput, server.ErrorCode(err))

		cfg := testConfig()
		cfg.CoolingMultiplier = 1
		_, err = harness.NewRunner(g, harness.RunnerConfig{Tests: 1, Annealing: cfg}, nil, nil)
		assert.Equal(t, server.ErrBadParamInput, server.ErrorCode(err))

		_, err = harness.NewRunner(nil, harness.RunnerConfig{Tests: 1, Annealing: testConfig()}, nil, nil)
		assert.Equal(t, server.ErrBadParamInput, server.ErrorCode(err))
	})
}

func TestDeriveSeed(t *testing.T) {
	seen := map[uint64]bool{}
	for i := 0; i < 100; i++ {
		s := harness.DeriveSeed(1, i)
		assert.False(t, seen[s])
		seen[s] = true
	}
	assert.Equal(t, harness.DeriveSeed(7, 3), harness.DeriveSeed(7, 3))
	assert.NotEqual(t, harness.DeriveSeed(7, 3), harness.DeriveSeed(8, 3))
}

func TestNewRunRecord(t *testing.T) {
	res := heuristics.Result{
		Tour:     []int{2, 1, 3},
		Cost:     9,
		Trace:    []heuristics.TracePoint{{Elapsed: 4, Cost: 9}},
		Eras:     2,
		Accepted: 1,
		Best:     &heuristics.BestState{Tour: []int{1, 2, 3}, Cost: 8},
	}
	created := time.Unix(0, 1000)
	rec := harness.NewRunRecord("in.csv", 3, created, 7, res)
	assert.Equal(t, []int32{2, 1, 3}, rec.Tour)
	assert.Equal(t, uint64(9), rec.Cost)
	assert.Equal(t, int64(1000), rec.CreatedAtNs)
	assert.Equal(t, int64(7), rec.DurationNs)
	assert.True(t, rec.HasBest)
	assert.Equal(t, uint64(8), rec.BestCost)
	assert.Equal(t, []kv.TracePointRecord{{ElapsedNs: 4, Cost: 9}}, rec.Trace)
}
