package service_test

import (
	"context"
	"testing"

	"lintang/tspanneal/pkg/datastructure"
	"lintang/tspanneal/pkg/engine/heuristics"
	"lintang/tspanneal/pkg/graphgen"
	"lintang/tspanneal/pkg/kv"
	"lintang/tspanneal/pkg/server"
	"lintang/tspanneal/pkg/server/rest/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	saved []kv.RunRecord
}

func (f *fakeStore) SaveRun(rec kv.RunRecord) (string, error) {
	f.saved = append(f.saved, rec)
	return "id-1", nil
}

func (f *fakeStore) GetRun(id string) (kv.RunRecord, error) {
	if len(f.saved) > 0 {
		return f.saved[0], nil
	}
	return kv.RunRecord{}, server.WrapErrorf(nil, server.ErrNotFound, "run %s not found", id)
}

func quickConfig() heuristics.AnnealingConfig {
	return heuristics.AnnealingConfig{
		InitialTemperature: 10,
		EraLength:          100,
		TemperatureFloor:   1,
		CoolingMultiplier:  0.5,
	}
}

func TestTSPService(t *testing.T) {
	ctx := context.Background()

	t.Run("anneal saves the run", func(t *testing.T) {
		store := &fakeStore{}
		svc := service.NewTSPService(store, 0, nil)
		out, err := svc.Anneal(ctx, 3, []datastructure.Edge{{From: 1, To: 2, Weight: 4}}, quickConfig(), 1)
		require.NoError(t, err)
		assert.Equal(t, "id-1", out.RunID)
		assert.True(t, datastructure.IsPermutation(out.Result.Tour, 3))
		require.Len(t, store.saved, 1)
		assert.Equal(t, "http:edges", store.saved[0].Input)
		assert.Equal(t, uint64(1), store.saved[0].Seed)

		rec, err := svc.GetRun(ctx, "id-1")
		require.NoError(t, err)
		assert.Equal(t, uint64(out.Result.Cost), rec.Cost)
	})

	t.Run("build graph rejects bad edges", func(t *testing.T) {
		svc := service.NewTSPService(nil, 10, nil)
		_, err := svc.BuildGraph(3, []datastructure.Edge{{From: 2, To: 2, Weight: 1}})
		assert.Equal(t, server.ErrBadParamInput, server.ErrorCode(err))
		_, err = svc.BuildGraph(3, []datastructure.Edge{{From: 0, To: 2, Weight: 1}})
		assert.Equal(t, server.ErrBadParamInput, server.ErrorCode(err))
		_, err = svc.BuildGraph(11, nil)
		assert.Equal(t, server.ErrBadParamInput, server.ErrorCode(err))

		g, err := svc.BuildGraph(3, []datastructure.Edge{{From: 3, To: 1, Weight: 6}})
		require.NoError(t, err)
		assert.Equal(t, datastructure.Weight(6), g.WeightAt(1, 3))
	})

	t.Run("coordinates come back as a closed route", func(t *testing.T) {
		svc := service.NewTSPService(nil, 0, nil)
		coords := []datastructure.Coordinate{
			datastructure.NewCoordinate(-7.55, 110.80),
			datastructure.NewCoordinate(-7.56, 110.82),
			datastructure.NewCoordinate(-7.58, 110.79),
		}
		out, err := svc.AnnealCoordinates(ctx, coords, quickConfig(), 2)
		require.NoError(t, err)
		assert.Empty(t, out.RunID)
		require.Len(t, out.Coordinates, 4)
		assert.Equal(t, out.Coordinates[0], out.Coordinates[3])
		assert.NotEmpty(t, out.Polyline)
	})

	t.Run("random graph", func(t *testing.T) {
		svc := service.NewTSPService(nil, 0, nil)
		g, err := svc.RandomGraph(ctx, 5, graphgen.WeightRange{Min: 1, Max: 9}, 2, 3)
		require.NoError(t, err)
		assert.Len(t, g.Edges(), 6)

		_, err = svc.RandomGraph(ctx, 5, graphgen.WeightRange{Min: 1, Max: 9}, 7, 3)
		assert.Equal(t, server.ErrConstruction, server.ErrorCode(err))
	})

	t.Run("no store", func(t *testing.T) {
		svc := service.NewTSPService(nil, 0, nil)
		_, err := svc.GetRun(ctx, "x")
		assert.Equal(t, server.ErrNotFound, server.ErrorCode(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		svc := service.NewTSPService(nil, 0, nil)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := svc.Anneal(cctx, 2, nil, quickConfig(), 1)
		assert.Error(t, err)
	})
}
