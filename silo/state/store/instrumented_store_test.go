package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v4"

	"github.com/johnewart/go-orleans-docstore/docdb"
	"github.com/johnewart/go-orleans-docstore/grains"
	"github.com/johnewart/go-orleans-docstore/metrics"
)

func counterTotal(scope tally.TestScope, name string, tags map[string]string) int64 {
	var total int64
	for _, c := range scope.Snapshot().Counters() {
		if c.Name() != name {
			continue
		}
		match := true
		for k, v := range tags {
			if c.Tags()[k] != v {
				match = false
			}
		}
		if match {
			total += c.Value()
		}
	}
	return total
}

func TestInstrumentedGrainStorage(t *testing.T) {
	inner, db := newTestStorage(t)
	scope := tally.NewTestScope("", nil)
	storage := NewInstrumentedGrainStorage(inner, metrics.NewScopedMetricRegistry(scope))
	ctx := context.Background()
	id := grains.NewStringKey("instrumented")

	gs := &grains.GrainState{}
	require.NoError(t, storage.ReadState(ctx, counterType, id, gs))
	require.False(t, gs.RecordExists)

	gs.State = &counterState{Value: 1}
	require.NoError(t, storage.WriteState(ctx, counterType, id, gs))
	require.True(t, gs.RecordExists)

	require.NoError(t, storage.ReadState(ctx, counterType, id, gs))
	require.Equal(t, &counterState{Value: 1}, gs.State)

	require.NoError(t, storage.ClearState(ctx, counterType, id, gs))

	require.EqualValues(t, 2, counterTotal(scope, "storage_operation_count", map[string]string{"operation": "read", "state_type": counterType}))
	require.EqualValues(t, 1, counterTotal(scope, "storage_operation_count", map[string]string{"operation": "write"}))
	require.EqualValues(t, 1, counterTotal(scope, "storage_operation_count", map[string]string{"operation": "clear"}))
	require.EqualValues(t, 1, counterTotal(scope, "state_read_hit", nil))
	require.EqualValues(t, 1, counterTotal(scope, "state_read_miss", nil))

	require.NoError(t, db.Close())
	require.ErrorIs(t, storage.ReadState(ctx, counterType, id, gs), docdb.ErrDatabaseClosed)
	require.ErrorIs(t, storage.WriteState(ctx, counterType, id, gs), docdb.ErrDatabaseClosed)
	require.ErrorIs(t, storage.ClearState(ctx, counterType, id, gs), docdb.ErrDatabaseClosed)
	require.EqualValues(t, 3, counterTotal(scope, "storage_operation_errors", nil))
	require.EqualValues(t, 1, counterTotal(scope, "state_read_miss", nil))
}
