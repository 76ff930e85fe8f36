package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MyNameJaeff/ByteAndBrew/internal/model"
)

type fakeBookings struct {
	byTable map[uint64][]time.Time
}

func (f *fakeBookings) StartTimes(_ context.Context, tableID, exclude uint64) ([]time.Time, error) {
	return f.byTable[tableID], nil
}

func (f *fakeBookings) StartTimesForTables(_ context.Context, tableIDs []uint64) (map[uint64][]time.Time, error) {
	out := make(map[uint64][]time.Time)
	for _, id := range tableIDs {
		if ts, ok := f.byTable[id]; ok {
			out[id] = ts
		}
	}
	return out, nil
}

type fakeTables struct {
	tables []model.Table
}

func (f *fakeTables) ListByMinCapacity(_ context.Context, minCapacity int) ([]model.Table, error) {
	out := make([]model.Table, 0)
	for _, t := range f.tables {
		if t.Capacity >= minCapacity {
			out = append(out, t)
		}
	}
	return out, nil
}

func newTestEngine(byTable map[uint64][]time.Time) *Engine {
	return NewEngine(
		&fakeBookings{byTable: byTable},
		&fakeTables{tables: []model.Table{
			{ID: 1, TableNumber: 1, Capacity: 2},
			{ID: 2, TableNumber: 2, Capacity: 6},
			{ID: 3, TableNumber: 3, Capacity: 8},
		}},
	)
}

func TestFindAvailableTablesFiltersByCapacityAndWindow(t *testing.T) {
	e := newTestEngine(map[uint64][]time.Time{
		3: {at(18, 0)},
	})

	// Table 1 is too small, table 3 is booked 18:00-20:00.
	free, err := e.FindAvailableTables(context.Background(), at(19, 0), 6)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, uint64(2), free[0].ID)

	// Back to back with table 3's booking, both big tables qualify.
	free, err = e.FindAvailableTables(context.Background(), at(20, 0), 6)
	require.NoError(t, err)
	require.Len(t, free, 2)
	assert.Equal(t, uint64(2), free[0].ID)
	assert.Equal(t, uint64(3), free[1].ID)
}

func TestFindAvailableTablesDeterministicOrder(t *testing.T) {
	e := newTestEngine(nil)
	first, err := e.FindAvailableTables(context.Background(), at(18, 0), 1)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := e.FindAvailableTables(context.Background(), at(18, 0), 1)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFindAvailableTablesEmptyNotNil(t *testing.T) {
	e := newTestEngine(nil)
	free, err := e.FindAvailableTables(context.Background(), at(18, 0), 20)
	require.NoError(t, err)
	assert.NotNil(t, free)
	assert.Empty(t, free)
}

func TestIsTableFree(t *testing.T) {
	e := NewEngine(
		&fakeBookings{byTable: map[uint64][]time.Time{1: {at(18, 0)}}},
		&fakeTables{},
	)
	free, err := e.IsTableFree(context.Background(), 1, at(18, 30), 0)
	require.NoError(t, err)
	assert.False(t, free)

	free, err = e.IsTableFree(context.Background(), 1, at(20, 0), 0)
	require.NoError(t, err)
	assert.True(t, free)
}
