package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MyNameJaeff/ByteAndBrew/internal/availability"
	"github.com/MyNameJaeff/ByteAndBrew/internal/model"
)

type stubBookings struct {
	byTable map[uint64][]time.Time
}

func (s *stubBookings) StartTimes(_ context.Context, tableID, _ uint64) ([]time.Time, error) {
	return s.byTable[tableID], nil
}

func (s *stubBookings) StartTimesForTables(_ context.Context, ids []uint64) (map[uint64][]time.Time, error) {
	out := make(map[uint64][]time.Time)
	for _, id := range ids {
		if ts, ok := s.byTable[id]; ok {
			out[id] = ts
		}
	}
	return out, nil
}

type stubTables struct {
	tables []model.Table
}

func (s *stubTables) ListByMinCapacity(_ context.Context, minCapacity int) ([]model.Table, error) {
	out := make([]model.Table, 0)
	for _, t := range s.tables {
		if t.Capacity >= minCapacity {
			out = append(out, t)
		}
	}
	return out, nil
}

func availableRequest(t *testing.T, h *TableHandler, query string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/tables/available?"+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h.Available(c))
	return rec
}

func TestAvailableQuery(t *testing.T) {
	booked := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	h := &TableHandler{
		Engine: availability.NewEngine(
			&stubBookings{byTable: map[uint64][]time.Time{2: {booked}}},
			&stubTables{tables: []model.Table{
				{ID: 1, TableNumber: 1, Capacity: 2},
				{ID: 2, TableNumber: 2, Capacity: 6},
			}},
		),
	}

	t.Run("people must be positive", func(t *testing.T) {
		rec := availableRequest(t, h, "date=2026-03-14&time=18:00&people=0")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid date", func(t *testing.T) {
		rec := availableRequest(t, h, "date=tomorrow&time=18:00&people=2")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no table fits the party", func(t *testing.T) {
		// The only big enough table is booked 18:00-20:00.
		rec := availableRequest(t, h, "date=2026-03-14&time=19:00&people=4")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("free tables returned", func(t *testing.T) {
		rec := availableRequest(t, h, "date=2026-03-14&time=20:00&people=4")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"tableNumber":2`)
	})
}
