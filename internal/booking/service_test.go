package booking_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MyNameJaeff/ByteAndBrew/internal/booking"
	"github.com/MyNameJaeff/ByteAndBrew/internal/model"
)

// memStore is an in-memory booking.Store.  Its mutex spans the whole
// transaction, mimicking the row lock the SQL store takes, so the race
// tests exercise the same serialization the real store provides.
type memStore struct {
	mu        sync.Mutex
	tables    map[uint64]model.Table
	customers map[uint64]model.Customer
	bookings  map[uint64]model.Booking
	nextCust  uint64
	nextBook  uint64
}

func newMemStore(tables ...model.Table) *memStore {
	s := &memStore{
		tables:    make(map[uint64]model.Table),
		customers: make(map[uint64]model.Customer),
		bookings:  make(map[uint64]model.Booking),
	}
	for _, t := range tables {
		s.tables[t.ID] = t
	}
	return s
}

func (s *memStore) addCustomer(name, phone string) model.Customer {
	s.nextCust++
	c := model.Customer{ID: s.nextCust, Name: name, PhoneNumber: phone}
	s.customers[c.ID] = c
	return c
}

func (s *memStore) InTx(ctx context.Context, fn func(tx booking.Tx) error) error {
	return s.runTx(&memTx{s: s}, fn)
}

// runTx serializes the transaction under the store mutex and rolls the
// maps back when fn fails.
func (s *memStore) runTx(tx booking.Tx, fn func(tx booking.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapCust := make(map[uint64]model.Customer, len(s.customers))
	for k, v := range s.customers {
		snapCust[k] = v
	}
	snapBook := make(map[uint64]model.Booking, len(s.bookings))
	for k, v := range s.bookings {
		snapBook[k] = v
	}
	if err := fn(tx); err != nil {
		s.customers = snapCust
		s.bookings = snapBook
		return err
	}
	return nil
}

func (s *memStore) MaxFutureGuests(ctx context.Context, tableID uint64, after time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	max := 0
	for _, b := range s.bookings {
		if b.TableID == tableID && b.StartTime.After(after) && b.NumberOfGuests > max {
			max = b.NumberOfGuests
		}
	}
	return max, nil
}

func (s *memStore) HasFutureBookings(ctx context.Context, tableID uint64, after time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.TableID == tableID && b.StartTime.After(after) {
			return true, nil
		}
	}
	return false, nil
}

type memTx struct {
	s *memStore
}

func (t *memTx) TableByID(ctx context.Context, id uint64) (*model.Table, error) {
	tb, ok := t.s.tables[id]
	if !ok {
		return nil, booking.ErrTableNotFound
	}
	return &tb, nil
}

func (t *memTx) CustomerByID(ctx context.Context, id uint64) (*model.Customer, error) {
	c, ok := t.s.customers[id]
	if !ok {
		return nil, booking.ErrCustomerNotFound
	}
	return &c, nil
}

func (t *memTx) CustomerByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	for _, c := range t.s.customers {
		if c.PhoneNumber == phone {
			cc := c
			return &cc, nil
		}
	}
	return nil, booking.ErrCustomerNotFound
}

func (t *memTx) InsertCustomer(ctx context.Context, c *model.Customer) error {
	for _, cur := range t.s.customers {
		if cur.PhoneNumber == c.PhoneNumber {
			return booking.ErrCustomerExists
		}
	}
	t.s.nextCust++
	c.ID = t.s.nextCust
	t.s.customers[c.ID] = *c
	return nil
}

func (t *memTx) BookingByID(ctx context.Context, id uint64) (*model.Booking, error) {
	b, ok := t.s.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	return &b, nil
}

func (t *memTx) StartTimes(ctx context.Context, tableID, exclude uint64) ([]time.Time, error) {
	out := make([]time.Time, 0)
	for id, b := range t.s.bookings {
		if b.TableID == tableID && id != exclude {
			out = append(out, b.StartTime)
		}
	}
	return out, nil
}

func (t *memTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	t.s.nextBook++
	b.ID = t.s.nextBook
	t.s.bookings[b.ID] = *b
	return nil
}

func (t *memTx) UpdateBooking(ctx context.Context, b *model.Booking) error {
	if _, ok := t.s.bookings[b.ID]; !ok {
		return booking.ErrBookingNotFound
	}
	t.s.bookings[b.ID] = *b
	return nil
}

func (t *memTx) DeleteBooking(ctx context.Context, id uint64) error {
	if _, ok := t.s.bookings[id]; !ok {
		return booking.ErrBookingNotFound
	}
	delete(t.s.bookings, id)
	return nil
}

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 14, hour, min, 0, 0, time.UTC)
}

// testNow pins the clock at noon on the test day.
func testNow() time.Time { return at(12, 0) }

func newFixture() (*booking.Service, *memStore, model.Customer) {
	store := newMemStore(
		model.Table{ID: 1, TableNumber: 1, Capacity: 4},
		model.Table{ID: 2, TableNumber: 2, Capacity: 8},
	)
	cust := store.addCustomer("Alice", "0701111111")
	return booking.NewService(store, testNow), store, cust
}

func input(tableID uint64, custID uint64, start time.Time, guests int) booking.CreateInput {
	return booking.CreateInput{
		StartTime:      start,
		NumberOfGuests: guests,
		TableID:        tableID,
		CustomerID:     custID,
	}
}

func TestCreate(t *testing.T) {
	svc, store, cust := newFixture()

	b, err := svc.Create(context.Background(), input(1, cust.ID, at(18, 0), 3))
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Equal(t, cust.ID, b.CustomerID)
	assert.Len(t, store.bookings, 1)
}

func TestCreateUnknownReferences(t *testing.T) {
	svc, _, cust := newFixture()

	_, err := svc.Create(context.Background(), input(99, cust.ID, at(18, 0), 2))
	assert.ErrorIs(t, err, booking.ErrTableNotFound)

	_, err = svc.Create(context.Background(), input(1, 99, at(18, 0), 2))
	assert.ErrorIs(t, err, booking.ErrCustomerNotFound)
}

func TestCreateGuestCountBounds(t *testing.T) {
	svc, store, cust := newFixture()

	_, err := svc.Create(context.Background(), input(1, cust.ID, at(18, 0), 0))
	assert.ErrorIs(t, err, booking.ErrInvalidGuestCount)

	_, err = svc.Create(context.Background(), input(1, cust.ID, at(18, 0), 13))
	assert.ErrorIs(t, err, booking.ErrInvalidGuestCount)

	// Within the absolute cap but over the table's capacity of 4.
	_, err = svc.Create(context.Background(), input(1, cust.ID, at(18, 0), 5))
	assert.ErrorIs(t, err, booking.ErrCapacityExceeded)

	// Nothing was written by any of the failed attempts.
	assert.Empty(t, store.bookings)
}

func TestCreateOverlapRejectedBackToBackAllowed(t *testing.T) {
	svc, _, cust := newFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, input(1, cust.ID, at(18, 0), 2))
	require.NoError(t, err)

	_, err = svc.Create(ctx, input(1, cust.ID, at(19, 30), 2))
	assert.ErrorIs(t, err, booking.ErrSlotUnavailable)

	// Same time on another table is fine.
	_, err = svc.Create(ctx, input(2, cust.ID, at(19, 30), 2))
	assert.NoError(t, err)

	// The previous window ends exactly at 20:00; half-open means free.
	_, err = svc.Create(ctx, input(1, cust.ID, at(20, 0), 2))
	assert.NoError(t, err)
}

func TestUpdateDoesNotConflictWithItself(t *testing.T) {
	svc, _, cust := newFixture()
	ctx := context.Background()

	b, err := svc.Create(ctx, input(1, cust.ID, at(18, 0), 2))
	require.NoError(t, err)

	// Shifting inside its own window must succeed.
	upd, err := svc.Update(ctx, b.ID, input(1, cust.ID, at(18, 30), 3))
	require.NoError(t, err)
	assert.Equal(t, at(18, 30), upd.StartTime)
	assert.Equal(t, 3, upd.NumberOfGuests)
}

func TestUpdateConflictsWithOtherBooking(t *testing.T) {
	svc, _, cust := newFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, input(1, cust.ID, at(18, 0), 2))
	require.NoError(t, err)
	b2, err := svc.Create(ctx, input(1, cust.ID, at(21, 0), 2))
	require.NoError(t, err)

	_, err = svc.Update(ctx, b2.ID, input(1, cust.ID, at(19, 0), 2))
	assert.ErrorIs(t, err, booking.ErrSlotUnavailable)

	_, err = svc.Update(ctx, 999, input(1, cust.ID, at(23, 0), 2))
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestDelete(t *testing.T) {
	svc, store, cust := newFixture()
	ctx := context.Background()

	b, err := svc.Create(ctx, input(1, cust.ID, at(18, 0), 2))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, b.ID))
	assert.Empty(t, store.bookings)
	assert.ErrorIs(t, svc.Delete(ctx, b.ID), booking.ErrBookingNotFound)
}

// Two concurrent requests for the same table and time: exactly one may
// win, the other must see the slot as taken.
func TestConcurrentCreateSingleWinner(t *testing.T) {
	svc, store, cust := newFixture()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, input(1, cust.ID, at(18, 0), 2))
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, booking.ErrSlotUnavailable)
		}
	}
	assert.Equal(t, 1, winners)
	assert.Len(t, store.bookings, 1)
}

func TestCreateForGuest(t *testing.T) {
	svc, store, _ := newFixture()
	ctx := context.Background()

	b1, err := svc.CreateForGuest(ctx, "Bob", "0702222222", input(1, 0, at(18, 0), 2))
	require.NoError(t, err)

	// Same phone number books again: the customer row is reused even
	// though the name differs.
	b2, err := svc.CreateForGuest(ctx, "Robert", "0702222222", input(2, 0, at(18, 0), 2))
	require.NoError(t, err)
	assert.Equal(t, b1.CustomerID, b2.CustomerID)

	count := 0
	for _, c := range store.customers {
		if c.PhoneNumber == "0702222222" {
			count++
			assert.Equal(t, "Bob", c.Name)
		}
	}
	assert.Equal(t, 1, count)
}

// staleReadStore models losing the customer-insert race under snapshot
// isolation: for the first staleTxs transactions, reads by phone miss a
// customer that is already committed (the transaction's snapshot
// predates the winner's commit) while the unique index still rejects
// the insert.  Only a fresh transaction sees the winner.
type staleReadStore struct {
	*memStore
	staleTxs int
}

func (s *staleReadStore) InTx(ctx context.Context, fn func(tx booking.Tx) error) error {
	stale := s.staleTxs > 0
	if stale {
		s.staleTxs--
	}
	return s.runTx(&staleReadTx{memTx: memTx{s: s.memStore}, stale: stale}, fn)
}

type staleReadTx struct {
	memTx
	stale bool
}

func (t *staleReadTx) CustomerByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	if t.stale {
		return nil, booking.ErrCustomerNotFound
	}
	return t.memTx.CustomerByPhone(ctx, phone)
}

// A guest whose phone was registered by a concurrent request after our
// transaction began must still end up with a booking on the winner's
// customer row, not a "customer not found" error.
func TestCreateForGuestLostInsertRaceReusesWinner(t *testing.T) {
	base := newMemStore(
		model.Table{ID: 1, TableNumber: 1, Capacity: 4},
	)
	winner := base.addCustomer("Dana", "0704444444")
	store := &staleReadStore{memStore: base, staleTxs: 1}
	svc := booking.NewService(store, testNow)

	b, err := svc.CreateForGuest(context.Background(), "Dana", "0704444444", input(1, 0, at(18, 0), 2))
	require.NoError(t, err)
	assert.Equal(t, winner.ID, b.CustomerID)

	count := 0
	for _, c := range base.customers {
		if c.PhoneNumber == "0704444444" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCreateForGuestRollsBackCustomerOnFailure(t *testing.T) {
	svc, store, _ := newFixture()
	ctx := context.Background()

	// Guest count is invalid, so neither the booking nor the new
	// customer may survive.
	_, err := svc.CreateForGuest(ctx, "Carol", "0703333333", input(1, 0, at(18, 0), 0))
	assert.ErrorIs(t, err, booking.ErrInvalidGuestCount)
	for _, c := range store.customers {
		assert.NotEqual(t, "0703333333", c.PhoneNumber)
	}
}

func TestGuardCapacityReduction(t *testing.T) {
	svc, _, cust := newFixture()
	ctx := context.Background()

	// Future booking (18:00 > the pinned noon clock) with 6 guests.
	_, err := svc.Create(ctx, input(2, cust.ID, at(18, 0), 6))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.GuardCapacityReduction(ctx, 2, 4), booking.ErrReferentialConflict)
	assert.NoError(t, svc.GuardCapacityReduction(ctx, 2, 6))
	assert.NoError(t, svc.GuardCapacityReduction(ctx, 1, 1))
}

func TestGuardTableDelete(t *testing.T) {
	svc, store, cust := newFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, input(1, cust.ID, at(18, 0), 2))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.GuardTableDelete(ctx, 1), booking.ErrReferentialConflict)
	assert.NoError(t, svc.GuardTableDelete(ctx, 2))

	// A booking in the past does not block deletion.
	for id := range store.bookings {
		delete(store.bookings, id)
	}
	store.bookings[1] = model.Booking{ID: 1, TableID: 1, CustomerID: cust.ID, StartTime: at(9, 0), NumberOfGuests: 2}
	assert.NoError(t, svc.GuardTableDelete(ctx, 1))
}
