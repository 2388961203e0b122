package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/iliyamo/vehicle-rental-booking/internal/model"
)

// memStore is an in-memory Store for tests.  A single mutex held for the
// whole transaction stands in for the per-vehicle row lock: two transactions
// never interleave, so check-then-write is atomic exactly as it is against
// MySQL.  On error the pre-transaction state is restored, mimicking a
// rollback.
type memStore struct {
	mu       sync.Mutex
	vehicles map[uint64]*model.Vehicle
	bookings map[uint64]*model.Booking
	periods  map[uint64]*model.AvailabilityPeriod
	nextID   uint64

	// transientLeft makes the next N transactions fail with a transient
	// error before touching any state, to exercise the retry loop.
	transientLeft int
	txCount       int
}

func newMemStore() *memStore {
	return &memStore{
		vehicles: map[uint64]*model.Vehicle{},
		bookings: map[uint64]*model.Booking{},
		periods:  map[uint64]*model.AvailabilityPeriod{},
	}
}

func (m *memStore) addVehicle(id uint64, perDayCents int64) {
	m.vehicles[id] = &model.Vehicle{
		ID: id, Kind: model.KindCar, Make: "Toyota", Model: "Corolla",
		PricePerDayCents: perDayCents,
	}
}

func (m *memStore) id() uint64 { m.nextID++; return m.nextID }

func (m *memStore) InTx(ctx context.Context, fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txCount++

	if m.transientLeft > 0 {
		m.transientLeft--
		return fmt.Errorf("%w: simulated deadlock", ErrTransient)
	}

	snapBookings := make(map[uint64]*model.Booking, len(m.bookings))
	for k, v := range m.bookings {
		cp := *v
		snapBookings[k] = &cp
	}
	snapPeriods := make(map[uint64]*model.AvailabilityPeriod, len(m.periods))
	for k, v := range m.periods {
		cp := *v
		snapPeriods[k] = &cp
	}

	if err := fn(&memTx{s: m}); err != nil {
		m.bookings = snapBookings
		m.periods = snapPeriods
		return err
	}
	return nil
}

type memTx struct {
	s *memStore
}

func (t *memTx) LockVehicle(ctx context.Context, vehicleID uint64) (*model.Vehicle, error) {
	v, ok := t.s.vehicles[vehicleID]
	if !ok {
		return nil, fmt.Errorf("%w: vehicle %d", ErrNotFound, vehicleID)
	}
	return v, nil
}

func (t *memTx) CountBlockingPeriods(ctx context.Context, vehicleID uint64, r DateRange) (int, error) {
	n := 0
	for _, p := range t.s.periods {
		if p.VehicleID != vehicleID || p.IsAvailable {
			continue
		}
		pr := DateRange{Start: p.StartDate, End: p.EndDate}
		if pr.Overlaps(r) {
			n++
		}
	}
	return n, nil
}

func (t *memTx) CountLiveBookings(ctx context.Context, vehicleID uint64, r DateRange) (int, error) {
	n := 0
	for _, b := range t.s.bookings {
		if b.VehicleID != vehicleID || b.Status == model.StatusCanceled {
			continue
		}
		br := DateRange{Start: b.StartDate, End: b.EndDate}
		if br.Overlaps(r) {
			n++
		}
	}
	return n, nil
}

func (t *memTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	b.ID = t.s.id()
	cp := *b
	t.s.bookings[b.ID] = &cp
	return nil
}

func (t *memTx) InsertPeriod(ctx context.Context, p *model.AvailabilityPeriod) error {
	p.ID = t.s.id()
	cp := *p
	t.s.periods[p.ID] = &cp
	return nil
}

func (t *memTx) BookingByID(ctx context.Context, id uint64) (*model.Booking, error) {
	b, ok := t.s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, id)
	}
	cp := *b
	return &cp, nil
}

func (t *memTx) SetBookingStatus(ctx context.Context, id uint64, s model.BookingStatus) error {
	b, ok := t.s.bookings[id]
	if !ok {
		return fmt.Errorf("%w: booking %d", ErrNotFound, id)
	}
	b.Status = s
	return nil
}

func (t *memTx) DeleteBooking(ctx context.Context, id uint64) error {
	if _, ok := t.s.bookings[id]; !ok {
		return fmt.Errorf("%w: booking %d", ErrNotFound, id)
	}
	delete(t.s.bookings, id)
	return nil
}

func (t *memTx) DeletePeriodsByBooking(ctx context.Context, bookingID uint64) (int64, error) {
	var n int64
	for id, p := range t.s.periods {
		if p.BookingID != nil && *p.BookingID == bookingID {
			delete(t.s.periods, id)
			n++
		}
	}
	return n, nil
}

func TestCreateBooking(t *testing.T) {
	store := newMemStore()
	store.addVehicle(1, 2000)
	svc := NewService(store)
	ctx := context.Background()

	sum, err := svc.CreateBooking(ctx, 7, 1, mustRange(t, "2026-05-01", "2026-05-04"))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if sum.TotalPriceCents != 6000 {
		t.Fatalf("expected 6000 cents for 3 days at 2000/day, got %d", sum.TotalPriceCents)
	}
	if sum.Status != model.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", sum.Status)
	}
	if sum.Vehicle != "Toyota Corolla" {
		t.Fatalf("unexpected vehicle label %q", sum.Vehicle)
	}
	if len(store.bookings) != 1 || len(store.periods) != 1 {
		t.Fatalf("expected one booking and one ledger block, got %d/%d", len(store.bookings), len(store.periods))
	}
	for _, p := range store.periods {
		if p.IsAvailable || p.BookingID == nil || *p.BookingID != sum.ID {
			t.Fatalf("ledger block not tied to booking: %+v", p)
		}
	}
}

func TestCreateBookingConflicts(t *testing.T) {
	store := newMemStore()
	store.addVehicle(1, 2000)
	store.addVehicle(2, 3000)
	svc := NewService(store)
	ctx := context.Background()

	if _, err := svc.CreateBooking(ctx, 7, 1, mustRange(t, "2026-05-10", "2026-05-15")); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	// Any overlap with the taken range conflicts, including a touching
	// endpoint; disjoint ranges and other vehicles do not.
	cases := []struct {
		name       string
		vehicle    uint64
		start, end string
		wantErr    error
	}{
		{"identical range", 1, "2026-05-10", "2026-05-15", ErrConflict},
		{"inner range", 1, "2026-05-12", "2026-05-13", ErrConflict},
		{"touching end", 1, "2026-05-15", "2026-05-20", ErrConflict},
		{"before", 1, "2026-05-01", "2026-05-09", nil},
		{"after", 1, "2026-05-16", "2026-05-20", nil},
		{"other vehicle", 2, "2026-05-10", "2026-05-15", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateBooking(ctx, 8, tc.vehicle, mustRange(t, tc.start, tc.end))
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateBookingValidation(t *testing.T) {
	store := newMemStore()
	store.addVehicle(1, 2000)
	svc := NewService(store)
	ctx := context.Background()

	if _, err := svc.CreateBooking(ctx, 0, 1, mustRange(t, "2026-05-01", "2026-05-02")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing user, got %v", err)
	}
	if _, err := svc.CreateBooking(ctx, 7, 99, mustRange(t, "2026-05-01", "2026-05-02")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown vehicle, got %v", err)
	}
}

// Many goroutines race for the same vehicle and range; exactly one may win.
func TestConcurrentCreateSingleWinner(t *testing.T) {
	store := newMemStore()
	store.addVehicle(1, 2000)
	svc := NewService(store)
	r := mustRange(t, "2026-08-01", "2026-08-05")

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateBooking(context.Background(), uint64(100+i), 1, r)
		}(i)
	}
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != n-1 {
		t.Fatalf("expected exactly one winner, got %d wins / %d conflicts", wins, conflicts)
	}
	if len(store.bookings) != 1 || len(store.periods) != 1 {
		t.Fatalf("state corrupted: %d bookings, %d periods", len(store.bookings), len(store.periods))
	}
}

func TestCancelFreesRange(t *testing.T) {
	store := newMemStore()
	store.addVehicle(1, 2000)
	svc := NewService(store)
	ctx := context.Background()
	r := mustRange(t, "2026-05-10", "2026-05-15")

	sum, err := svc.CreateBooking(ctx, 7, 1, r)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if _, err := svc.CreateBooking(ctx, 8, 1, r); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict before cancel, got %v", err)
	}

	b, err := svc.UpdateStatus(ctx, sum.ID, 7, false, model.StatusCanceled)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if b.Status != model.StatusCanceled {
		t.Fatalf("expected canceled, got %s", b.Status)
	}
	if len(store.periods) != 0 {
		t.Fatalf("expected ledger block freed, %d rows remain", len(store.periods))
	}

	// The canceled booking row stays but no longer blocks.
	if _, err := svc.CreateBooking(ctx, 8, 1, r); err != nil {
		t.Fatalf("expected rebooking after cancel to succeed, got %v", err)
	}
}

func TestUpdateStatusRules(t *testing.T) {
	store := newMemStore()
	store.addVehicle(1, 2000)
	svc := NewService(store)
	ctx := context.Background()

	sum, err := svc.CreateBooking(ctx, 7, 1, mustRange(t, "2026-05-01", "2026-05-03"))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	// Owner only, unless admin.
	if _, err := svc.UpdateStatus(ctx, sum.ID, 9, false, model.StatusCanceled); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
	// Confirmed cannot go back to pending.
	if _, err := svc.UpdateStatus(ctx, sum.ID, 7, false, model.StatusPending); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for confirmed -> pending, got %v", err)
	}
	// Unknown status is invalid input.
	if _, err := svc.UpdateStatus(ctx, sum.ID, 7, false, "archived"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
	// No-op transition succeeds without touching the ledger.
	if _, err := svc.UpdateStatus(ctx, sum.ID, 7, false, model.StatusConfirmed); err != nil {
		t.Fatalf("expected no-op transition to succeed, got %v", err)
	}
	if len(store.periods) != 1 {
		t.Fatalf("no-op transition must not free the ledger block")
	}
	// Admin may cancel someone else's booking.
	if _, err := svc.UpdateStatus(ctx, sum.ID, 9, true, model.StatusCanceled); err != nil {
		t.Fatalf("expected admin cancel to succeed, got %v", err)
	}
	// Unknown booking.
	if _, err := svc.UpdateStatus(ctx, 999, 7, true, model.StatusCanceled); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Deleting a booking removes its block by booking id even when the block's
// dates were edited out from under it, and never touches other rows.
func TestDeleteBookingCleansLedgerByID(t *testing.T) {
	store := newMemStore()
	store.addVehicle(1, 2000)
	svc := NewService(store)
	ctx := context.Background()

	sum, err := svc.CreateBooking(ctx, 7, 1, mustRange(t, "2026-05-10", "2026-05-15"))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	other, err := svc.CreateBooking(ctx, 8, 1, mustRange(t, "2026-06-01", "2026-06-05"))
	if err != nil {
		t.Fatalf("second CreateBooking: %v", err)
	}

	// An admin edit moves the first block's dates; the booking id link is
	// what the cleanup must follow.
	for _, p := range store.periods {
		if p.BookingID != nil && *p.BookingID == sum.ID {
			moved := mustRange(t, "2026-09-01", "2026-09-05")
			p.StartDate, p.EndDate = moved.Start, moved.End
		}
	}
	// And an unrelated open window sits alongside.
	win := mustRange(t, "2026-01-01", "2026-12-31")
	store.periods[store.id()] = &model.AvailabilityPeriod{
		ID: store.nextID, VehicleID: 1, StartDate: win.Start, EndDate: win.End, IsAvailable: true,
	}

	if _, err := svc.DeleteBooking(ctx, sum.ID, 7, false); err != nil {
		t.Fatalf("DeleteBooking: %v", err)
	}

	if _, ok := store.bookings[sum.ID]; ok {
		t.Fatalf("booking row not deleted")
	}
	var blocks, windows int
	for _, p := range store.periods {
		if p.IsAvailable {
			windows++
			continue
		}
		blocks++
		if p.BookingID == nil || *p.BookingID != other.ID {
			t.Fatalf("surviving block belongs to wrong booking: %+v", p)
		}
	}
	if blocks != 1 || windows != 1 {
		t.Fatalf("ledger corrupted: %d blocks, %d windows", blocks, windows)
	}

	// Stranger cannot delete, and deleting twice is a clean not-found.
	if _, err := svc.DeleteBooking(ctx, other.ID, 7, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.DeleteBooking(ctx, sum.ID, 7, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestGetBookingAuthorization(t *testing.T) {
	store := newMemStore()
	store.addVehicle(1, 2000)
	svc := NewService(store)
	ctx := context.Background()

	sum, err := svc.CreateBooking(ctx, 7, 1, mustRange(t, "2026-05-01", "2026-05-03"))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if b, err := svc.GetBooking(ctx, sum.ID, 7, false); err != nil || b.ID != sum.ID {
		t.Fatalf("owner read failed: %v", err)
	}
	if _, err := svc.GetBooking(ctx, sum.ID, 9, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
	if b, err := svc.GetBooking(ctx, sum.ID, 9, true); err != nil || b.ID != sum.ID {
		t.Fatalf("admin read failed: %v", err)
	}
	if _, err := svc.GetBooking(ctx, 999, 7, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateRetriesTransientErrors(t *testing.T) {
	store := newMemStore()
	store.addVehicle(1, 2000)
	store.transientLeft = 2 // first two transactions fail, third succeeds
	svc := NewService(store)

	sum, err := svc.CreateBooking(context.Background(), 7, 1, mustRange(t, "2026-05-01", "2026-05-03"))
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if sum == nil || store.txCount != 3 {
		t.Fatalf("expected success on third attempt, txCount=%d", store.txCount)
	}
}

func TestCreateGivesUpAfterRetries(t *testing.T) {
	store := newMemStore()
	store.addVehicle(1, 2000)
	store.transientLeft = 10 // never recovers within the retry budget
	svc := NewService(store)

	_, err := svc.CreateBooking(context.Background(), 7, 1, mustRange(t, "2026-05-01", "2026-05-03"))
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected ErrTransient after exhausting retries, got %v", err)
	}
	if store.txCount != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", store.txCount)
	}
}
