package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/vehicle-rental-booking/internal/model"
)

const (
	// opTimeout bounds every storage transaction so a stuck lock surfaces
	// as a retryable error instead of hanging the request.
	opTimeout = 5 * time.Second

	// createAttempts and retryBackoff control the bounded retry applied to
	// booking creation when the store reports contention.
	createAttempts = 3
	retryBackoff   = 50 * time.Millisecond
)

// Service owns the booking lifecycle: it runs the overlap detector, prices
// the rental, persists the booking and keeps the availability ledger in sync
// with it inside a single transaction.  Bookings are the source of truth;
// ledger blocks always reference the booking that carved them out.
type Service struct {
	store Store
}

// NewService constructs a Service.  The store must not be nil.
func NewService(store Store) *Service {
	if store == nil {
		panic("nil store passed to NewService")
	}
	return &Service{store: store}
}

// Summary is the creation result returned to clients: enough to show a
// confirmation without a second lookup.
type Summary struct {
	ID              uint64              `json:"id"`
	Vehicle         string              `json:"vehicle"`
	StartDate       string              `json:"start_date"`
	EndDate         string              `json:"end_date"`
	TotalPriceCents int64               `json:"total_price_cents"`
	Status          model.BookingStatus `json:"status"`
}

// conflicts is the overlap detector.  It consults the two independent
// sources inside the caller's transaction: ledger blocks and live bookings.
// Either one overlapping the candidate range makes the range unbookable.
// The vehicle row must already be locked by the caller so the two reads and
// the subsequent writes form one atomic step.
func (s *Service) conflicts(ctx context.Context, tx Tx, vehicleID uint64, r DateRange) (bool, error) {
	blocks, err := tx.CountBlockingPeriods(ctx, vehicleID, r)
	if err != nil {
		return false, err
	}
	if blocks > 0 {
		return true, nil
	}
	live, err := tx.CountLiveBookings(ctx, vehicleID, r)
	if err != nil {
		return false, err
	}
	return live > 0, nil
}

// CreateBooking reserves a vehicle for the given range on behalf of userID.
// The whole sequence — lock vehicle, detect overlap, price, insert booking,
// carve the ledger block — commits or rolls back as one transaction, so no
// partial state is ever observable.  Contention errors are retried up to
// createAttempts times with backoff; a genuine double booking surfaces as
// ErrConflict on the losing request.
func (s *Service) CreateBooking(ctx context.Context, userID, vehicleID uint64, r DateRange) (*Summary, error) {
	if userID == 0 || vehicleID == 0 {
		return nil, fmt.Errorf("%w: user and vehicle are required", ErrInvalidInput)
	}

	var summary *Summary
	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		if attempt > 0 {
			backoff := retryBackoff << (attempt - 1)
			log.Printf("booking: retrying create for vehicle %d after contention (attempt %d)", vehicleID, attempt+1)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrTransient, ctx.Err())
			}
		}
		summary, err = s.createOnce(ctx, userID, vehicleID, r)
		if err == nil || !errors.Is(err, ErrTransient) {
			return summary, err
		}
	}
	return nil, err
}

func (s *Service) createOnce(ctx context.Context, userID, vehicleID uint64, r DateRange) (*Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var summary Summary
	err := s.store.InTx(ctx, func(tx Tx) error {
		v, err := tx.LockVehicle(ctx, vehicleID)
		if err != nil {
			return err
		}
		busy, err := s.conflicts(ctx, tx, vehicleID, r)
		if err != nil {
			return err
		}
		if busy {
			return fmt.Errorf("%w: vehicle %d is already booked for %s", ErrConflict, vehicleID, r)
		}
		b := &model.Booking{
			UserID:          userID,
			VehicleID:       vehicleID,
			StartDate:       r.Start,
			EndDate:         r.End,
			TotalPriceCents: Quote(r, v.PricePerDayCents),
			Status:          model.StatusConfirmed,
		}
		if err := tx.InsertBooking(ctx, b); err != nil {
			return err
		}
		block := &model.AvailabilityPeriod{
			VehicleID:   vehicleID,
			StartDate:   r.Start,
			EndDate:     r.End,
			IsAvailable: false,
			BookingID:   &b.ID,
		}
		if err := tx.InsertPeriod(ctx, block); err != nil {
			return err
		}
		summary = Summary{
			ID:              b.ID,
			Vehicle:         v.Description(),
			StartDate:       r.StartString(),
			EndDate:         r.EndString(),
			TotalPriceCents: b.TotalPriceCents,
			Status:          b.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetBooking loads a booking after checking that the requester owns it or is
// an admin.
func (s *Service) GetBooking(ctx context.Context, bookingID, requesterID uint64, isAdmin bool) (*model.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var out *model.Booking
	err := s.store.InTx(ctx, func(tx Tx) error {
		b, err := s.authorized(ctx, tx, bookingID, requesterID, isAdmin)
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus applies an explicit status transition.  Moving to canceled
// frees the booking's ledger block in the same transaction, so the range
// becomes bookable again the instant the cancellation commits.
func (s *Service) UpdateStatus(ctx context.Context, bookingID, requesterID uint64, isAdmin bool, to model.BookingStatus) (*model.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var out *model.Booking
	err := s.store.InTx(ctx, func(tx Tx) error {
		b, err := s.authorized(ctx, tx, bookingID, requesterID, isAdmin)
		if err != nil {
			return err
		}
		if err := checkTransition(b.Status, to); err != nil {
			return err
		}
		if b.Status == to {
			out = b
			return nil
		}
		if err := tx.SetBookingStatus(ctx, bookingID, to); err != nil {
			return err
		}
		if to == model.StatusCanceled {
			if _, err := tx.DeletePeriodsByBooking(ctx, bookingID); err != nil {
				return err
			}
		}
		b.Status = to
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteBooking hard-deletes a booking and its ledger block.  Blocks are
// matched by booking id, so a block whose dates were edited independently is
// still cleaned up, and open windows are never at risk.  A block count of
// zero is tolerated: the ledger may already have been freed by an earlier
// cancellation.
func (s *Service) DeleteBooking(ctx context.Context, bookingID, requesterID uint64, isAdmin bool) (*model.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var out *model.Booking
	err := s.store.InTx(ctx, func(tx Tx) error {
		b, err := s.authorized(ctx, tx, bookingID, requesterID, isAdmin)
		if err != nil {
			return err
		}
		if err := tx.DeleteBooking(ctx, bookingID); err != nil {
			return err
		}
		if _, err := tx.DeletePeriodsByBooking(ctx, bookingID); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// authorized loads a booking and enforces owner-or-admin access.
func (s *Service) authorized(ctx context.Context, tx Tx, bookingID, requesterID uint64, isAdmin bool) (*model.Booking, error) {
	b, err := tx.BookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != requesterID && !isAdmin {
		return nil, fmt.Errorf("%w: booking %d belongs to another user", ErrForbidden, bookingID)
	}
	return b, nil
}
