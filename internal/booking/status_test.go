package booking

import (
	"errors"
	"testing"

	"github.com/iliyamo/vehicle-rental-booking/internal/model"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to model.BookingStatus
		want     bool
	}{
		{model.StatusPending, model.StatusConfirmed, true},
		{model.StatusPending, model.StatusCanceled, true},
		{model.StatusConfirmed, model.StatusCanceled, true},
		{model.StatusConfirmed, model.StatusPending, false},
		{model.StatusCanceled, model.StatusConfirmed, false},
		{model.StatusCanceled, model.StatusPending, false},
		// A no-op transition is always allowed.
		{model.StatusConfirmed, model.StatusConfirmed, true},
		{model.StatusCanceled, model.StatusCanceled, true},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCheckTransitionErrors(t *testing.T) {
	if err := checkTransition(model.StatusConfirmed, "shipped"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
	if err := checkTransition(model.StatusCanceled, model.StatusConfirmed); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for illegal transition, got %v", err)
	}
	if err := checkTransition(model.StatusPending, model.StatusConfirmed); err != nil {
		t.Fatalf("expected legal transition to pass, got %v", err)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []model.BookingStatus{model.StatusPending, model.StatusConfirmed, model.StatusCanceled} {
		if !ValidStatus(s) {
			t.Fatalf("expected %s valid", s)
		}
	}
	if ValidStatus("CONFIRMED") {
		t.Fatalf("statuses are lowercase; uppercase must not validate")
	}
}
