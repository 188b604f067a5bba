package models

import (
	"errors"
	"testing"

	"github.com/kazmirchuk/workshophub/internal/pkg/apperrors"
)

func TestEnrollmentStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		name    string
		from    EnrollmentStatus
		to      EnrollmentStatus
		allowed bool
	}{
		{"pending to confirmed", EnrollmentPending, EnrollmentConfirmed, true},
		{"pending to cancelled", EnrollmentPending, EnrollmentCancelled, true},
		{"confirmed to cancelled", EnrollmentConfirmed, EnrollmentCancelled, true},
		{"confirmed to pending", EnrollmentConfirmed, EnrollmentPending, false},
		{"cancelled to pending", EnrollmentCancelled, EnrollmentPending, false},
		{"cancelled to confirmed", EnrollmentCancelled, EnrollmentConfirmed, false},
		{"cancelled to cancelled", EnrollmentCancelled, EnrollmentCancelled, false},
		{"pending to pending", EnrollmentPending, EnrollmentPending, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
			}
		})
	}
}

func TestEnrollmentTransitionRejectsInvalidTarget(t *testing.T) {
	e := &Enrollment{Status: EnrollmentPending}

	err := e.Transition(EnrollmentStatus("ARCHIVED"))
	if !errors.Is(err, apperrors.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
	if e.Status != EnrollmentPending {
		t.Errorf("status changed on failed transition: %s", e.Status)
	}
}

func TestEnrollmentTransitionCancelledIsTerminal(t *testing.T) {
	e := &Enrollment{Status: EnrollmentCancelled}

	for _, target := range []EnrollmentStatus{EnrollmentPending, EnrollmentConfirmed, EnrollmentCancelled} {
		err := e.Transition(target)
		if !errors.Is(err, apperrors.ErrInvalidStateTransition) {
			t.Errorf("Transition(CANCELLED -> %s): expected ErrInvalidStateTransition, got %v", target, err)
		}
	}
}

func TestEnrollmentTransitionMovesStatus(t *testing.T) {
	e := &Enrollment{Status: EnrollmentPending}

	if err := e.Transition(EnrollmentConfirmed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Status != EnrollmentConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", e.Status)
	}

	if err := e.Transition(EnrollmentCancelled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Status != EnrollmentCancelled {
		t.Fatalf("status = %s, want CANCELLED", e.Status)
	}
}

func TestInitialEnrollmentStatus(t *testing.T) {
	zero := 0.0
	paid := 49.90

	if got := InitialEnrollmentStatus(nil); got != EnrollmentConfirmed {
		t.Errorf("nil price: got %s, want CONFIRMED", got)
	}
	if got := InitialEnrollmentStatus(&zero); got != EnrollmentConfirmed {
		t.Errorf("zero price: got %s, want CONFIRMED", got)
	}
	if got := InitialEnrollmentStatus(&paid); got != EnrollmentPending {
		t.Errorf("paid price: got %s, want PENDING", got)
	}
}

func TestEnrollmentStatusCommitted(t *testing.T) {
	if !EnrollmentPending.Committed() {
		t.Error("PENDING should count against capacity")
	}
	if !EnrollmentConfirmed.Committed() {
		t.Error("CONFIRMED should count against capacity")
	}
	if EnrollmentCancelled.Committed() {
		t.Error("CANCELLED should not count against capacity")
	}
}
