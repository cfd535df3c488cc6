package workflow

import (
	"errors"
	"testing"
	"time"
)

func testFestival(phase FestivalPhase) *Festival {
	return &Festival{
		ID:         1,
		Name:       "Riverside Sounds",
		Phase:      phase,
		Organizers: []int64{10},
		StartDate:  time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC),
	}
}

var organizer = Principal{UserID: 10, Username: "olga", Role: RoleOrganizer}

func TestAdvanceFestivalOrder(t *testing.T) {
	steps := []struct {
		action Action
		from   FestivalPhase
		to     FestivalPhase
	}{
		{ActionStartSubmission, FestivalCreated, FestivalSubmission},
		{ActionStartAssignment, FestivalSubmission, FestivalAssignment},
		{ActionStartReview, FestivalAssignment, FestivalReview},
		{ActionStartScheduling, FestivalReview, FestivalScheduling},
		{ActionStartFinalSubmission, FestivalScheduling, FestivalFinalSubmission},
		{ActionStartDecision, FestivalFinalSubmission, FestivalDecision},
		{ActionAnnounce, FestivalDecision, FestivalAnnounced},
	}

	for _, step := range steps {
		t.Run(string(step.action), func(t *testing.T) {
			f := testFestival(step.from)
			to, err := AdvanceFestival(f, organizer, step.action)
			if err != nil {
				t.Fatalf("AdvanceFestival(%s) from %s: %v", step.action, step.from, err)
			}
			if to != step.to {
				t.Fatalf("AdvanceFestival(%s) = %s, want %s", step.action, to, step.to)
			}
		})
	}
}

func TestAdvanceFestivalWrongPhase(t *testing.T) {
	// Every action must fail from every phase except its exact predecessor.
	phases := []FestivalPhase{
		FestivalCreated, FestivalSubmission, FestivalAssignment, FestivalReview,
		FestivalScheduling, FestivalFinalSubmission, FestivalDecision, FestivalAnnounced,
	}

	for action, step := range festivalTransitions {
		for _, phase := range phases {
			if phase == step.from {
				continue
			}
			f := testFestival(phase)
			if _, err := AdvanceFestival(f, organizer, action); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("AdvanceFestival(%s) from %s: got %v, want ErrInvalidTransition", action, phase, err)
			}
			if f.Phase != phase {
				t.Errorf("festival phase mutated on failed transition: %s", f.Phase)
			}
		}
	}
}

func TestAdvanceFestivalCarriesCurrentPhase(t *testing.T) {
	f := testFestival(FestivalReview)
	_, err := AdvanceFestival(f, organizer, ActionStartSubmission)

	var transitionErr *InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if transitionErr.Current != string(FestivalReview) {
		t.Fatalf("Current = %q, want %q", transitionErr.Current, FestivalReview)
	}
}

func TestAdvanceFestivalGuards(t *testing.T) {
	tests := []struct {
		name    string
		actor   Principal
		wantErr error
	}{
		{
			name:    "role without permit",
			actor:   Principal{UserID: 10, Role: RoleArtist},
			wantErr: ErrForbidden,
		},
		{
			name:    "admin is not exempt from the organizer-only policy",
			actor:   Principal{UserID: 10, Role: RoleAdmin},
			wantErr: ErrForbidden,
		},
		{
			name:    "organizer of a different festival",
			actor:   Principal{UserID: 99, Role: RoleOrganizer},
			wantErr: ErrForbidden,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := testFestival(FestivalCreated)
			if _, err := AdvanceFestival(f, tc.actor, ActionStartSubmission); !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestAdvanceFestivalUnknownAction(t *testing.T) {
	f := testFestival(FestivalCreated)
	if _, err := AdvanceFestival(f, organizer, Action("fast_forward")); !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestAnnouncedIsTerminal(t *testing.T) {
	f := testFestival(FestivalAnnounced)
	for action := range festivalTransitions {
		if _, err := AdvanceFestival(f, organizer, action); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("AdvanceFestival(%s) from ANNOUNCED: got %v, want ErrInvalidTransition", action, err)
		}
	}
}
