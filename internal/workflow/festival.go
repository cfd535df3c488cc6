package workflow

import "time"

// FestivalPhase is a festival's position in its lifecycle. Phases advance
// one step at a time through the fixed order below and never regress.
type FestivalPhase string

const (
	FestivalCreated         FestivalPhase = "CREATED"
	FestivalSubmission      FestivalPhase = "SUBMISSION"
	FestivalAssignment      FestivalPhase = "ASSIGNMENT"
	FestivalReview          FestivalPhase = "REVIEW"
	FestivalScheduling      FestivalPhase = "SCHEDULING"
	FestivalFinalSubmission FestivalPhase = "FINAL_SUBMISSION"
	FestivalDecision        FestivalPhase = "DECISION"
	FestivalAnnounced       FestivalPhase = "ANNOUNCED"
)

func (p FestivalPhase) String() string { return string(p) }

// Valid reports whether the phase is a known variant.
func (p FestivalPhase) Valid() bool {
	_, ok := festivalPhaseIndex[p]
	return ok
}

var festivalPhaseIndex = map[FestivalPhase]int{
	FestivalCreated:         0,
	FestivalSubmission:      1,
	FestivalAssignment:      2,
	FestivalReview:          3,
	FestivalScheduling:      4,
	FestivalFinalSubmission: 5,
	FestivalDecision:        6,
	FestivalAnnounced:       7,
}

// Festival is an event run by one or more organizers through the phased
// submission workflow.
type Festival struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Venue       string        `json:"venue"`
	StartDate   time.Time     `json:"startDate"`
	EndDate     time.Time     `json:"endDate"`
	Organizers  []int64       `json:"organizers"`
	Phase       FestivalPhase `json:"phase"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// IsOrganizer reports whether the user operates this festival.
func (f *Festival) IsOrganizer(userID int64) bool {
	for _, id := range f.Organizers {
		if id == userID {
			return true
		}
	}
	return false
}

type festivalStep struct {
	from FestivalPhase
	to   FestivalPhase
}

var festivalTransitions = map[Action]festivalStep{
	ActionStartSubmission:      {FestivalCreated, FestivalSubmission},
	ActionStartAssignment:      {FestivalSubmission, FestivalAssignment},
	ActionStartReview:          {FestivalAssignment, FestivalReview},
	ActionStartScheduling:      {FestivalReview, FestivalScheduling},
	ActionStartFinalSubmission: {FestivalScheduling, FestivalFinalSubmission},
	ActionStartDecision:        {FestivalFinalSubmission, FestivalDecision},
	ActionAnnounce:             {FestivalDecision, FestivalAnnounced},
}

// FestivalTransition resolves a named phase-advance action to its required
// predecessor phase and successor phase.
func FestivalTransition(action Action) (from, to FestivalPhase, ok bool) {
	step, ok := festivalTransitions[action]
	return step.from, step.to, ok
}

// AdvanceFestival validates a phase-advance request and returns the phase
// the festival must move to. It mutates nothing; the caller persists the new
// phase with a compare-and-swap against the returned predecessor.
func AdvanceFestival(f *Festival, actor Principal, action Action) (FestivalPhase, error) {
	step, ok := festivalTransitions[action]
	if !ok {
		return "", validationErr("unknown festival action %q", action)
	}
	if !Permit(actor.Role, action) {
		return "", ErrForbidden
	}
	if !f.IsOrganizer(actor.UserID) {
		return "", ErrForbidden
	}
	if f.Phase != step.from {
		return "", invalidTransition("festival", f.Phase, action)
	}
	return step.to, nil
}
