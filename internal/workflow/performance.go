package workflow

import (
	"strings"
	"time"
)

// PerformancePhase is a performance's position in its lifecycle. The path is
// CREATED → SUBMITTED → REVIEWED → APPROVED → SCHEDULED → FINAL_SUBMITTED,
// with REJECTED a terminal branch out of REVIEWED.
type PerformancePhase string

const (
	PerformanceCreated        PerformancePhase = "CREATED"
	PerformanceSubmitted      PerformancePhase = "SUBMITTED"
	PerformanceReviewed       PerformancePhase = "REVIEWED"
	PerformanceApproved       PerformancePhase = "APPROVED"
	PerformanceRejected       PerformancePhase = "REJECTED"
	PerformanceScheduled      PerformancePhase = "SCHEDULED"
	PerformanceFinalSubmitted PerformancePhase = "FINAL_SUBMITTED"
)

func (p PerformancePhase) String() string { return string(p) }

// Valid reports whether the phase is a known variant.
func (p PerformancePhase) Valid() bool {
	switch p {
	case PerformanceCreated, PerformanceSubmitted, PerformanceReviewed,
		PerformanceApproved, PerformanceRejected, PerformanceScheduled,
		PerformanceFinalSubmitted:
		return true
	}
	return false
}

// Review is the staff assessment attached at the REVIEWED transition.
type Review struct {
	Score    int    `json:"score"`
	Comments string `json:"comments"`
}

// FinalSubmission carries the fields populated at the FINAL_SUBMITTED
// transition; all three lists must be non-empty.
type FinalSubmission struct {
	Setlist                   []string `json:"setlist"`
	PreferredRehearsalSlots   []string `json:"preferredRehearsalSlots"`
	PreferredPerformanceSlots []string `json:"preferredPerformanceSlots"`
}

// Performance is an artist's act submitted to exactly one festival. The
// festival reference and creator identity never change after creation.
type Performance struct {
	ID          int64    `json:"id"`
	FestivalID  int64    `json:"festivalId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Genre       string   `json:"genre"`
	Duration    int      `json:"duration"`
	BandMembers []string `json:"bandMembers"`

	CreatorID int64  `json:"creatorId"`
	StaffID   *int64 `json:"staffId,omitempty"`

	Review                    *Review  `json:"review,omitempty"`
	Setlist                   []string `json:"setlist,omitempty"`
	PreferredRehearsalSlots   []string `json:"preferredRehearsalSlots,omitempty"`
	PreferredPerformanceSlots []string `json:"preferredPerformanceSlots,omitempty"`

	Phase     PerformancePhase `json:"phase"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// IsCreator reports whether the user submitted this performance.
func (p *Performance) IsCreator(userID int64) bool { return p.CreatorID == userID }

// IsAssignedStaff reports whether the user is the staff member assigned to
// review this performance. A performance with no staff assigned matches
// nobody.
func (p *Performance) IsAssignedStaff(userID int64) bool {
	return p.StaffID != nil && *p.StaffID == userID
}

// SubmitPerformance guards the CREATED → SUBMITTED transition. The creator
// may only submit while the parent festival has its submission window open.
func SubmitPerformance(p *Performance, f *Festival, actor Principal) (PerformancePhase, error) {
	if !Permit(actor.Role, ActionSubmitPerformance) {
		return "", ErrForbidden
	}
	if !p.IsCreator(actor.UserID) {
		return "", ErrForbidden
	}
	if f.Phase != FestivalSubmission {
		return "", invalidTransition("festival", f.Phase, ActionSubmitPerformance)
	}
	if p.Phase != PerformanceCreated {
		return "", invalidTransition("performance", p.Phase, ActionSubmitPerformance)
	}
	return PerformanceSubmitted, nil
}

// ReviewPerformance guards SUBMITTED → REVIEWED. Only the assigned staff
// member may review, and the review payload must be complete. There is no
// festival-phase gate here: staff review may legitimately lag the festival's
// later phases.
func ReviewPerformance(p *Performance, actor Principal, review Review) (PerformancePhase, error) {
	if !Permit(actor.Role, ActionReviewPerformance) {
		return "", ErrForbidden
	}
	if !p.IsAssignedStaff(actor.UserID) {
		return "", ErrForbidden
	}
	if p.Phase != PerformanceSubmitted {
		return "", invalidTransition("performance", p.Phase, ActionReviewPerformance)
	}
	if review.Score == 0 {
		return "", validationErr("review score is required")
	}
	if strings.TrimSpace(review.Comments) == "" {
		return "", validationErr("review comments are required")
	}
	return PerformanceReviewed, nil
}

// ApprovePerformance guards REVIEWED → APPROVED.
func ApprovePerformance(p *Performance, actor Principal) (PerformancePhase, error) {
	if !Permit(actor.Role, ActionApprovePerformance) {
		return "", ErrForbidden
	}
	if p.Phase != PerformanceReviewed {
		return "", invalidTransition("performance", p.Phase, ActionApprovePerformance)
	}
	return PerformanceApproved, nil
}

// RejectPerformance guards REVIEWED → REJECTED. REJECTED is terminal.
func RejectPerformance(p *Performance, actor Principal) (PerformancePhase, error) {
	if !Permit(actor.Role, ActionRejectPerformance) {
		return "", ErrForbidden
	}
	if p.Phase != PerformanceReviewed {
		return "", invalidTransition("performance", p.Phase, ActionRejectPerformance)
	}
	return PerformanceRejected, nil
}

// SchedulePerformance guards APPROVED → SCHEDULED; the festival must have
// entered its scheduling phase.
func SchedulePerformance(p *Performance, f *Festival, actor Principal) (PerformancePhase, error) {
	if !Permit(actor.Role, ActionSchedulePerformance) {
		return "", ErrForbidden
	}
	if f.Phase != FestivalScheduling {
		return "", invalidTransition("festival", f.Phase, ActionSchedulePerformance)
	}
	if p.Phase != PerformanceApproved {
		return "", invalidTransition("performance", p.Phase, ActionSchedulePerformance)
	}
	return PerformanceScheduled, nil
}

// FinalSubmitPerformance guards the transition into FINAL_SUBMITTED. The
// creator supplies the setlist and both preferred-slot lists; all three must
// be non-empty.
func FinalSubmitPerformance(p *Performance, actor Principal, final FinalSubmission) (PerformancePhase, error) {
	if !Permit(actor.Role, ActionFinalSubmit) {
		return "", ErrForbidden
	}
	if !p.IsCreator(actor.UserID) {
		return "", ErrForbidden
	}
	if p.Phase != PerformanceApproved && p.Phase != PerformanceScheduled {
		return "", invalidTransition("performance", p.Phase, ActionFinalSubmit)
	}
	if len(final.Setlist) == 0 {
		return "", validationErr("setlist is required")
	}
	if len(final.PreferredRehearsalSlots) == 0 {
		return "", validationErr("preferred rehearsal slots are required")
	}
	if len(final.PreferredPerformanceSlots) == 0 {
		return "", validationErr("preferred performance slots are required")
	}
	return PerformanceFinalSubmitted, nil
}

// AssignStaff guards attaching a reviewer. The target user must hold the
// STAFF role; the performance phase is not restricted.
func AssignStaff(p *Performance, actor Principal, staff *User) error {
	if !Permit(actor.Role, ActionAssignStaff) {
		return ErrForbidden
	}
	if staff.Role != RoleStaff {
		return validationErr("user %q does not hold the STAFF role", staff.Username)
	}
	return nil
}

// CanUpdatePerformance guards free-form edits by the creator. The phase is
// not restricted and does not change.
func CanUpdatePerformance(p *Performance, actor Principal) error {
	if !Permit(actor.Role, ActionUpdatePerformance) {
		return ErrForbidden
	}
	if !p.IsCreator(actor.UserID) {
		return ErrForbidden
	}
	return nil
}

// CanWithdrawPerformance guards deletion. A submitted performance is in the
// hands of the festival and can no longer be withdrawn by anyone.
func CanWithdrawPerformance(p *Performance, actor Principal) error {
	if !Permit(actor.Role, ActionWithdrawPerformance) {
		return ErrForbidden
	}
	if p.Phase == PerformanceSubmitted {
		return invalidTransition("performance", p.Phase, ActionWithdrawPerformance)
	}
	if !p.IsCreator(actor.UserID) {
		return ErrForbidden
	}
	return nil
}
