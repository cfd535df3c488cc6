package performances

import (
	"context"

	"stagedoor/internal/workflow"
)

// Store defines persistence operations for performances.
type Store interface {
	CreatePerformance(ctx context.Context, p *workflow.Performance) (*workflow.Performance, error)
	GetPerformance(ctx context.Context, id int64) (*workflow.Performance, error)
	ListPerformancesByFestival(ctx context.Context, festivalID int64) ([]*workflow.Performance, error)
	AdvancePerformancePhase(ctx context.Context, id int64, from, to workflow.PerformancePhase) (*workflow.Performance, error)
	ReviewPerformance(ctx context.Context, id int64, from, to workflow.PerformancePhase, review workflow.Review) (*workflow.Performance, error)
	FinalizePerformance(ctx context.Context, id int64, from, to workflow.PerformancePhase, final workflow.FinalSubmission) (*workflow.Performance, error)
	AssignPerformanceStaff(ctx context.Context, id, staffID int64) (*workflow.Performance, error)
	UpdatePerformance(ctx context.Context, id int64, p *workflow.Performance) (*workflow.Performance, error)
	DeletePerformance(ctx context.Context, id int64, expected workflow.PerformancePhase) error
}

// FestivalStore resolves the parent festival for cross-entity phase gates.
// The festival is only ever read here, never written.
type FestivalStore interface {
	GetFestival(ctx context.Context, id int64) (*workflow.Festival, error)
}

// UserStore resolves users for staff assignment.
type UserStore interface {
	GetUser(ctx context.Context, id int64) (*workflow.User, error)
}

// Service coordinates performance lifecycle operations. Every transition
// follows the same shape: load entities, evaluate the guard, persist the new
// phase with a compare-and-swap. A guard failure mutates nothing; a lost
// swap surfaces workflow.ErrConflict.
type Service interface {
	Create(ctx context.Context, actor workflow.Principal, p *workflow.Performance) (*workflow.Performance, error)
	Get(ctx context.Context, id int64) (*workflow.Performance, error)
	ListByFestival(ctx context.Context, festivalID int64) ([]*workflow.Performance, error)
	Submit(ctx context.Context, actor workflow.Principal, id int64) (*workflow.Performance, error)
	Review(ctx context.Context, actor workflow.Principal, id int64, review workflow.Review) (*workflow.Performance, error)
	Approve(ctx context.Context, actor workflow.Principal, id int64) (*workflow.Performance, error)
	Reject(ctx context.Context, actor workflow.Principal, id int64) (*workflow.Performance, error)
	Schedule(ctx context.Context, actor workflow.Principal, id int64) (*workflow.Performance, error)
	FinalSubmit(ctx context.Context, actor workflow.Principal, id int64, final workflow.FinalSubmission) (*workflow.Performance, error)
	AssignStaff(ctx context.Context, actor workflow.Principal, id, staffID int64) (*workflow.Performance, error)
	Update(ctx context.Context, actor workflow.Principal, id int64, p *workflow.Performance) (*workflow.Performance, error)
	Withdraw(ctx context.Context, actor workflow.Principal, id int64) error
}

type service struct {
	store     Store
	festivals FestivalStore
	users     UserStore
}

// New constructs a performances Service.
func New(store Store, festivals FestivalStore, users UserStore) Service {
	return &service{store: store, festivals: festivals, users: users}
}

func (s *service) Create(ctx context.Context, actor workflow.Principal, p *workflow.Performance) (*workflow.Performance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !workflow.Permit(actor.Role, workflow.ActionCreatePerformance) {
		return nil, workflow.ErrForbidden
	}
	if _, err := s.festivals.GetFestival(ctx, p.FestivalID); err != nil {
		return nil, err
	}
	p.CreatorID = actor.UserID
	return s.store.CreatePerformance(ctx, p)
}

func (s *service) Get(ctx context.Context, id int64) (*workflow.Performance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetPerformance(ctx, id)
}

func (s *service) ListByFestival(ctx context.Context, festivalID int64) ([]*workflow.Performance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListPerformancesByFestival(ctx, festivalID)
}

func (s *service) Submit(ctx context.Context, actor workflow.Principal, id int64) (*workflow.Performance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.store.GetPerformance(ctx, id)
	if err != nil {
		return nil, err
	}
	f, err := s.festivals.GetFestival(ctx, p.FestivalID)
	if err != nil {
		return nil, err
	}
	to, err := workflow.SubmitPerformance(p, f, actor)
	if err != nil {
		return nil, err
	}
	return s.store.AdvancePerformancePhase(ctx, id, p.Phase, to)
}

func (s *service) Review(ctx context.Context, actor workflow.Principal, id int64, review workflow.Review) (*workflow.Performance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.store.GetPerformance(ctx, id)
	if err != nil {
		return nil, err
	}
	to, err := workflow.ReviewPerformance(p, actor, review)
	if err != nil {
		return nil, err
	}
	return s.store.ReviewPerformance(ctx, id, p.Phase, to, review)
}

func (s *service) Approve(ctx context.Context, actor workflow.Principal, id int64) (*workflow.Performance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.store.GetPerformance(ctx, id)
	if err != nil {
		return nil, err
	}
	to, err := workflow.ApprovePerformance(p, actor)
	if err != nil {
		return nil, err
	}
	return s.store.AdvancePerformancePhase(ctx, id, p.Phase, to)
}

func (s *service) Reject(ctx context.Context, actor workflow.Principal, id int64) (*workflow.Performance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.store.GetPerformance(ctx, id)
	if err != nil {
		return nil, err
	}
	to, err := workflow.RejectPerformance(p, actor)
	if err != nil {
		return nil, err
	}
	return s.store.AdvancePerformancePhase(ctx, id, p.Phase, to)
}

func (s *service) Schedule(ctx context.Context, actor workflow.Principal, id int64) (*workflow.Performance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.store.GetPerformance(ctx, id)
	if err != nil {
		return nil, err
	}
	f, err := s.festivals.GetFestival(ctx, p.FestivalID)
	if err != nil {
		return nil, err
	}
	to, err := workflow.SchedulePerformance(p, f, actor)
	if err != nil {
		return nil, err
	}
	return s.store.AdvancePerformancePhase(ctx, id, p.Phase, to)
}

func (s *service) FinalSubmit(ctx context.Context, actor workflow.Principal, id int64, final workflow.FinalSubmission) (*workflow.Performance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.store.GetPerformance(ctx, id)
	if err != nil {
		return nil, err
	}
	to, err := workflow.FinalSubmitPerformance(p, actor, final)
	if err != nil {
		return nil, err
	}
	return s.store.FinalizePerformance(ctx, id, p.Phase, to, final)
}

func (s *service) AssignStaff(ctx context.Context, actor workflow.Principal, id, staffID int64) (*workflow.Performance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.store.GetPerformance(ctx, id)
	if err != nil {
		return nil, err
	}
	staff, err := s.users.GetUser(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if err := workflow.AssignStaff(p, actor, staff); err != nil {
		return nil, err
	}
	return s.store.AssignPerformanceStaff(ctx, id, staffID)
}

func (s *service) Update(ctx context.Context, actor workflow.Principal, id int64, p *workflow.Performance) (*workflow.Performance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	current, err := s.store.GetPerformance(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.CanUpdatePerformance(current, actor); err != nil {
		return nil, err
	}
	return s.store.UpdatePerformance(ctx, id, p)
}

func (s *service) Withdraw(ctx context.Context, actor workflow.Principal, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.store.GetPerformance(ctx, id)
	if err != nil {
		return err
	}
	if err := workflow.CanWithdrawPerformance(p, actor); err != nil {
		return err
	}
	return s.store.DeletePerformance(ctx, id, p.Phase)
}
