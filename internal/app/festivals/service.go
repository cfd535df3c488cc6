package festivals

import (
	"context"

	"stagedoor/internal/workflow"
)

// Store defines persistence operations for festivals.
type Store interface {
	CreateFestival(ctx context.Context, f *workflow.Festival, creatorID int64) (*workflow.Festival, error)
	GetFestival(ctx context.Context, id int64) (*workflow.Festival, error)
	ListFestivals(ctx context.Context) ([]*workflow.Festival, error)
	AddFestivalOrganizer(ctx context.Context, festivalID, userID int64) error
	AdvanceFestivalPhase(ctx context.Context, id int64, from, to workflow.FestivalPhase) (*workflow.Festival, error)
}

// Service coordinates festival lifecycle operations: it loads the entity,
// evaluates the access policy and organizer guard, runs the transition, and
// persists the result with a compare-and-swap.
type Service interface {
	Create(ctx context.Context, actor workflow.Principal, f *workflow.Festival) (*workflow.Festival, error)
	Get(ctx context.Context, id int64) (*workflow.Festival, error)
	List(ctx context.Context) ([]*workflow.Festival, error)
	AddOrganizer(ctx context.Context, actor workflow.Principal, festivalID, userID int64) (*workflow.Festival, error)
	Advance(ctx context.Context, actor workflow.Principal, festivalID int64, action workflow.Action) (*workflow.Festival, error)
}

type service struct {
	store Store
}

// New constructs a festivals Service.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, actor workflow.Principal, f *workflow.Festival) (*workflow.Festival, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !workflow.Permit(actor.Role, workflow.ActionCreateFestival) {
		return nil, workflow.ErrForbidden
	}
	return s.store.CreateFestival(ctx, f, actor.UserID)
}

func (s *service) Get(ctx context.Context, id int64) (*workflow.Festival, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetFestival(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*workflow.Festival, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListFestivals(ctx)
}

func (s *service) AddOrganizer(ctx context.Context, actor workflow.Principal, festivalID, userID int64) (*workflow.Festival, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.store.GetFestival(ctx, festivalID)
	if err != nil {
		return nil, err
	}
	// The organizer set is append-only and managed by existing organizers.
	if !f.IsOrganizer(actor.UserID) {
		return nil, workflow.ErrForbidden
	}
	if err := s.store.AddFestivalOrganizer(ctx, festivalID, userID); err != nil {
		return nil, err
	}
	return s.store.GetFestival(ctx, festivalID)
}

func (s *service) Advance(ctx context.Context, actor workflow.Principal, festivalID int64, action workflow.Action) (*workflow.Festival, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.store.GetFestival(ctx, festivalID)
	if err != nil {
		return nil, err
	}
	to, err := workflow.AdvanceFestival(f, actor, action)
	if err != nil {
		return nil, err
	}
	return s.store.AdvanceFestivalPhase(ctx, festivalID, f.Phase, to)
}
