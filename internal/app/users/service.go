package users

import (
	"context"

	"stagedoor/internal/workflow"
)

// Store describes the persistence operations required by the user service.
type Store interface {
	CreateUser(ctx context.Context, username, password string, role workflow.Role) (*workflow.User, error)
	Authenticate(ctx context.Context, username, password string) (*workflow.User, error)
	GetUser(ctx context.Context, id int64) (*workflow.User, error)
	SetUserStatus(ctx context.Context, id int64, status workflow.AccountStatus) (*workflow.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// TokenIssuer mints session tokens after a successful login.
type TokenIssuer interface {
	Issue(user workflow.User) (string, error)
}

// Service exposes account workflows.
type Service interface {
	Register(ctx context.Context, username, password string, role workflow.Role) (*workflow.User, error)
	Login(ctx context.Context, username, password string) (string, *workflow.User, error)
	Get(ctx context.Context, id int64) (*workflow.User, error)
	SetStatus(ctx context.Context, actor workflow.Principal, id int64, status workflow.AccountStatus) (*workflow.User, error)
	Delete(ctx context.Context, actor workflow.Principal, id int64) error
}

type service struct {
	store  Store
	tokens TokenIssuer
}

// New wires a Service backed by the provided Store and token issuer.
func New(store Store, tokens TokenIssuer) Service {
	return &service{store: store, tokens: tokens}
}

func (s *service) Register(ctx context.Context, username, password string, role workflow.Role) (*workflow.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.CreateUser(ctx, username, password, role)
}

func (s *service) Login(ctx context.Context, username, password string) (string, *workflow.User, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	user, err := s.store.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	if user.Status != workflow.AccountActive {
		return "", nil, workflow.ErrForbidden
	}
	token, err := s.tokens.Issue(*user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *service) Get(ctx context.Context, id int64) (*workflow.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetUser(ctx, id)
}

func (s *service) SetStatus(ctx context.Context, actor workflow.Principal, id int64, status workflow.AccountStatus) (*workflow.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	validated, err := workflow.SetAccountStatus(actor, status)
	if err != nil {
		return nil, err
	}
	return s.store.SetUserStatus(ctx, id, validated)
}

func (s *service) Delete(ctx context.Context, actor workflow.Principal, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := workflow.CanDeleteUser(actor); err != nil {
		return err
	}
	return s.store.DeleteUser(ctx, id)
}
