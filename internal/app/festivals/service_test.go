package festivals

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"stagedoor/internal/workflow"
)

type memStore struct {
	mu        sync.Mutex
	festivals map[int64]*workflow.Festival
	nextID    int64
}

func newMemStore() *memStore {
	return &memStore{festivals: make(map[int64]*workflow.Festival)}
}

func (m *memStore) CreateFestival(_ context.Context, f *workflow.Festival, creatorID int64) (*workflow.Festival, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.festivals {
		if existing.Name == f.Name {
			return nil, fmt.Errorf("festival name %q: %w", f.Name, workflow.ErrConflict)
		}
	}
	m.nextID++
	created := *f
	created.ID = m.nextID
	created.Phase = workflow.FestivalCreated
	created.Organizers = []int64{creatorID}
	m.festivals[created.ID] = &created
	copied := created
	return &copied, nil
}

func (m *memStore) GetFestival(_ context.Context, id int64) (*workflow.Festival, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(id)
}

func (m *memStore) getLocked(id int64) (*workflow.Festival, error) {
	f, ok := m.festivals[id]
	if !ok {
		return nil, fmt.Errorf("festival %d: %w", id, workflow.ErrNotFound)
	}
	copied := *f
	copied.Organizers = append([]int64(nil), f.Organizers...)
	return &copied, nil
}

func (m *memStore) ListFestivals(_ context.Context) ([]*workflow.Festival, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*workflow.Festival
	for id := range m.festivals {
		f, _ := m.getLocked(id)
		out = append(out, f)
	}
	return out, nil
}

func (m *memStore) AddFestivalOrganizer(_ context.Context, festivalID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.festivals[festivalID]
	if !ok {
		return fmt.Errorf("festival %d: %w", festivalID, workflow.ErrNotFound)
	}
	if !f.IsOrganizer(userID) {
		f.Organizers = append(f.Organizers, userID)
	}
	return nil
}

func (m *memStore) AdvanceFestivalPhase(_ context.Context, id int64, from, to workflow.FestivalPhase) (*workflow.Festival, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.festivals[id]
	if !ok {
		return nil, fmt.Errorf("festival %d: %w", id, workflow.ErrNotFound)
	}
	if f.Phase != from {
		return nil, fmt.Errorf("festival %d phase changed concurrently: %w", id, workflow.ErrConflict)
	}
	f.Phase = to
	return m.getLocked(id)
}

var organizer = workflow.Principal{UserID: 10, Username: "olga", Role: workflow.RoleOrganizer}

func TestCreateFestival(t *testing.T) {
	ctx := context.Background()
	svc := New(newMemStore())

	created, err := svc.Create(ctx, organizer, &workflow.Festival{Name: "Riverside Sounds"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Phase != workflow.FestivalCreated {
		t.Fatalf("phase = %s, want CREATED", created.Phase)
	}
	if !created.IsOrganizer(organizer.UserID) {
		t.Fatalf("creator not in organizer set: %v", created.Organizers)
	}
}

func TestCreateFestivalForbiddenRole(t *testing.T) {
	ctx := context.Background()
	svc := New(newMemStore())

	actor := workflow.Principal{UserID: 20, Role: workflow.RoleArtist}
	if _, err := svc.Create(ctx, actor, &workflow.Festival{Name: "No"}); !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestCreateFestivalDuplicateName(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := New(store)

	first, err := svc.Create(ctx, organizer, &workflow.Festival{Name: "Riverside Sounds"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, organizer, &workflow.Festival{Name: "Riverside Sounds"}); !errors.Is(err, workflow.ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}

	// First festival untouched by the failed create.
	got, err := svc.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Phase != workflow.FestivalCreated {
		t.Fatalf("first festival mutated: %s", got.Phase)
	}
}

func TestAdvanceThroughFullLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := New(newMemStore())

	created, err := svc.Create(ctx, organizer, &workflow.Festival{Name: "Riverside Sounds"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sequence := []struct {
		action workflow.Action
		want   workflow.FestivalPhase
	}{
		{workflow.ActionStartSubmission, workflow.FestivalSubmission},
		{workflow.ActionStartAssignment, workflow.FestivalAssignment},
		{workflow.ActionStartReview, workflow.FestivalReview},
		{workflow.ActionStartScheduling, workflow.FestivalScheduling},
		{workflow.ActionStartFinalSubmission, workflow.FestivalFinalSubmission},
		{workflow.ActionStartDecision, workflow.FestivalDecision},
		{workflow.ActionAnnounce, workflow.FestivalAnnounced},
	}

	for _, step := range sequence {
		f, err := svc.Advance(ctx, organizer, created.ID, step.action)
		if err != nil {
			t.Fatalf("advance %s: %v", step.action, err)
		}
		if f.Phase != step.want {
			t.Fatalf("after %s: phase = %s, want %s", step.action, f.Phase, step.want)
		}
	}

	// Replaying any action after the phase advanced must fail.
	if _, err := svc.Advance(ctx, organizer, created.ID, workflow.ActionAnnounce); !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("got %v, want ErrInvalidTransition", err)
	}
}

func TestAdvanceByNonOrganizer(t *testing.T) {
	ctx := context.Background()
	svc := New(newMemStore())

	created, err := svc.Create(ctx, organizer, &workflow.Festival{Name: "Riverside Sounds"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	outsider := workflow.Principal{UserID: 99, Role: workflow.RoleOrganizer}
	if _, err := svc.Advance(ctx, outsider, created.ID, workflow.ActionStartSubmission); !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestAddOrganizer(t *testing.T) {
	ctx := context.Background()
	svc := New(newMemStore())

	created, err := svc.Create(ctx, organizer, &workflow.Festival{Name: "Riverside Sounds"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.AddOrganizer(ctx, organizer, created.ID, 11)
	if err != nil {
		t.Fatalf("add organizer: %v", err)
	}
	if !updated.IsOrganizer(11) {
		t.Fatalf("organizer not appended: %v", updated.Organizers)
	}

	outsider := workflow.Principal{UserID: 99, Role: workflow.RoleOrganizer}
	if _, err := svc.AddOrganizer(ctx, outsider, created.ID, 12); !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestConcurrentAdvance(t *testing.T) {
	ctx := context.Background()
	svc := New(newMemStore())

	created, err := svc.Create(ctx, organizer, &workflow.Festival{Name: "Riverside Sounds"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Advance(ctx, organizer, created.ID, workflow.ActionStartSubmission)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, failures int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, workflow.ErrConflict) || errors.Is(err, workflow.ErrInvalidTransition):
			failures++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || failures != 1 {
		t.Fatalf("got %d successes and %d failures, want exactly one of each", successes, failures)
	}
}
