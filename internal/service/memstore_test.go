package service_test

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/goaltrackr/internal/error_values"
	"github.com/limbo/goaltrackr/internal/repository"
	"github.com/limbo/goaltrackr/pkg/entity"
)

// memStore is an in-memory stand-in for the postgres repositories. Records
// are stored by value so callers never share memory with the store.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]entity.User
	goals    map[uuid.UUID]entity.Goal
	tasks    map[uuid.UUID]entity.Task
	journals map[uuid.UUID]entity.Journal
	writes   int
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uuid.UUID]entity.User),
		goals:    make(map[uuid.UUID]entity.Goal),
		tasks:    make(map[uuid.UUID]entity.Task),
		journals: make(map[uuid.UUID]entity.Journal),
	}
}

func (s *memStore) Users() *memUsers       { return &memUsers{s} }
func (s *memStore) Goals() *memGoals       { return &memGoals{s} }
func (s *memStore) Tasks() *memTasks       { return &memTasks{s} }
func (s *memStore) Journals() *memJournals { return &memJournals{s} }

func (s *memStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

type memUsers struct{ s *memStore }

func (m *memUsers) Create(ctx context.Context, user *entity.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return errorvalues.ErrUserExists
		}
	}
	m.s.users[user.ID] = *user
	m.s.writes++
	return nil
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, errorvalues.ErrUserNotFound
}

func (m *memUsers) FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[uid]
	if !ok {
		return nil, errorvalues.ErrUserNotFound
	}
	return &u, nil
}

func (m *memUsers) Update(ctx context.Context, user *entity.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[user.ID]; !ok {
		return errorvalues.ErrUserNotFound
	}
	m.s.users[user.ID] = *user
	m.s.writes++
	return nil
}

type memGoals struct{ s *memStore }

func (m *memGoals) Create(ctx context.Context, goal *entity.Goal) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.goals[goal.ID] = *goal
	m.s.writes++
	return nil
}

func (m *memGoals) GetByID(ctx context.Context, uid, id uuid.UUID) (*entity.Goal, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	g, ok := m.s.goals[id]
	if !ok || g.UserID != uid {
		return nil, errorvalues.ErrGoalNotFound
	}
	return &g, nil
}

func (m *memGoals) List(ctx context.Context, uid uuid.UUID, filter repository.GoalFilter) ([]*entity.Goal, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	goals := make([]*entity.Goal, 0)
	for _, g := range m.s.goals {
		if g.UserID != uid {
			continue
		}
		if filter.Status != "" && string(g.Status) != filter.Status {
			continue
		}
		if filter.Category != "" && !slices.Contains(g.Categories, filter.Category) {
			continue
		}
		goals = append(goals, &g)
	}
	slices.SortFunc(goals, func(a, b *entity.Goal) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return goals, nil
}

func (m *memGoals) Update(ctx context.Context, goal *entity.Goal) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	g, ok := m.s.goals[goal.ID]
	if !ok || g.UserID != goal.UserID {
		return errorvalues.ErrGoalNotFound
	}
	m.s.goals[goal.ID] = *goal
	m.s.writes++
	return nil
}

func (m *memGoals) Delete(ctx context.Context, uid, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	g, ok := m.s.goals[id]
	if !ok || g.UserID != uid {
		return errorvalues.ErrGoalNotFound
	}
	delete(m.s.goals, id)
	m.s.writes++
	return nil
}

type memTasks struct{ s *memStore }

func (m *memTasks) Create(ctx context.Context, task *entity.Task) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.goals[task.GoalID]; !ok {
		return errorvalues.ErrGoalNotFound
	}
	m.s.tasks[task.ID] = *task
	m.s.writes++
	return nil
}

func (m *memTasks) GetByID(ctx context.Context, uid, id uuid.UUID) (*entity.Task, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.tasks[id]
	if !ok || t.UserID != uid {
		return nil, errorvalues.ErrTaskNotFound
	}
	return &t, nil
}

func (m *memTasks) List(ctx context.Context, uid uuid.UUID, filter repository.TaskFilter) ([]*entity.Task, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	tasks := make([]*entity.Task, 0)
	for _, t := range m.s.tasks {
		if t.UserID != uid {
			continue
		}
		if filter.GoalID != uuid.Nil && t.GoalID != filter.GoalID {
			continue
		}
		if filter.Completed != nil && t.IsCompleted() != *filter.Completed {
			continue
		}
		tasks = append(tasks, &t)
	}
	slices.SortFunc(tasks, func(a, b *entity.Task) int {
		return cmp.Or(a.DueDate.Compare(b.DueDate), b.CreatedAt.Compare(a.CreatedAt))
	})
	return tasks, nil
}

func (m *memTasks) Update(ctx context.Context, task *entity.Task) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.tasks[task.ID]
	if !ok || t.UserID != task.UserID {
		return errorvalues.ErrTaskNotFound
	}
	m.s.tasks[task.ID] = *task
	m.s.writes++
	return nil
}

func (m *memTasks) Delete(ctx context.Context, uid, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.tasks[id]
	if !ok || t.UserID != uid {
		return errorvalues.ErrTaskNotFound
	}
	delete(m.s.tasks, id)
	m.s.writes++
	return nil
}

func (m *memTasks) DeleteByGoal(ctx context.Context, uid, goalID uuid.UUID) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for id, t := range m.s.tasks {
		if t.UserID == uid && t.GoalID == goalID {
			delete(m.s.tasks, id)
			n++
		}
	}
	m.s.writes++
	return n, nil
}

type memJournals struct{ s *memStore }

func (m *memJournals) Create(ctx context.Context, journal *entity.Journal) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.journals[journal.ID] = *journal
	m.s.writes++
	return nil
}

func (m *memJournals) GetByID(ctx context.Context, uid, id uuid.UUID) (*entity.Journal, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	j, ok := m.s.journals[id]
	if !ok || j.UserID != uid {
		return nil, errorvalues.ErrJournalNotFound
	}
	return &j, nil
}

func (m *memJournals) List(ctx context.Context, uid uuid.UUID, filter repository.JournalFilter) ([]*entity.Journal, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	journals := make([]*entity.Journal, 0)
	for _, j := range m.s.journals {
		if j.UserID != uid {
			continue
		}
		if filter.Mood != "" && string(j.Mood) != filter.Mood {
			continue
		}
		journals = append(journals, &j)
	}
	slices.SortFunc(journals, func(a, b *entity.Journal) int { return b.Date.Compare(a.Date) })
	return journals, nil
}

func (m *memJournals) Update(ctx context.Context, journal *entity.Journal) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	j, ok := m.s.journals[journal.ID]
	if !ok || j.UserID != journal.UserID {
		return errorvalues.ErrJournalNotFound
	}
	m.s.journals[journal.ID] = *journal
	m.s.writes++
	return nil
}

func (m *memJournals) Delete(ctx context.Context, uid, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	j, ok := m.s.journals[id]
	if !ok || j.UserID != uid {
		return errorvalues.ErrJournalNotFound
	}
	delete(m.s.journals, id)
	m.s.writes++
	return nil
}

// fixedClock returns a clock that advances a second on every call.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}
