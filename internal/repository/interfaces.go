package repository

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/goaltrackr/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database. ID and timestamps must be set by caller
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by normalized email. Used for login and uniqueness checks
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Looks up user by uid. Used by authorization middleware and settings
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Updates user's profile, password hash and settings
	Update(ctx context.Context, user *entity.User) error
}

type GoalsRepositoryI interface {
	// Inserts goal with all fields set by caller
	Create(ctx context.Context, goal *entity.Goal) error
	// Searches goal with given id owned by uid
	GetByID(ctx context.Context, uid, id uuid.UUID) (*entity.Goal, error)
	// Lists goals owned by uid matching the filter
	List(ctx context.Context, uid uuid.UUID, filter GoalFilter) ([]*entity.Goal, error)
	// Overwrites mutable fields of goal (ID and UserID are the match key)
	Update(ctx context.Context, goal *entity.Goal) error
	// Deletes goal with id owned by uid
	Delete(ctx context.Context, uid, id uuid.UUID) error
}

type TasksRepositoryI interface {
	// Inserts task with all fields set by caller
	Create(ctx context.Context, task *entity.Task) error
	// Searches task with given id owned by uid
	GetByID(ctx context.Context, uid, id uuid.UUID) (*entity.Task, error)
	// Lists tasks owned by uid matching the filter
	List(ctx context.Context, uid uuid.UUID, filter TaskFilter) ([]*entity.Task, error)
	// Overwrites mutable fields of task (ID and UserID are the match key)
	Update(ctx context.Context, task *entity.Task) error
	// Deletes task with id owned by uid
	Delete(ctx context.Context, uid, id uuid.UUID) error
	// Deletes every task of goalID owned by uid, returns how many were removed
	DeleteByGoal(ctx context.Context, uid, goalID uuid.UUID) (int64, error)
}

type JournalsRepositoryI interface {
	// Inserts journal entry with all fields set by caller
	Create(ctx context.Context, journal *entity.Journal) error
	// Searches journal entry with given id owned by uid
	GetByID(ctx context.Context, uid, id uuid.UUID) (*entity.Journal, error)
	// Lists journal entries owned by uid matching the filter
	List(ctx context.Context, uid uuid.UUID, filter JournalFilter) ([]*entity.Journal, error)
	// Overwrites mutable fields of journal (ID and UserID are the match key)
	Update(ctx context.Context, journal *entity.Journal) error
	// Deletes journal entry with id owned by uid
	Delete(ctx context.Context, uid, id uuid.UUID) error
}

const (
	GoalSortCreated  = "createdAt"
	GoalSortDeadline = "deadline"
	GoalSortProgress = "progress"
	GoalSortPriority = "priority"
	GoalSortTitle    = "title"
)

type GoalFilter struct {
	Status   string
	Priority string
	Category string
	// Case-insensitive substring over title and description
	Search string
	Sort   string
}

type TaskFilter struct {
	GoalID    uuid.UUID
	Priority  string
	Status    string
	Completed *bool
}

type JournalFilter struct {
	From *time.Time
	To   *time.Time
	Mood string
	Tag  string
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
	MaxConns int
	// Passed through as sslmode when set
	SSLMode string
}

func (pgcfg *PGCfg) ConnString() string {
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(pgcfg.Username, pgcfg.Password),
		Host:   pgcfg.Address,
		Path:   pgcfg.DB,
	}
	q := url.Values{}
	if pgcfg.SSLMode != "" {
		q.Set("sslmode", pgcfg.SSLMode)
	}
	if pgcfg.MaxConns > 0 {
		q.Set("pool_max_conns", strconv.Itoa(pgcfg.MaxConns))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
