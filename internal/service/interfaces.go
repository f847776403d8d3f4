package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/goaltrackr/pkg/calendar"
	"github.com/limbo/goaltrackr/pkg/entity"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UpdateSettingsRequest struct {
	Name                 *string                      `json:"name" validate:"omitnil,min=1,max=100"`
	Email                *string                      `json:"email" validate:"omitnil,email,max=254"`
	Image                *string                      `json:"image" validate:"omitnil,max=2048"`
	Timezone             *string                      `json:"timezone" validate:"omitnil,timezone"`
	CurrentPassword      *string                      `json:"currentPassword"`
	NewPassword          *string                      `json:"newPassword" validate:"omitnil,min=8,max=72"`
	NotificationSettings *entity.NotificationSettings `json:"notificationSettings"`
	DisplaySettings      *entity.DisplaySettings      `json:"displaySettings"`
}

type CreateGoalRequest struct {
	Title          string                `json:"title" validate:"required,max=100"`
	Description    string                `json:"description" validate:"max=500"`
	Categories     []string              `json:"categories" validate:"omitempty,max=20,dive,max=50"`
	Status         entity.GoalStatus     `json:"status" validate:"omitempty,goal_status"`
	Priority       entity.Priority       `json:"priority" validate:"omitempty,priority"`
	ProgressMetric entity.ProgressMetric `json:"progressMetric" validate:"omitempty,progress_metric"`
	TargetValue    *float64              `json:"targetValue" validate:"omitnil,gte=0"`
	CurrentValue   *float64              `json:"currentValue" validate:"omitnil,gte=0"`
	TargetDate     *calendar.Date        `json:"targetDate"`
	Color          string                `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateGoalRequest is the goal patch allow-list, nil fields are left as stored.
type UpdateGoalRequest struct {
	Title          *string                `json:"title" validate:"omitnil,min=1,max=100"`
	Description    *string                `json:"description" validate:"omitnil,max=500"`
	Categories     []string               `json:"categories" validate:"omitempty,max=20,dive,max=50"`
	Status         *entity.GoalStatus     `json:"status" validate:"omitnil,goal_status"`
	Priority       *entity.Priority       `json:"priority" validate:"omitnil,priority"`
	ProgressMetric *entity.ProgressMetric `json:"progressMetric" validate:"omitnil,progress_metric"`
	TargetValue    *float64               `json:"targetValue" validate:"omitnil,gte=0"`
	CurrentValue   *float64               `json:"currentValue" validate:"omitnil,gte=0"`
	TargetDate     *calendar.Date         `json:"targetDate"`
	CompletedDate  *calendar.Date         `json:"completedDate"`
	Color          *string                `json:"color" validate:"omitnil,hexcolor"`
	Archived       *bool                  `json:"archived"`

	// Removes the deadline, a null targetDate leaves it untouched
	ClearTargetDate bool `json:"clearTargetDate"`
}

type GoalListQuery struct {
	Status   entity.GoalStatus `validate:"omitempty,goal_status"`
	Priority entity.Priority   `validate:"omitempty,priority"`
	Category string
	Search   string `validate:"max=100"`
	Sort     string `validate:"omitempty,goal_sort"`
}

type CreateTaskRequest struct {
	GoalID            string                   `json:"goalId" validate:"required"`
	Title             string                   `json:"title" validate:"required,max=100"`
	Description       string                   `json:"description" validate:"max=500"`
	Priority          entity.Priority          `json:"priority" validate:"omitempty,priority"`
	Status            entity.TaskStatus        `json:"status" validate:"omitempty,task_status"`
	Completed         *bool                    `json:"completed"`
	DueDate           *calendar.Date           `json:"dueDate" validate:"required"`
	WeekNumber        *int                     `json:"weekNumber" validate:"omitnil,min=1,max=54"`
	YearNumber        *int                     `json:"yearNumber" validate:"omitnil,min=1970,max=9999"`
	Recurring         bool                     `json:"recurring"`
	RecurrencePattern entity.RecurrencePattern `json:"recurrencePattern" validate:"omitempty,recurrence"`
	EstimatedTime     int                      `json:"estimatedTimeMinutes" validate:"min=0"`
	ActualTime        int                      `json:"actualTimeMinutes" validate:"min=0"`
}

// UpdateTaskRequest is the task patch allow-list. Week and year are derived
// from dueDate and cannot be set directly.
type UpdateTaskRequest struct {
	GoalID            *string                   `json:"goalId" validate:"omitnil,min=1"`
	Title             *string                   `json:"title" validate:"omitnil,min=1,max=100"`
	Description       *string                   `json:"description" validate:"omitnil,max=500"`
	Priority          *entity.Priority          `json:"priority" validate:"omitnil,priority"`
	Status            *entity.TaskStatus        `json:"status" validate:"omitnil,task_status"`
	Completed         *bool                     `json:"completed"`
	DueDate           *calendar.Date            `json:"dueDate"`
	Recurring         *bool                     `json:"recurring"`
	RecurrencePattern *entity.RecurrencePattern `json:"recurrencePattern" validate:"omitnil,recurrence"`
	EstimatedTime     *int                      `json:"estimatedTimeMinutes" validate:"omitnil,min=0"`
	ActualTime        *int                      `json:"actualTimeMinutes" validate:"omitnil,min=0"`
}

type TaskListQuery struct {
	GoalID string
	// "completed", "pending" or an exact status label
	Status   string
	Priority entity.Priority `validate:"omitempty,priority"`
}

type CreateJournalRequest struct {
	Title        string           `json:"title" validate:"max=100"`
	Content      string           `json:"content" validate:"required"`
	EntryType    entity.EntryType `json:"entryType" validate:"omitempty,entry_type"`
	Mood         string           `json:"mood" validate:"omitempty,mood"`
	Tags         []string         `json:"tags" validate:"omitempty,max=30,dive,max=50"`
	RelatedGoals []uuid.UUID      `json:"relatedGoals"`
	RelatedTasks []uuid.UUID      `json:"relatedTasks"`
	IsPrivate    *bool            `json:"isPrivate"`
	Date         *calendar.Date   `json:"date"`
	WeekNumber   *int             `json:"weekNumber" validate:"omitnil,min=1,max=54"`
	YearNumber   *int             `json:"yearNumber" validate:"omitnil,min=1970,max=9999"`
}

// UpdateJournalRequest is the journal patch allow-list, nil fields are left
// as stored.
type UpdateJournalRequest struct {
	Title        *string           `json:"title" validate:"omitnil,min=1,max=100"`
	Content      *string           `json:"content" validate:"omitnil,min=1"`
	EntryType    *entity.EntryType `json:"entryType" validate:"omitnil,entry_type"`
	Mood         *string           `json:"mood" validate:"omitnil,mood"`
	Tags         []string          `json:"tags" validate:"omitempty,max=30,dive,max=50"`
	RelatedGoals []uuid.UUID       `json:"relatedGoals"`
	RelatedTasks []uuid.UUID       `json:"relatedTasks"`
	IsPrivate    *bool             `json:"isPrivate"`
	Date         *calendar.Date    `json:"date"`
}

type JournalListQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	Mood      string `validate:"omitempty,mood"`
	Tag       string
}

type UserServiceI interface {
	// Validates sign-up data, hashes password and stores new user. Email must be unused
	SignUp(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Checks credentials and returns identity for token issuance
	Authenticate(ctx context.Context, email, password string) (*entity.Identity, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// Applies profile, password and settings changes of user
	UpdateSettings(ctx context.Context, id uuid.UUID, req *UpdateSettingsRequest) (*entity.User, error)
}

type GoalsServiceI interface {
	List(ctx context.Context, uid uuid.UUID, query GoalListQuery) ([]*entity.Goal, error)
	Get(ctx context.Context, uid, id uuid.UUID) (*entity.Goal, error)
	Create(ctx context.Context, uid uuid.UUID, req *CreateGoalRequest) (*entity.Goal, error)
	Update(ctx context.Context, uid, id uuid.UUID, req *UpdateGoalRequest) (*entity.Goal, error)
	// Removes goal together with its tasks
	Delete(ctx context.Context, uid, id uuid.UUID) error
}

type TasksServiceI interface {
	List(ctx context.Context, uid uuid.UUID, query TaskListQuery) ([]*entity.Task, error)
	Get(ctx context.Context, uid, id uuid.UUID) (*entity.Task, error)
	Create(ctx context.Context, uid uuid.UUID, req *CreateTaskRequest) (*entity.Task, error)
	Update(ctx context.Context, uid, id uuid.UUID, req *UpdateTaskRequest) (*entity.Task, error)
	Delete(ctx context.Context, uid, id uuid.UUID) error
	// Sets completion state. Repeated calls with the same value do not write
	Complete(ctx context.Context, uid, id uuid.UUID, completed bool) (*entity.Task, error)
}

type JournalsServiceI interface {
	List(ctx context.Context, uid uuid.UUID, query JournalListQuery) ([]*entity.Journal, error)
	Get(ctx context.Context, uid, id uuid.UUID) (*entity.Journal, error)
	Create(ctx context.Context, uid uuid.UUID, req *CreateJournalRequest) (*entity.Journal, error)
	Update(ctx context.Context, uid, id uuid.UUID, req *UpdateJournalRequest) (*entity.Journal, error)
	Delete(ctx context.Context, uid, id uuid.UUID) error
}

type DashboardServiceI interface {
	Summary(ctx context.Context, uid uuid.UUID) (*entity.Summary, error)
}

// SummaryCache keeps computed dashboard summaries per user. Get reports the
// owner's generation on a miss; Set stores a summary only if no Invalidate
// happened since that generation was read.
type SummaryCache interface {
	Get(ctx context.Context, uid uuid.UUID) (summary *entity.Summary, generation int64, ok bool)
	Set(ctx context.Context, uid uuid.UUID, generation int64, summary *entity.Summary)
	Invalidate(ctx context.Context, uid uuid.UUID)
}
