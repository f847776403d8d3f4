package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationSettings struct {
	EmailNotifications bool `json:"emailNotifications"`
	PushNotifications  bool `json:"pushNotifications"`
	TaskReminders      bool `json:"taskReminders"`
	GoalUpdates        bool `json:"goalUpdates"`
}

type DisplaySettings struct {
	DarkMode           bool `json:"darkMode"`
	CompactView        bool `json:"compactView"`
	ShowCompletedTasks bool `json:"showCompletedTasks"`
}

type User struct {
	ID                   uuid.UUID            `json:"id"`
	Name                 string               `json:"name"`
	Email                string               `json:"email"`
	PasswordHash         string               `json:"-"`
	Image                string               `json:"image,omitempty"`
	Timezone             string               `json:"timezone"`
	NotificationSettings NotificationSettings `json:"notificationSettings"`
	DisplaySettings      DisplaySettings      `json:"displaySettings"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

// Identity is what a successful login hands to token issuance.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email}
}

type Goal struct {
	ID             uuid.UUID      `json:"_id"`
	UserID         uuid.UUID      `json:"userId"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Categories     []string       `json:"categories"`
	Status         GoalStatus     `json:"status"`
	Priority       Priority       `json:"priority"`
	ProgressMetric ProgressMetric `json:"progressMetric"`
	TargetValue    float64        `json:"targetValue"`
	CurrentValue   float64        `json:"currentValue"`
	TargetDate     *time.Time     `json:"targetDate"`
	CompletedDate  *time.Time     `json:"completedDate"`
	Color          string         `json:"color"`
	Archived       bool           `json:"archived"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

type Task struct {
	ID                   uuid.UUID         `json:"_id"`
	UserID               uuid.UUID         `json:"userId"`
	GoalID               uuid.UUID         `json:"goalId"`
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	Priority             Priority          `json:"priority"`
	Status               TaskStatus        `json:"status"`
	DueDate              time.Time         `json:"dueDate"`
	CompletedAt          *time.Time        `json:"completedAt"`
	WeekNumber           int               `json:"weekNumber"`
	YearNumber           int               `json:"yearNumber"`
	Recurring            bool              `json:"recurring"`
	RecurrencePattern    RecurrencePattern `json:"recurrencePattern"`
	EstimatedTimeMinutes int               `json:"estimatedTimeMinutes"`
	ActualTimeMinutes    int               `json:"actualTimeMinutes"`
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}

type Journal struct {
	ID           uuid.UUID   `json:"_id"`
	UserID       uuid.UUID   `json:"userId"`
	Title        string      `json:"title"`
	Content      string      `json:"content"`
	EntryType    EntryType   `json:"entryType"`
	Mood         Mood        `json:"mood"`
	Tags         []string    `json:"tags"`
	RelatedGoals []uuid.UUID `json:"relatedGoals"`
	RelatedTasks []uuid.UUID `json:"relatedTasks"`
	IsPrivate    bool        `json:"isPrivate"`
	Date         time.Time   `json:"date"`
	WeekNumber   int         `json:"weekNumber"`
	YearNumber   int         `json:"yearNumber"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

type GoalProgress struct {
	GoalID             uuid.UUID `json:"goalId"`
	Title              string    `json:"title"`
	Status             string    `json:"status"`
	ProgressPercentage int       `json:"progressPercentage"`
	TasksTotal         int       `json:"tasksTotal"`
	TasksCompleted     int       `json:"tasksCompleted"`
}

type Summary struct {
	TotalGoals           int            `json:"totalGoals"`
	CompletedGoals       int            `json:"completedGoals"`
	CompletionRate       int            `json:"completionRate"`
	GoalsByStatus        map[string]int `json:"goalsByStatus"`
	WeeklyTasks          int            `json:"weeklyTasks"`
	CompletedWeeklyTasks int            `json:"completedWeeklyTasks"`
	TaskCompletionRate   int            `json:"taskCompletionRate"`
	OverdueTasks         int            `json:"overdueTasks"`
	JournalEntries       int            `json:"journalEntries"`
	JournalsThisWeek     int            `json:"journalsThisWeek"`
	GoalProgress         []GoalProgress `json:"goalProgress"`
	GeneratedAt          time.Time      `json:"generatedAt"`
}
