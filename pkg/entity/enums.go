package entity

import "strings"

type GoalStatus string

const (
	GoalNotStarted GoalStatus = "Not Started"
	GoalInProgress GoalStatus = "In Progress"
	GoalCompleted  GoalStatus = "Completed"
	GoalOnHold     GoalStatus = "On Hold"
	GoalAbandoned  GoalStatus = "Abandoned"
)

func (s GoalStatus) Valid() bool {
	switch s {
	case GoalNotStarted, GoalInProgress, GoalCompleted, GoalOnHold, GoalAbandoned:
		return true
	}
	return false
}

// TaskStatus is the single source of truth for task completion; the boolean
// "completed" view is derived from it.
type TaskStatus string

const (
	TaskNotStarted TaskStatus = "Not Started"
	TaskInProgress TaskStatus = "In Progress"
	TaskCompleted  TaskStatus = "Completed"
	TaskDeferred   TaskStatus = "Deferred"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskNotStarted, TaskInProgress, TaskCompleted, TaskDeferred:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities High first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

type ProgressMetric string

const (
	MetricPercentage ProgressMetric = "Percentage"
	MetricCount      ProgressMetric = "Count"
	MetricBinary     ProgressMetric = "Binary"
)

func (m ProgressMetric) Valid() bool {
	switch m {
	case MetricPercentage, MetricCount, MetricBinary:
		return true
	}
	return false
}

type RecurrencePattern string

const (
	RecurrenceDaily   RecurrencePattern = "Daily"
	RecurrenceWeekly  RecurrencePattern = "Weekly"
	RecurrenceMonthly RecurrencePattern = "Monthly"
	RecurrenceNone    RecurrencePattern = "None"
)

func (r RecurrencePattern) Valid() bool {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceNone:
		return true
	}
	return false
}

type EntryType string

const (
	EntryDaily      EntryType = "Daily"
	EntryWeekly     EntryType = "Weekly"
	EntryReflection EntryType = "Reflection"
	EntryNote       EntryType = "Note"
)

func (e EntryType) Valid() bool {
	switch e {
	case EntryDaily, EntryWeekly, EntryReflection, EntryNote:
		return true
	}
	return false
}

type Mood string

const (
	MoodVeryNegative Mood = "Very Negative"
	MoodNegative     Mood = "Negative"
	MoodNeutral      Mood = "Neutral"
	MoodPositive     Mood = "Positive"
	MoodVeryPositive Mood = "Very Positive"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodVeryNegative, MoodNegative, MoodNeutral, MoodPositive, MoodVeryPositive:
		return true
	}
	return false
}

// Labels used by older journal forms, mapped onto the canonical scale.
var legacyMoods = map[string]Mood{
	"great":    MoodVeryPositive,
	"good":     MoodPositive,
	"okay":     MoodNeutral,
	"meh":      MoodNeutral,
	"bad":      MoodNegative,
	"awful":    MoodVeryNegative,
	"terrible": MoodVeryNegative,
}

// NormalizeMood maps canonical and legacy labels onto the canonical scale.
// Unknown labels are returned unchanged so validation can reject them.
func NormalizeMood(label string) Mood {
	label = strings.TrimSpace(label)
	if m := Mood(label); m.Valid() {
		return m
	}
	if m, ok := legacyMoods[strings.ToLower(label)]; ok {
		return m
	}
	return Mood(label)
}
