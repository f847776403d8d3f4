package entity

import (
	"math"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// Progress derives the completion percentage from the goal's stored metric.
func (g *Goal) Progress() int {
	switch g.ProgressMetric {
	case MetricPercentage:
		return clampPercent(math.Round(g.CurrentValue))
	case MetricCount:
		if g.TargetValue <= 0 {
			return 0
		}
		return clampPercent(math.Round(g.CurrentValue / g.TargetValue * 100))
	case MetricBinary:
		if g.Status == GoalCompleted {
			return 100
		}
		return 0
	}
	return 0
}

func clampPercent(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return int(v)
}

func (g Goal) MarshalJSON() ([]byte, error) {
	type plain Goal
	return sonic.Marshal(struct {
		plain
		ProgressPercentage int `json:"progressPercentage"`
	}{plain(g), g.Progress()})
}

func (t *Task) IsCompleted() bool {
	return t.Status == TaskCompleted
}

func (t Task) MarshalJSON() ([]byte, error) {
	type plain Task
	return sonic.Marshal(struct {
		plain
		Completed bool `json:"completed"`
	}{plain(t), t.IsCompleted()})
}

// Owner methods tolerate nil receivers so lookups can be checked in one step.

func (g *Goal) Owner() uuid.UUID {
	if g == nil {
		return uuid.Nil
	}
	return g.UserID
}

func (t *Task) Owner() uuid.UUID {
	if t == nil {
		return uuid.Nil
	}
	return t.UserID
}

func (j *Journal) Owner() uuid.UUID {
	if j == nil {
		return uuid.Nil
	}
	return j.UserID
}
