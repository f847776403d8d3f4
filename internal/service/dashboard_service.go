package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/goaltrackr/internal/repository"
	"github.com/limbo/goaltrackr/pkg/calendar"
	"github.com/limbo/goaltrackr/pkg/entity"
)

var goalStatuses = []entity.GoalStatus{
	entity.GoalNotStarted,
	entity.GoalInProgress,
	entity.GoalCompleted,
	entity.GoalOnHold,
	entity.GoalAbandoned,
}

type DashboardService struct {
	goals    repository.GoalsRepositoryI
	tasks    repository.TasksRepositoryI
	journals repository.JournalsRepositoryI
	opts     options
}

func NewDashboardService(goals repository.GoalsRepositoryI, tasks repository.TasksRepositoryI,
	journals repository.JournalsRepositoryI, opts ...Option) *DashboardService {
	if goals == nil || tasks == nil || journals == nil {
		log.Fatal("on dashboard service provided nil repos")
	}
	return &DashboardService{
		goals:    goals,
		tasks:    tasks,
		journals: journals,
		opts:     newOptions(opts),
	}
}

func (ds *DashboardService) Summary(ctx context.Context, uid uuid.UUID) (*entity.Summary, error) {
	var generation int64
	if ds.opts.cache != nil {
		cached, gen, ok := ds.opts.cache.Get(ctx, uid)
		if ok {
			return cached, nil
		}
		generation = gen
	}
	goals, err := ds.goals.List(ctx, uid, repository.GoalFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing goals for summary: %w", err)
	}
	tasks, err := ds.tasks.List(ctx, uid, repository.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing tasks for summary: %w", err)
	}
	journals, err := ds.journals.List(ctx, uid, repository.JournalFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing journals for summary: %w", err)
	}
	summary := summarize(ds.opts.now(), goals, tasks, journals)
	if ds.opts.cache != nil {
		ds.opts.cache.Set(ctx, uid, generation, summary)
	}
	return summary, nil
}

func summarize(now time.Time, goals []*entity.Goal, tasks []*entity.Task, journals []*entity.Journal) *entity.Summary {
	s := &entity.Summary{
		TotalGoals:     len(goals),
		GoalsByStatus:  make(map[string]int, len(goalStatuses)),
		JournalEntries: len(journals),
		GoalProgress:   make([]entity.GoalProgress, 0, len(goals)),
		GeneratedAt:    now,
	}
	for _, status := range goalStatuses {
		s.GoalsByStatus[string(status)] = 0
	}

	type taskCount struct{ total, completed int }
	perGoal := make(map[uuid.UUID]taskCount)
	weekStart, weekEnd := calendar.WeekBounds(now)
	for _, t := range tasks {
		c := perGoal[t.GoalID]
		c.total++
		if t.IsCompleted() {
			c.completed++
		}
		perGoal[t.GoalID] = c

		if !t.DueDate.Before(weekStart) && !t.DueDate.After(weekEnd) {
			s.WeeklyTasks++
			if t.IsCompleted() {
				s.CompletedWeeklyTasks++
			}
		}
		if !t.IsCompleted() && t.DueDate.Before(now) {
			s.OverdueTasks++
		}
	}
	s.TaskCompletionRate = percentOf(s.CompletedWeeklyTasks, s.WeeklyTasks)

	for _, g := range goals {
		s.GoalsByStatus[string(g.Status)]++
		if g.Status == entity.GoalCompleted {
			s.CompletedGoals++
		}
		c := perGoal[g.ID]
		s.GoalProgress = append(s.GoalProgress, entity.GoalProgress{
			GoalID:             g.ID,
			Title:              g.Title,
			Status:             string(g.Status),
			ProgressPercentage: g.Progress(),
			TasksTotal:         c.total,
			TasksCompleted:     c.completed,
		})
	}
	s.CompletionRate = percentOf(s.CompletedGoals, s.TotalGoals)

	week, year := calendar.WeekOf(now)
	for _, j := range journals {
		if j.WeekNumber == week && j.YearNumber == year {
			s.JournalsThisWeek++
		}
	}
	return s
}

func percentOf(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
