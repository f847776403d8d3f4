package service

import (
	"cmp"
	"context"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/goaltrackr/internal/error_values"
	"github.com/limbo/goaltrackr/internal/repository"
	"github.com/limbo/goaltrackr/pkg/entity"
)

const (
	defaultGoalCategory = "Personal"
	defaultGoalColor    = "#1976d2"
	defaultTargetValue  = 100
)

type GoalsService struct {
	goals repository.GoalsRepositoryI
	tasks repository.TasksRepositoryI
	opts  options
}

func NewGoalsService(goals repository.GoalsRepositoryI, tasks repository.TasksRepositoryI, opts ...Option) *GoalsService {
	if goals == nil || tasks == nil {
		log.Fatal("on goals service provided nil repos")
	}
	return &GoalsService{
		goals: goals,
		tasks: tasks,
		opts:  newOptions(opts),
	}
}

func (gs *GoalsService) List(ctx context.Context, uid uuid.UUID, query GoalListQuery) ([]*entity.Goal, error) {
	query.Search = strings.TrimSpace(query.Search)
	if err := validateStruct(query); err != nil {
		return nil, err
	}
	goals, err := gs.goals.List(ctx, uid, repository.GoalFilter{
		Status:   string(query.Status),
		Priority: string(query.Priority),
		Category: strings.TrimSpace(query.Category),
		Search:   query.Search,
		Sort:     query.Sort,
	})
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	if query.Sort == repository.GoalSortProgress {
		slices.SortStableFunc(goals, func(a, b *entity.Goal) int {
			return cmp.Compare(b.Progress(), a.Progress())
		})
	}
	return goals, nil
}

func (gs *GoalsService) Get(ctx context.Context, uid, id uuid.UUID) (*entity.Goal, error) {
	goal, err := gs.goals.GetByID(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	return assertOwned(goal, uid, errorvalues.ErrGoalNotFound)
}

func (gs *GoalsService) Create(ctx context.Context, uid uuid.UUID, req *CreateGoalRequest) (*entity.Goal, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	now := gs.opts.now()
	goal := &entity.Goal{
		ID:             uuid.New(),
		UserID:         uid,
		Title:          req.Title,
		Description:    strings.TrimSpace(req.Description),
		Categories:     normalizeCategories(req.Categories),
		Status:         cmp.Or(req.Status, entity.GoalNotStarted),
		Priority:       cmp.Or(req.Priority, entity.PriorityMedium),
		ProgressMetric: cmp.Or(req.ProgressMetric, entity.MetricPercentage),
		TargetValue:    defaultTargetValue,
		Color:          cmp.Or(req.Color, defaultGoalColor),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.TargetValue != nil {
		goal.TargetValue = *req.TargetValue
	}
	if req.CurrentValue != nil {
		goal.CurrentValue = *req.CurrentValue
	}
	if req.TargetDate != nil {
		deadline := req.TargetDate.Time
		goal.TargetDate = &deadline
	}
	if err := checkGoalValues(goal); err != nil {
		return nil, err
	}
	if goal.Status == entity.GoalCompleted {
		goal.CompletedDate = &now
	}
	if err := gs.goals.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("creating goal: %w", err)
	}
	gs.opts.invalidateSummary(ctx, uid)
	return goal, nil
}

func (gs *GoalsService) Update(ctx context.Context, uid, id uuid.UUID, req *UpdateGoalRequest) (*entity.Goal, error) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.ClearTargetDate && req.TargetDate != nil {
		return nil, validationError("clearTargetDate: set together with targetDate")
	}
	goal, err := gs.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	wasCompleted := goal.Status == entity.GoalCompleted
	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = strings.TrimSpace(*req.Description)
	}
	if req.Categories != nil {
		goal.Categories = normalizeCategories(req.Categories)
	}
	if req.Status != nil {
		goal.Status = *req.Status
	}
	if req.Priority != nil {
		goal.Priority = *req.Priority
	}
	if req.ProgressMetric != nil {
		goal.ProgressMetric = *req.ProgressMetric
	}
	if req.TargetValue != nil {
		goal.TargetValue = *req.TargetValue
	}
	if req.CurrentValue != nil {
		goal.CurrentValue = *req.CurrentValue
	}
	switch {
	case req.ClearTargetDate:
		goal.TargetDate = nil
	case req.TargetDate != nil:
		deadline := req.TargetDate.Time
		goal.TargetDate = &deadline
	}
	if req.Color != nil {
		goal.Color = *req.Color
	}
	if req.Archived != nil {
		goal.Archived = *req.Archived
	}
	if err = checkGoalValues(goal); err != nil {
		return nil, err
	}

	now := gs.opts.now()
	switch {
	case goal.Status != entity.GoalCompleted:
		goal.CompletedDate = nil
	case req.CompletedDate != nil:
		done := req.CompletedDate.Time
		goal.CompletedDate = &done
	case !wasCompleted || goal.CompletedDate == nil:
		goal.CompletedDate = &now
	}
	goal.UpdatedAt = now

	if err = gs.goals.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("updating goal: %w", err)
	}
	gs.opts.invalidateSummary(ctx, uid)
	return goal, nil
}

// Delete removes the goal's tasks before the goal itself, so a failure half
// way leaves a goal without tasks rather than tasks without a goal.
func (gs *GoalsService) Delete(ctx context.Context, uid, id uuid.UUID) error {
	if _, err := gs.Get(ctx, uid, id); err != nil {
		return err
	}
	if _, err := gs.tasks.DeleteByGoal(ctx, uid, id); err != nil {
		return fmt.Errorf("deleting tasks of goal: %w", err)
	}
	if err := gs.goals.Delete(ctx, uid, id); err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	gs.opts.invalidateSummary(ctx, uid)
	return nil
}

func checkGoalValues(goal *entity.Goal) error {
	if goal.ProgressMetric == entity.MetricPercentage && goal.CurrentValue > 100 {
		return validationError("currentValue: percentage goals accept values from 0 to 100")
	}
	return nil
}

func normalizeCategories(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c != "" && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		out = append(out, defaultGoalCategory)
	}
	return out
}
