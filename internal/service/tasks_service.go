package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/goaltrackr/internal/error_values"
	"github.com/limbo/goaltrackr/internal/repository"
	"github.com/limbo/goaltrackr/pkg/calendar"
	"github.com/limbo/goaltrackr/pkg/entity"
)

const (
	taskFilterCompleted = "completed"
	taskFilterPending   = "pending"
)

type TasksService struct {
	tasks repository.TasksRepositoryI
	goals repository.GoalsRepositoryI
	opts  options
}

func NewTasksService(tasks repository.TasksRepositoryI, goals repository.GoalsRepositoryI, opts ...Option) *TasksService {
	if tasks == nil || goals == nil {
		log.Fatal("on tasks service provided nil repos")
	}
	return &TasksService{
		tasks: tasks,
		goals: goals,
		opts:  newOptions(opts),
	}
}

func (ts *TasksService) List(ctx context.Context, uid uuid.UUID, query TaskListQuery) ([]*entity.Task, error) {
	if err := validateStruct(query); err != nil {
		return nil, err
	}
	filter := repository.TaskFilter{
		Priority: string(query.Priority),
	}
	if query.GoalID != "" {
		goalID, err := uuid.Parse(query.GoalID)
		if err != nil {
			// nobody owns a goal with such id
			return []*entity.Task{}, nil
		}
		filter.GoalID = goalID
	}
	switch status := strings.TrimSpace(query.Status); strings.ToLower(status) {
	case "":
	case taskFilterCompleted:
		completed := true
		filter.Completed = &completed
	case taskFilterPending:
		completed := false
		filter.Completed = &completed
	default:
		if !entity.TaskStatus(status).Valid() {
			return nil, validationError("status: unknown task status %q", status)
		}
		filter.Status = status
	}
	tasks, err := ts.tasks.List(ctx, uid, filter)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

func (ts *TasksService) Get(ctx context.Context, uid, id uuid.UUID) (*entity.Task, error) {
	task, err := ts.tasks.GetByID(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	return assertOwned(task, uid, errorvalues.ErrTaskNotFound)
}

func (ts *TasksService) Create(ctx context.Context, uid uuid.UUID, req *CreateTaskRequest) (*entity.Task, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	goalID, err := ts.ownedGoal(ctx, uid, req.GoalID)
	if err != nil {
		return nil, err
	}
	now := ts.opts.now()
	due := req.DueDate.Time
	week, year := calendar.WeekOf(due)
	if req.WeekNumber != nil {
		week = *req.WeekNumber
	}
	if req.YearNumber != nil {
		year = *req.YearNumber
	}
	task := &entity.Task{
		ID:                   uuid.New(),
		UserID:               uid,
		GoalID:               goalID,
		Title:                req.Title,
		Description:          strings.TrimSpace(req.Description),
		Priority:             cmp.Or(req.Priority, entity.PriorityMedium),
		Status:               entity.TaskNotStarted,
		DueDate:              due,
		WeekNumber:           week,
		YearNumber:           year,
		Recurring:            req.Recurring,
		RecurrencePattern:    cmp.Or(req.RecurrencePattern, entity.RecurrenceNone),
		EstimatedTimeMinutes: req.EstimatedTime,
		ActualTimeMinutes:    req.ActualTime,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	setTaskStatus(task, nextTaskStatus(task.Status, &req.Status, req.Completed), now)
	if err = ts.tasks.Create(ctx, task); err != nil {
		if errors.Is(err, errorvalues.ErrGoalNotFound) {
			return nil, validationError("goalId: goal %s does not exist", goalID)
		}
		return nil, fmt.Errorf("creating task: %w", err)
	}
	ts.opts.invalidateSummary(ctx, uid)
	return task, nil
}

func (ts *TasksService) Update(ctx context.Context, uid, id uuid.UUID, req *UpdateTaskRequest) (*entity.Task, error) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	task, err := ts.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if req.GoalID != nil {
		if task.GoalID, err = ts.ownedGoal(ctx, uid, *req.GoalID); err != nil {
			return nil, err
		}
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil && !req.DueDate.Time.Equal(task.DueDate) {
		task.DueDate = req.DueDate.Time
		task.WeekNumber, task.YearNumber = calendar.WeekOf(task.DueDate)
	}
	if req.Recurring != nil {
		task.Recurring = *req.Recurring
	}
	if req.RecurrencePattern != nil {
		task.RecurrencePattern = *req.RecurrencePattern
	}
	if req.EstimatedTime != nil {
		task.EstimatedTimeMinutes = *req.EstimatedTime
	}
	if req.ActualTime != nil {
		task.ActualTimeMinutes = *req.ActualTime
	}
	now := ts.opts.now()
	setTaskStatus(task, nextTaskStatus(task.Status, req.Status, req.Completed), now)
	task.UpdatedAt = now

	if err = ts.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, errorvalues.ErrGoalNotFound) {
			return nil, validationError("goalId: goal %s does not exist", task.GoalID)
		}
		return nil, fmt.Errorf("updating task: %w", err)
	}
	ts.opts.invalidateSummary(ctx, uid)
	return task, nil
}

func (ts *TasksService) Delete(ctx context.Context, uid, id uuid.UUID) error {
	if _, err := ts.Get(ctx, uid, id); err != nil {
		return err
	}
	if err := ts.tasks.Delete(ctx, uid, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	ts.opts.invalidateSummary(ctx, uid)
	return nil
}

func (ts *TasksService) Complete(ctx context.Context, uid, id uuid.UUID, completed bool) (*entity.Task, error) {
	task, err := ts.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if task.IsCompleted() == completed {
		return task, nil
	}
	now := ts.opts.now()
	setTaskStatus(task, nextTaskStatus(task.Status, nil, &completed), now)
	task.UpdatedAt = now
	if err = ts.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("completing task: %w", err)
	}
	ts.opts.invalidateSummary(ctx, uid)
	return task, nil
}

// ownedGoal resolves a goal reference from a request. Anything but a goal of
// uid is a validation failure of the referencing task.
func (ts *TasksService) ownedGoal(ctx context.Context, uid uuid.UUID, raw string) (uuid.UUID, error) {
	goalID, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, validationError("goalId: goal %q does not exist", raw)
	}
	goal, err := ts.goals.GetByID(ctx, uid, goalID)
	if err == nil {
		_, err = assertOwned(goal, uid, errorvalues.ErrGoalNotFound)
	}
	if err != nil {
		if errors.Is(err, errorvalues.ErrGoalNotFound) {
			return uuid.Nil, validationError("goalId: goal %q does not exist", raw)
		}
		return uuid.Nil, fmt.Errorf("resolving goal of task: %w", err)
	}
	return goalID, nil
}

// nextTaskStatus picks the status a write moves the task to. An explicit
// status wins; the completed alias only toggles in and out of Completed.
func nextTaskStatus(current entity.TaskStatus, status *entity.TaskStatus, completed *bool) entity.TaskStatus {
	switch {
	case status != nil && *status != "":
		return *status
	case completed == nil:
		return current
	case *completed:
		return entity.TaskCompleted
	case current == entity.TaskCompleted:
		return entity.TaskNotStarted
	}
	return current
}

// setTaskStatus keeps completedAt set exactly while the task is Completed.
func setTaskStatus(task *entity.Task, next entity.TaskStatus, now time.Time) {
	switch {
	case next != entity.TaskCompleted:
		task.CompletedAt = nil
	case task.Status != entity.TaskCompleted || task.CompletedAt == nil:
		task.CompletedAt = &now
	}
	task.Status = next
}
