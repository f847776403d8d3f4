package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/goaltrackr/internal/error_values"
	"github.com/limbo/goaltrackr/pkg/entity"
)

const taskColumns = `id, user_id, goal_id, title, description, priority, status, due_date, completed_at,
	week_number, year_number, recurring, recurrence_pattern, estimated_time_minutes, actual_time_minutes,
	created_at, updated_at`

type TasksRepository struct {
	conn PgConnection
}

func NewTasksRepo(conn PgConnection) *TasksRepository {
	if conn == nil {
		log.Fatal("on tasks repository provided nil connection")
	}
	return &TasksRepository{
		conn: conn,
	}
}

func scanTask(row scanner) (*entity.Task, error) {
	var (
		t                           entity.Task
		priority, status, recurring string
	)
	err := row.Scan(&t.ID, &t.UserID, &t.GoalID, &t.Title, &t.Description, &priority, &status,
		&t.DueDate, &t.CompletedAt, &t.WeekNumber, &t.YearNumber, &t.Recurring, &recurring,
		&t.EstimatedTimeMinutes, &t.ActualTimeMinutes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Priority = entity.Priority(priority)
	t.Status = entity.TaskStatus(status)
	t.RecurrencePattern = entity.RecurrencePattern(recurring)
	return &t, nil
}

func (tr *TasksRepository) Create(ctx context.Context, task *entity.Task) error {
	_, err := tr.conn.Exec(ctx, `INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`,
		task.ID, task.UserID, task.GoalID, task.Title, task.Description,
		string(task.Priority), string(task.Status), task.DueDate, task.CompletedAt,
		task.WeekNumber, task.YearNumber, task.Recurring, string(task.RecurrencePattern),
		task.EstimatedTimeMinutes, task.ActualTimeMinutes, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return errorvalues.ErrGoalNotFound
		}
		return storeError("creating task", err)
	}
	return nil
}

func (tr *TasksRepository) GetByID(ctx context.Context, uid, id uuid.UUID) (*entity.Task, error) {
	row := tr.conn.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2;`, id, uid)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTaskNotFound
		}
		return nil, storeError("getting task by id", err)
	}
	return task, nil
}

func (tr *TasksRepository) List(ctx context.Context, uid uuid.UUID, filter TaskFilter) ([]*entity.Task, error) {
	qb := newQueryBuilder(`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1`, uid)
	if filter.GoalID != uuid.Nil {
		qb.where("goal_id = ?", filter.GoalID)
	}
	if filter.Priority != "" {
		qb.where("priority = ?", filter.Priority)
	}
	if filter.Status != "" {
		qb.where("status = ?", filter.Status)
	}
	if filter.Completed != nil {
		if *filter.Completed {
			qb.where("status = ?", string(entity.TaskCompleted))
		} else {
			qb.where("status <> ?", string(entity.TaskCompleted))
		}
	}
	query, args := qb.build("due_date ASC, created_at DESC")

	rows, err := tr.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError("listing tasks", err)
	}
	defer rows.Close()
	tasks := make([]*entity.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, storeError("unmarshalling task", err)
		}
		tasks = append(tasks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, storeError("iterating tasks", err)
	}
	return tasks, nil
}

func (tr *TasksRepository) Update(ctx context.Context, task *entity.Task) error {
	ct, err := tr.conn.Exec(ctx, `UPDATE tasks SET goal_id = $1, title = $2, description = $3, priority = $4,
		status = $5, due_date = $6, completed_at = $7, week_number = $8, year_number = $9, recurring = $10,
		recurrence_pattern = $11, estimated_time_minutes = $12, actual_time_minutes = $13, updated_at = $14
		WHERE id = $15 AND user_id = $16;`,
		task.GoalID, task.Title, task.Description, string(task.Priority),
		string(task.Status), task.DueDate, task.CompletedAt, task.WeekNumber, task.YearNumber, task.Recurring,
		string(task.RecurrencePattern), task.EstimatedTimeMinutes, task.ActualTimeMinutes, task.UpdatedAt,
		task.ID, task.UserID,
	)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return errorvalues.ErrGoalNotFound
		}
		return storeError("updating task", err)
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTaskNotFound
	}
	return nil
}

func (tr *TasksRepository) Delete(ctx context.Context, uid, id uuid.UUID) error {
	ct, err := tr.conn.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2;`, id, uid)
	if err != nil {
		return storeError("deleting task", err)
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTaskNotFound
	}
	return nil
}

func (tr *TasksRepository) DeleteByGoal(ctx context.Context, uid, goalID uuid.UUID) (int64, error) {
	ct, err := tr.conn.Exec(ctx, `DELETE FROM tasks WHERE goal_id = $1 AND user_id = $2;`, goalID, uid)
	if err != nil {
		return 0, storeError("deleting tasks of goal", err)
	}
	return ct.RowsAffected(), nil
}
