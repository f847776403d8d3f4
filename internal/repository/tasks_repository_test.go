package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/goaltrackr/internal/error_values"
	"github.com/limbo/goaltrackr/internal/repository"
	"github.com/limbo/goaltrackr/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskRowColumns = []string{"id", "user_id", "goal_id", "title", "description", "priority", "status",
	"due_date", "completed_at", "week_number", "year_number", "recurring", "recurrence_pattern",
	"estimated_time_minutes", "actual_time_minutes", "created_at", "updated_at"}

func testTask(uid, goalID uuid.UUID) entity.Task {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	done := now.Add(2 * time.Hour)
	return entity.Task{
		ID:                   uuid.New(),
		UserID:               uid,
		GoalID:               goalID,
		Title:                "Read chapter 1",
		Priority:             entity.PriorityHigh,
		Status:               entity.TaskCompleted,
		DueDate:              now,
		CompletedAt:          &done,
		WeekNumber:           10,
		YearNumber:           2026,
		RecurrencePattern:    entity.RecurrenceNone,
		EstimatedTimeMinutes: 30,
		ActualTimeMinutes:    45,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func taskRows(tasks ...entity.Task) *pgxmock.Rows {
	rows := pgxmock.NewRows(taskRowColumns)
	for _, t := range tasks {
		rows.AddRow(t.ID, t.UserID, t.GoalID, t.Title, t.Description, string(t.Priority), string(t.Status),
			t.DueDate, t.CompletedAt, t.WeekNumber, t.YearNumber, t.Recurring, string(t.RecurrencePattern),
			t.EstimatedTimeMinutes, t.ActualTimeMinutes, t.CreatedAt, t.UpdatedAt)
	}
	return rows
}

func TestCreateTask(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := repository.NewTasksRepo(conn)
	task := testTask(uuid.New(), uuid.New())
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO tasks (`)
	t.Run("created", func(t *testing.T) {
		args := anyArgs(17)
		args[0] = task.ID
		args[2] = task.GoalID
		args[6] = "Completed"
		conn.ExpectExec(query).WithArgs(args...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
		assert.NoError(t, repo.Create(ctx, &task))
	})
	t.Run("missing goal", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(anyArgs(17)...).WillReturnError(&pgconn.PgError{Code: "23503"})
		assert.ErrorIs(t, repo.Create(ctx, &task), errorvalues.ErrGoalNotFound)
	})
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestGetTaskByID(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := repository.NewTasksRepo(conn)
	uid := uuid.New()
	task := testTask(uid, uuid.New())
	ctx := context.Background()
	query := regexp.QuoteMeta(`FROM tasks WHERE id = $1 AND user_id = $2;`)
	t.Run("found", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(task.ID, uid).WillReturnRows(taskRows(task))
		res, err := repo.GetByID(ctx, uid, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task, *res)
		assert.True(t, res.IsCompleted())
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(task.ID, uid).WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetByID(ctx, uid, task.ID)
		assert.ErrorIs(t, err, errorvalues.ErrTaskNotFound)
	})
}

func TestListTasks(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := repository.NewTasksRepo(conn)
	uid, goalID := uuid.New(), uuid.New()
	ctx := context.Background()
	t.Run("no filters", func(t *testing.T) {
		conn.ExpectQuery(regexp.QuoteMeta(`FROM tasks WHERE user_id = $1 ORDER BY due_date ASC, created_at DESC;`)).
			WithArgs(uid).
			WillReturnRows(taskRows(testTask(uid, goalID), testTask(uid, goalID)))
		res, err := repo.List(ctx, uid, repository.TaskFilter{})
		require.NoError(t, err)
		assert.Len(t, res, 2)
	})
	t.Run("goal and open tasks", func(t *testing.T) {
		open := false
		conn.ExpectQuery(regexp.QuoteMeta(`WHERE user_id = $1 AND goal_id = $2 AND status <> $3 ORDER BY`)).
			WithArgs(uid, goalID, "Completed").
			WillReturnRows(taskRows())
		res, err := repo.List(ctx, uid, repository.TaskFilter{GoalID: goalID, Completed: &open})
		require.NoError(t, err)
		assert.Empty(t, res)
	})
	t.Run("priority and status", func(t *testing.T) {
		conn.ExpectQuery(regexp.QuoteMeta(`WHERE user_id = $1 AND priority = $2 AND status = $3 ORDER BY`)).
			WithArgs(uid, "Low", "In Progress").
			WillReturnRows(taskRows())
		_, err := repo.List(ctx, uid, repository.TaskFilter{Priority: "Low", Status: "In Progress"})
		assert.NoError(t, err)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(regexp.QuoteMeta(`FROM tasks WHERE user_id = $1`)).
			WithArgs(uid).
			WillReturnError(errors.New("db error"))
		_, err := repo.List(ctx, uid, repository.TaskFilter{})
		assert.ErrorIs(t, err, errorvalues.ErrStoreFailure)
	})
}

func TestUpdateTask(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := repository.NewTasksRepo(conn)
	task := testTask(uuid.New(), uuid.New())
	ctx := context.Background()
	query := regexp.QuoteMeta(`WHERE id = $15 AND user_id = $16;`)
	t.Run("updated", func(t *testing.T) {
		args := anyArgs(16)
		args[14] = task.ID
		args[15] = task.UserID
		conn.ExpectExec(query).WithArgs(args...).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		assert.NoError(t, repo.Update(ctx, &task))
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(anyArgs(16)...).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		assert.ErrorIs(t, repo.Update(ctx, &task), errorvalues.ErrTaskNotFound)
	})
	t.Run("moved to missing goal", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(anyArgs(16)...).WillReturnError(&pgconn.PgError{Code: "23503"})
		assert.ErrorIs(t, repo.Update(ctx, &task), errorvalues.ErrGoalNotFound)
	})
}

func TestDeleteTasks(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := repository.NewTasksRepo(conn)
	uid, id := uuid.New(), uuid.New()
	ctx := context.Background()
	t.Run("single", func(t *testing.T) {
		conn.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE id = $1 AND user_id = $2;`)).
			WithArgs(id, uid).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		assert.NoError(t, repo.Delete(ctx, uid, id))
	})
	t.Run("single not found", func(t *testing.T) {
		conn.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE id = $1 AND user_id = $2;`)).
			WithArgs(id, uid).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		assert.ErrorIs(t, repo.Delete(ctx, uid, id), errorvalues.ErrTaskNotFound)
	})
	t.Run("by goal", func(t *testing.T) {
		conn.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE goal_id = $1 AND user_id = $2;`)).
			WithArgs(id, uid).
			WillReturnResult(pgxmock.NewResult("DELETE", 3))
		n, err := repo.DeleteByGoal(ctx, uid, id)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
	t.Run("by goal without tasks", func(t *testing.T) {
		conn.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE goal_id = $1 AND user_id = $2;`)).
			WithArgs(id, uid).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		n, err := repo.DeleteByGoal(ctx, uid, id)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
	assert.NoError(t, conn.ExpectationsWereMet())
}
