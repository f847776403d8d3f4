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

const goalColumns = `id, user_id, title, description, categories, status, priority, progress_metric,
	target_value, current_value, target_date, completed_date, color, archived, created_at, updated_at`

var goalOrders = map[string]string{
	GoalSortCreated:  "created_at DESC",
	GoalSortDeadline: "target_date ASC NULLS LAST, created_at DESC",
	GoalSortPriority: "CASE priority WHEN 'High' THEN 0 WHEN 'Medium' THEN 1 ELSE 2 END, created_at DESC",
	GoalSortTitle:    "lower(title) ASC, created_at DESC",
	// progress is derived, services reorder the result
	GoalSortProgress: "created_at DESC",
}

type GoalsRepository struct {
	conn PgConnection
}

func NewGoalsRepo(conn PgConnection) *GoalsRepository {
	if conn == nil {
		log.Fatal("on goals repository provided nil connection")
	}
	return &GoalsRepository{
		conn: conn,
	}
}

func scanGoal(row scanner) (*entity.Goal, error) {
	var (
		g                        entity.Goal
		status, priority, metric string
	)
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.Categories, &status, &priority, &metric,
		&g.TargetValue, &g.CurrentValue, &g.TargetDate, &g.CompletedDate, &g.Color, &g.Archived,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	g.Status = entity.GoalStatus(status)
	g.Priority = entity.Priority(priority)
	g.ProgressMetric = entity.ProgressMetric(metric)
	return &g, nil
}

func (gr *GoalsRepository) Create(ctx context.Context, goal *entity.Goal) error {
	_, err := gr.conn.Exec(ctx, `INSERT INTO goals (`+goalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`,
		goal.ID, goal.UserID, goal.Title, goal.Description, goal.Categories,
		string(goal.Status), string(goal.Priority), string(goal.ProgressMetric),
		goal.TargetValue, goal.CurrentValue, goal.TargetDate, goal.CompletedDate,
		goal.Color, goal.Archived, goal.CreatedAt, goal.UpdatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return errorvalues.ErrUserNotFound
		}
		return storeError("creating goal", err)
	}
	return nil
}

func (gr *GoalsRepository) GetByID(ctx context.Context, uid, id uuid.UUID) (*entity.Goal, error) {
	row := gr.conn.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2;`, id, uid)
	goal, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrGoalNotFound
		}
		return nil, storeError("getting goal by id", err)
	}
	return goal, nil
}

func (gr *GoalsRepository) List(ctx context.Context, uid uuid.UUID, filter GoalFilter) ([]*entity.Goal, error) {
	qb := newQueryBuilder(`SELECT `+goalColumns+` FROM goals WHERE user_id = $1`, uid)
	if filter.Status != "" {
		qb.where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		qb.where("priority = ?", filter.Priority)
	}
	if filter.Category != "" {
		qb.where("? = ANY(categories)", filter.Category)
	}
	if filter.Search != "" {
		qb.where("(title ILIKE ? OR description ILIKE ?)", containsPattern(filter.Search))
	}
	order, ok := goalOrders[filter.Sort]
	if !ok {
		order = goalOrders[GoalSortCreated]
	}
	query, args := qb.build(order)

	rows, err := gr.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError("listing goals", err)
	}
	defer rows.Close()
	goals := make([]*entity.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, storeError("unmarshalling goal", err)
		}
		goals = append(goals, g)
	}
	if err = rows.Err(); err != nil {
		return nil, storeError("iterating goals", err)
	}
	return goals, nil
}

func (gr *GoalsRepository) Update(ctx context.Context, goal *entity.Goal) error {
	ct, err := gr.conn.Exec(ctx, `UPDATE goals SET title = $1, description = $2, categories = $3, status = $4,
		priority = $5, progress_metric = $6, target_value = $7, current_value = $8, target_date = $9,
		completed_date = $10, color = $11, archived = $12, updated_at = $13
		WHERE id = $14 AND user_id = $15;`,
		goal.Title, goal.Description, goal.Categories, string(goal.Status),
		string(goal.Priority), string(goal.ProgressMetric), goal.TargetValue, goal.CurrentValue, goal.TargetDate,
		goal.CompletedDate, goal.Color, goal.Archived, goal.UpdatedAt,
		goal.ID, goal.UserID,
	)
	if err != nil {
		return storeError("updating goal", err)
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrGoalNotFound
	}
	return nil
}

func (gr *GoalsRepository) Delete(ctx context.Context, uid, id uuid.UUID) error {
	ct, err := gr.conn.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2;`, id, uid)
	if err != nil {
		return storeError("deleting goal", err)
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrGoalNotFound
	}
	return nil
}
