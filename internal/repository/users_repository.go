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

const userColumns = `id, name, email, password_hash, image, timezone,
	notify_email, notify_push, notify_task_reminders, notify_goal_updates,
	display_dark_mode, display_compact_view, display_show_completed,
	created_at, updated_at`

type UsersRepository struct {
	conn PgConnection
}

func NewUsersRepo(conn PgConnection) *UsersRepository {
	if conn == nil {
		log.Fatal("on users repository provided nil connection")
	}
	return &UsersRepository{
		conn: conn,
	}
}

func scanUser(row scanner) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Image, &u.Timezone,
		&u.NotificationSettings.EmailNotifications,
		&u.NotificationSettings.PushNotifications,
		&u.NotificationSettings.TaskReminders,
		&u.NotificationSettings.GoalUpdates,
		&u.DisplaySettings.DarkMode,
		&u.DisplaySettings.CompactView,
		&u.DisplaySettings.ShowCompletedTasks,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *UsersRepository) Create(ctx context.Context, user *entity.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	_, err := ur.conn.Exec(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Image, user.Timezone,
		user.NotificationSettings.EmailNotifications,
		user.NotificationSettings.PushNotifications,
		user.NotificationSettings.TaskReminders,
		user.NotificationSettings.GoalUpdates,
		user.DisplaySettings.DarkMode,
		user.DisplaySettings.CompactView,
		user.DisplaySettings.ShowCompletedTasks,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return errorvalues.ErrUserExists
		}
		return storeError("creating user", err)
	}
	return nil
}

func (ur *UsersRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := ur.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1;`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, storeError("searching user by email", err)
	}
	return user, nil
}

func (ur *UsersRepository) FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error) {
	row := ur.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1;`, uid)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, storeError("searching user by id", err)
	}
	return user, nil
}

func (ur *UsersRepository) Update(ctx context.Context, user *entity.User) error {
	ct, err := ur.conn.Exec(ctx, `UPDATE users SET name = $1, email = $2, password_hash = $3, image = $4, timezone = $5,
		notify_email = $6, notify_push = $7, notify_task_reminders = $8, notify_goal_updates = $9,
		display_dark_mode = $10, display_compact_view = $11, display_show_completed = $12,
		updated_at = $13 WHERE id = $14;`,
		user.Name, user.Email, user.PasswordHash, user.Image, user.Timezone,
		user.NotificationSettings.EmailNotifications,
		user.NotificationSettings.PushNotifications,
		user.NotificationSettings.TaskReminders,
		user.NotificationSettings.GoalUpdates,
		user.DisplaySettings.DarkMode,
		user.DisplaySettings.CompactView,
		user.DisplaySettings.ShowCompletedTasks,
		user.UpdatedAt, user.ID,
	)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return errorvalues.ErrUserExists
		}
		return storeError("updating user", err)
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}
