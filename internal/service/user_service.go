package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/goaltrackr/internal/error_values"
	"github.com/limbo/goaltrackr/internal/repository"
	"github.com/limbo/goaltrackr/pkg/entity"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past this many bytes
const maxPasswordBytes = 72

type UserService struct {
	repo repository.UsersRepositoryI
	opts options
}

func NewUserService(usersRepo repository.UsersRepositoryI, opts ...Option) *UserService {
	if usersRepo == nil {
		log.Fatal("on user service provided nil repo")
	}
	return &UserService{
		repo: usersRepo,
		opts: newOptions(opts),
	}
}

func (us *UserService) SignUp(ctx context.Context, req *RegisterRequest) (*entity.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if len(req.Password) > maxPasswordBytes {
		return nil, validationError("password: longer than %d bytes", maxPasswordBytes)
	}
	_, err := us.repo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, errorvalues.ErrUserExists
	case !errors.Is(err, errorvalues.ErrUserNotFound):
		return nil, fmt.Errorf("checking email: %w", err)
	}
	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	now := us.opts.now()
	user := &entity.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Timezone:     "UTC",
		NotificationSettings: entity.NotificationSettings{
			EmailNotifications: true,
			TaskReminders:      true,
			GoalUpdates:        true,
		},
		DisplaySettings: entity.DisplaySettings{
			ShowCompletedTasks: true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = us.repo.Create(ctx, user); err != nil {
		if errors.Is(err, errorvalues.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// Authenticate answers ErrWrongCredentials both for an unknown email and for
// a wrong password.
func (us *UserService) Authenticate(ctx context.Context, email, password string) (*entity.Identity, error) {
	email = normalizeEmail(email)
	user, err := us.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, fmt.Errorf("searching user: %w", err)
		}
		if !us.isDemoCredential(email, password) {
			return nil, errorvalues.ErrWrongCredentials
		}
		user, err = us.SignUp(ctx, &RegisterRequest{
			Name:     us.opts.demo.Name,
			Email:    us.opts.demo.Email,
			Password: us.opts.demo.Password,
		})
		if err != nil {
			if errors.Is(err, errorvalues.ErrValidation) {
				slog.Warn("demo account rejected by sign up rules", slog.String("error", err.Error()))
				return nil, errorvalues.ErrWrongCredentials
			}
			return nil, fmt.Errorf("creating demo user: %w", err)
		}
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errorvalues.ErrWrongCredentials
	}
	identity := user.Identity()
	return &identity, nil
}

func (us *UserService) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := us.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("searching user: %w", err)
	}
	return user, nil
}

func (us *UserService) UpdateSettings(ctx context.Context, id uuid.UUID, req *UpdateSettingsRequest) (*entity.User, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		req.Email = &email
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	user, err := us.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.NewPassword != nil {
		if len(*req.NewPassword) > maxPasswordBytes {
			return nil, validationError("newPassword: longer than %d bytes", maxPasswordBytes)
		}
		if req.CurrentPassword == nil ||
			bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*req.CurrentPassword)) != nil {
			return nil, validationError("currentPassword: does not match")
		}
		if user.PasswordHash, err = hashPassword(*req.NewPassword); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Image != nil {
		user.Image = *req.Image
	}
	if req.Timezone != nil {
		user.Timezone = *req.Timezone
	}
	if req.NotificationSettings != nil {
		user.NotificationSettings = *req.NotificationSettings
	}
	if req.DisplaySettings != nil {
		user.DisplaySettings = *req.DisplaySettings
	}
	user.UpdatedAt = us.opts.now()
	if err = us.repo.Update(ctx, user); err != nil {
		if errors.Is(err, errorvalues.ErrUserExists) || errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return user, nil
}

func (us *UserService) isDemoCredential(email, password string) bool {
	demo := us.opts.demo
	if demo == nil {
		return false
	}
	return normalizeEmail(demo.Email) == email &&
		subtle.ConstantTimeCompare([]byte(demo.Password), []byte(password)) == 1
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
