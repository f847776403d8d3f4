package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/goaltrackr/internal/error_values"
	"github.com/limbo/goaltrackr/internal/repository"
	repomocks "github.com/limbo/goaltrackr/internal/repository/mocks"
	"github.com/limbo/goaltrackr/internal/service"
	servicemocks "github.com/limbo/goaltrackr/internal/service/mocks"
	"github.com/limbo/goaltrackr/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	userID  = uuid.New()
	testNow = time.Date(2026, 4, 15, 9, 30, 0, 0, time.UTC)
)

func clock() time.Time { return testNow }

func ptr[T any](v T) *T { return &v }

func storedGoal(status entity.GoalStatus) *entity.Goal {
	created := testNow.Add(-48 * time.Hour)
	return &entity.Goal{
		ID:             uuid.New(),
		UserID:         userID,
		Title:          "Learn X",
		Categories:     []string{"Education"},
		Status:         status,
		Priority:       entity.PriorityMedium,
		ProgressMetric: entity.MetricPercentage,
		TargetValue:    100,
		Color:          "#1976d2",
		CreatedAt:      created,
		UpdatedAt:      created,
	}
}

func TestCreateGoal(t *testing.T) {
	ctrl := gomock.NewController(t)
	goals := repomocks.NewMockGoalsRepositoryI(ctrl)
	tasks := repomocks.NewMockTasksRepositoryI(ctrl)
	cache := servicemocks.NewMockSummaryCache(ctrl)
	gs := service.NewGoalsService(goals, tasks, service.WithClock(clock), service.WithSummaryCache(cache))
	ctx := context.Background()

	t.Run("defaults applied", func(t *testing.T) {
		goals.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, g *entity.Goal) error {
			assert.NotEqual(t, uuid.Nil, g.ID)
			return nil
		})
		cache.EXPECT().Invalidate(gomock.Any(), userID)
		goal, err := gs.Create(ctx, userID, &service.CreateGoalRequest{Title: "  Learn X  "})
		require.NoError(t, err)
		assert.Equal(t, "Learn X", goal.Title)
		assert.Equal(t, userID, goal.UserID)
		assert.Equal(t, entity.GoalNotStarted, goal.Status)
		assert.Equal(t, entity.PriorityMedium, goal.Priority)
		assert.Equal(t, entity.MetricPercentage, goal.ProgressMetric)
		assert.Equal(t, []string{"Personal"}, goal.Categories)
		assert.Equal(t, 100.0, goal.TargetValue)
		assert.Equal(t, "#1976d2", goal.Color)
		assert.Equal(t, testNow, goal.CreatedAt)
		assert.Equal(t, testNow, goal.UpdatedAt)
		assert.Nil(t, goal.CompletedDate)
		assert.Nil(t, goal.TargetDate)
	})
	t.Run("created completed", func(t *testing.T) {
		goals.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		cache.EXPECT().Invalidate(gomock.Any(), userID)
		goal, err := gs.Create(ctx, userID, &service.CreateGoalRequest{
			Title:      "Done already",
			Status:     entity.GoalCompleted,
			Categories: []string{" Work ", "Work", ""},
		})
		require.NoError(t, err)
		require.NotNil(t, goal.CompletedDate)
		assert.Equal(t, testNow, *goal.CompletedDate)
		assert.Equal(t, []string{"Work"}, goal.Categories)
	})

	rejects := []struct {
		Desc string
		Req  service.CreateGoalRequest
	}{
		{Desc: "missing title", Req: service.CreateGoalRequest{Title: "   "}},
		{Desc: "title too long", Req: service.CreateGoalRequest{Title: strings.Repeat("a", 101)}},
		{Desc: "description too long", Req: service.CreateGoalRequest{Title: "ok", Description: strings.Repeat("d", 501)}},
		{Desc: "unknown status", Req: service.CreateGoalRequest{Title: "ok", Status: "Done"}},
		{Desc: "unknown priority", Req: service.CreateGoalRequest{Title: "ok", Priority: "Urgent"}},
		{Desc: "unknown metric", Req: service.CreateGoalRequest{Title: "ok", ProgressMetric: "Ratio"}},
		{Desc: "negative target", Req: service.CreateGoalRequest{Title: "ok", TargetValue: ptr(-1.0)}},
		{Desc: "percentage above 100", Req: service.CreateGoalRequest{Title: "ok", CurrentValue: ptr(120.0)}},
		{Desc: "bad color", Req: service.CreateGoalRequest{Title: "ok", Color: "blue"}},
	}
	for _, tc := range rejects {
		t.Run(tc.Desc, func(t *testing.T) {
			_, err := gs.Create(ctx, userID, &tc.Req)
			assert.ErrorIs(t, err, errorvalues.ErrValidation)
		})
	}
	t.Run("title of exactly 100 runes", func(t *testing.T) {
		goals.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		cache.EXPECT().Invalidate(gomock.Any(), userID)
		_, err := gs.Create(ctx, userID, &service.CreateGoalRequest{Title: strings.Repeat("я", 100)})
		assert.NoError(t, err)
	})
	t.Run("store failure", func(t *testing.T) {
		goals.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errorvalues.ErrStoreFailure)
		_, err := gs.Create(ctx, userID, &service.CreateGoalRequest{Title: "ok"})
		assert.ErrorIs(t, err, errorvalues.ErrStoreFailure)
	})
}

func TestUpdateGoal(t *testing.T) {
	ctrl := gomock.NewController(t)
	goals := repomocks.NewMockGoalsRepositoryI(ctrl)
	tasks := repomocks.NewMockTasksRepositoryI(ctrl)
	gs := service.NewGoalsService(goals, tasks, service.WithClock(clock))
	ctx := context.Background()

	t.Run("transition into completed stamps completedDate", func(t *testing.T) {
		stored := storedGoal(entity.GoalInProgress)
		goals.EXPECT().GetByID(gomock.Any(), userID, stored.ID).Return(stored, nil)
		goals.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		goal, err := gs.Update(ctx, userID, stored.ID, &service.UpdateGoalRequest{Status: ptr(entity.GoalCompleted)})
		require.NoError(t, err)
		require.NotNil(t, goal.CompletedDate)
		assert.Equal(t, testNow, *goal.CompletedDate)
		assert.Equal(t, testNow, goal.UpdatedAt)
		assert.Equal(t, testNow.Add(-48*time.Hour), goal.CreatedAt)
	})
	t.Run("explicit completedDate is kept", func(t *testing.T) {
		stored := storedGoal(entity.GoalInProgress)
		done := testNow.Add(-time.Hour)
		goals.EXPECT().GetByID(gomock.Any(), userID, stored.ID).Return(stored, nil)
		goals.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		goal, err := gs.Update(ctx, userID, stored.ID, &service.UpdateGoalRequest{
			Status:        ptr(entity.GoalCompleted),
			CompletedDate: date(done),
		})
		require.NoError(t, err)
		assert.Equal(t, done, *goal.CompletedDate)
	})
	t.Run("leaving completed clears completedDate", func(t *testing.T) {
		stored := storedGoal(entity.GoalCompleted)
		done := testNow.Add(-time.Hour)
		stored.CompletedDate = &done
		goals.EXPECT().GetByID(gomock.Any(), userID, stored.ID).Return(stored, nil)
		goals.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		goal, err := gs.Update(ctx, userID, stored.ID, &service.UpdateGoalRequest{Status: ptr(entity.GoalOnHold)})
		require.NoError(t, err)
		assert.Nil(t, goal.CompletedDate)
	})
	t.Run("staying completed keeps completedDate", func(t *testing.T) {
		stored := storedGoal(entity.GoalCompleted)
		done := testNow.Add(-time.Hour)
		stored.CompletedDate = &done
		goals.EXPECT().GetByID(gomock.Any(), userID, stored.ID).Return(stored, nil)
		goals.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		goal, err := gs.Update(ctx, userID, stored.ID, &service.UpdateGoalRequest{Title: ptr("Learn Y")})
		require.NoError(t, err)
		assert.Equal(t, done, *goal.CompletedDate)
		assert.Equal(t, "Learn Y", goal.Title)
	})
	t.Run("switching to count metric", func(t *testing.T) {
		stored := storedGoal(entity.GoalInProgress)
		goals.EXPECT().GetByID(gomock.Any(), userID, stored.ID).Return(stored, nil)
		goals.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		goal, err := gs.Update(ctx, userID, stored.ID, &service.UpdateGoalRequest{
			ProgressMetric: ptr(entity.MetricCount),
			TargetValue:    ptr(8.0),
			CurrentValue:   ptr(1.0),
		})
		require.NoError(t, err)
		assert.Equal(t, 13, goal.Progress())
	})
	t.Run("target date cleared", func(t *testing.T) {
		stored := storedGoal(entity.GoalInProgress)
		deadline := testNow.AddDate(0, 1, 0)
		stored.TargetDate = &deadline
		goals.EXPECT().GetByID(gomock.Any(), userID, stored.ID).Return(stored, nil)
		goals.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, g *entity.Goal) error {
				assert.Nil(t, g.TargetDate)
				return nil
			})
		goal, err := gs.Update(ctx, userID, stored.ID, &service.UpdateGoalRequest{ClearTargetDate: true})
		require.NoError(t, err)
		assert.Nil(t, goal.TargetDate)
	})
	t.Run("target date left alone without a value", func(t *testing.T) {
		stored := storedGoal(entity.GoalInProgress)
		deadline := testNow.AddDate(0, 1, 0)
		stored.TargetDate = &deadline
		goals.EXPECT().GetByID(gomock.Any(), userID, stored.ID).Return(stored, nil)
		goals.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		goal, err := gs.Update(ctx, userID, stored.ID, &service.UpdateGoalRequest{Title: ptr("Learn Y")})
		require.NoError(t, err)
		require.NotNil(t, goal.TargetDate)
		assert.Equal(t, deadline, *goal.TargetDate)
	})
	t.Run("clearing and setting target date at once", func(t *testing.T) {
		_, err := gs.Update(ctx, userID, uuid.New(), &service.UpdateGoalRequest{
			TargetDate:      date(testNow),
			ClearTargetDate: true,
		})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		goals.EXPECT().GetByID(gomock.Any(), userID, id).Return(nil, errorvalues.ErrGoalNotFound)
		_, err := gs.Update(ctx, userID, id, &service.UpdateGoalRequest{Title: ptr("x")})
		assert.ErrorIs(t, err, errorvalues.ErrGoalNotFound)
	})
	t.Run("validation happens before lookup", func(t *testing.T) {
		_, err := gs.Update(ctx, userID, uuid.New(), &service.UpdateGoalRequest{Title: ptr(strings.Repeat("a", 101))})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
		_, err = gs.Update(ctx, userID, uuid.New(), &service.UpdateGoalRequest{Title: ptr("  ")})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("foreign record from repository", func(t *testing.T) {
		stored := storedGoal(entity.GoalInProgress)
		stored.UserID = uuid.New()
		goals.EXPECT().GetByID(gomock.Any(), userID, stored.ID).Return(stored, nil)
		_, err := gs.Update(ctx, userID, stored.ID, &service.UpdateGoalRequest{Title: ptr("x")})
		assert.ErrorIs(t, err, errorvalues.ErrGoalNotFound)
	})
}

func TestListGoals(t *testing.T) {
	ctrl := gomock.NewController(t)
	goals := repomocks.NewMockGoalsRepositoryI(ctrl)
	tasks := repomocks.NewMockTasksRepositoryI(ctrl)
	gs := service.NewGoalsService(goals, tasks, service.WithClock(clock))
	ctx := context.Background()

	t.Run("filters passed to store", func(t *testing.T) {
		goals.EXPECT().List(gomock.Any(), userID, repository.GoalFilter{
			Status:   "In Progress",
			Priority: "High",
			Category: "Work",
			Search:   "learn",
			Sort:     repository.GoalSortDeadline,
		}).Return([]*entity.Goal{}, nil)
		res, err := gs.List(ctx, userID, service.GoalListQuery{
			Status:   entity.GoalInProgress,
			Priority: entity.PriorityHigh,
			Category: "Work",
			Search:   " learn ",
			Sort:     repository.GoalSortDeadline,
		})
		require.NoError(t, err)
		assert.Empty(t, res)
	})
	t.Run("progress sort", func(t *testing.T) {
		low, high, mid := storedGoal(entity.GoalInProgress), storedGoal(entity.GoalInProgress), storedGoal(entity.GoalCompleted)
		low.CurrentValue = 10
		high.CurrentValue = 90
		mid.ProgressMetric = entity.MetricCount
		mid.TargetValue = 4
		mid.CurrentValue = 2
		goals.EXPECT().List(gomock.Any(), userID, repository.GoalFilter{Sort: repository.GoalSortProgress}).
			Return([]*entity.Goal{low, high, mid}, nil)
		res, err := gs.List(ctx, userID, service.GoalListQuery{Sort: repository.GoalSortProgress})
		require.NoError(t, err)
		assert.Equal(t, []*entity.Goal{high, mid, low}, res)
	})
	t.Run("unknown sort rejected", func(t *testing.T) {
		_, err := gs.List(ctx, userID, service.GoalListQuery{Sort: "color"})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("store failure", func(t *testing.T) {
		goals.EXPECT().List(gomock.Any(), userID, gomock.Any()).Return(nil, errorvalues.ErrStoreFailure)
		_, err := gs.List(ctx, userID, service.GoalListQuery{})
		assert.ErrorIs(t, err, errorvalues.ErrStoreFailure)
	})
}

func TestDeleteGoal(t *testing.T) {
	ctrl := gomock.NewController(t)
	goals := repomocks.NewMockGoalsRepositoryI(ctrl)
	tasks := repomocks.NewMockTasksRepositoryI(ctrl)
	cache := servicemocks.NewMockSummaryCache(ctrl)
	gs := service.NewGoalsService(goals, tasks, service.WithClock(clock), service.WithSummaryCache(cache))
	ctx := context.Background()
	stored := storedGoal(entity.GoalInProgress)

	t.Run("tasks go first", func(t *testing.T) {
		gomock.InOrder(
			goals.EXPECT().GetByID(gomock.Any(), userID, stored.ID).Return(stored, nil),
			tasks.EXPECT().DeleteByGoal(gomock.Any(), userID, stored.ID).Return(int64(2), nil),
			goals.EXPECT().Delete(gomock.Any(), userID, stored.ID).Return(nil),
			cache.EXPECT().Invalidate(gomock.Any(), userID),
		)
		assert.NoError(t, gs.Delete(ctx, userID, stored.ID))
	})
	t.Run("failure removing tasks leaves goal untouched", func(t *testing.T) {
		goals.EXPECT().GetByID(gomock.Any(), userID, stored.ID).Return(stored, nil)
		tasks.EXPECT().DeleteByGoal(gomock.Any(), userID, stored.ID).Return(int64(0), errorvalues.ErrStoreFailure)
		err := gs.Delete(ctx, userID, stored.ID)
		assert.ErrorIs(t, err, errorvalues.ErrStoreFailure)
	})
	t.Run("failure removing goal is surfaced", func(t *testing.T) {
		goals.EXPECT().GetByID(gomock.Any(), userID, stored.ID).Return(stored, nil)
		tasks.EXPECT().DeleteByGoal(gomock.Any(), userID, stored.ID).Return(int64(1), nil)
		goals.EXPECT().Delete(gomock.Any(), userID, stored.ID).Return(errors.Join(errorvalues.ErrStoreFailure, errors.New("conn reset")))
		err := gs.Delete(ctx, userID, stored.ID)
		assert.ErrorIs(t, err, errorvalues.ErrStoreFailure)
	})
	t.Run("missing goal touches nothing", func(t *testing.T) {
		id := uuid.New()
		goals.EXPECT().GetByID(gomock.Any(), userID, id).Return(nil, errorvalues.ErrGoalNotFound)
		assert.ErrorIs(t, gs.Delete(ctx, userID, id), errorvalues.ErrGoalNotFound)
	})
}
