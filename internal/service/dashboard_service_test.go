package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/limbo/goaltrackr/internal/cache"
	errorvalues "github.com/limbo/goaltrackr/internal/error_values"
	"github.com/limbo/goaltrackr/internal/repository"
	repomocks "github.com/limbo/goaltrackr/internal/repository/mocks"
	"github.com/limbo/goaltrackr/internal/service"
	servicemocks "github.com/limbo/goaltrackr/internal/service/mocks"
	"github.com/limbo/goaltrackr/pkg/calendar"
	"github.com/limbo/goaltrackr/pkg/entity"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dashboardFixture() ([]*entity.Goal, []*entity.Task, []*entity.Journal) {
	active := storedGoal(entity.GoalInProgress)
	active.CurrentValue = 40
	done := storedGoal(entity.GoalCompleted)
	done.ProgressMetric = entity.MetricBinary

	day := func(d int) time.Time { return time.Date(2026, 4, d, 0, 0, 0, 0, time.UTC) }
	task := func(goal *entity.Goal, due time.Time, status entity.TaskStatus) *entity.Task {
		t := storedTask(goal.ID, status)
		t.DueDate = due
		return t
	}
	tasks := []*entity.Task{
		task(active, day(13), entity.TaskCompleted),
		task(active, day(16), entity.TaskInProgress),
		task(done, day(10), entity.TaskNotStarted),
		task(done, day(20), entity.TaskCompleted),
	}

	week, year := calendar.WeekOf(testNow)
	journals := []*entity.Journal{
		{ID: uuid.New(), UserID: userID, WeekNumber: week, YearNumber: year},
		{ID: uuid.New(), UserID: userID, WeekNumber: week - 1, YearNumber: year},
	}
	return []*entity.Goal{active, done}, tasks, journals
}

func TestSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	goals := repomocks.NewMockGoalsRepositoryI(ctrl)
	tasks := repomocks.NewMockTasksRepositoryI(ctrl)
	journals := repomocks.NewMockJournalsRepositoryI(ctrl)
	ds := service.NewDashboardService(goals, tasks, journals, service.WithClock(clock))
	ctx := context.Background()

	t.Run("figures", func(t *testing.T) {
		g, tk, j := dashboardFixture()
		goals.EXPECT().List(gomock.Any(), userID, repository.GoalFilter{}).Return(g, nil)
		tasks.EXPECT().List(gomock.Any(), userID, repository.TaskFilter{}).Return(tk, nil)
		journals.EXPECT().List(gomock.Any(), userID, repository.JournalFilter{}).Return(j, nil)

		s, err := ds.Summary(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 2, s.TotalGoals)
		assert.Equal(t, 1, s.CompletedGoals)
		assert.Equal(t, 50, s.CompletionRate)
		assert.Equal(t, map[string]int{
			"Not Started": 0,
			"In Progress": 1,
			"Completed":   1,
			"On Hold":     0,
			"Abandoned":   0,
		}, s.GoalsByStatus)
		assert.Equal(t, 2, s.WeeklyTasks)
		assert.Equal(t, 1, s.CompletedWeeklyTasks)
		assert.Equal(t, 50, s.TaskCompletionRate)
		assert.Equal(t, 1, s.OverdueTasks)
		assert.Equal(t, 2, s.JournalEntries)
		assert.Equal(t, 1, s.JournalsThisWeek)
		assert.Equal(t, testNow, s.GeneratedAt)
		assert.Equal(t, []entity.GoalProgress{
			{GoalID: g[0].ID, Title: g[0].Title, Status: "In Progress", ProgressPercentage: 40, TasksTotal: 2, TasksCompleted: 1},
			{GoalID: g[1].ID, Title: g[1].Title, Status: "Completed", ProgressPercentage: 100, TasksTotal: 2, TasksCompleted: 1},
		}, s.GoalProgress)
	})
	t.Run("empty account", func(t *testing.T) {
		goals.EXPECT().List(gomock.Any(), userID, gomock.Any()).Return([]*entity.Goal{}, nil)
		tasks.EXPECT().List(gomock.Any(), userID, gomock.Any()).Return([]*entity.Task{}, nil)
		journals.EXPECT().List(gomock.Any(), userID, gomock.Any()).Return([]*entity.Journal{}, nil)

		s, err := ds.Summary(ctx, userID)
		require.NoError(t, err)
		assert.Zero(t, s.TotalGoals)
		assert.Zero(t, s.CompletionRate)
		assert.Zero(t, s.TaskCompletionRate)
		assert.Len(t, s.GoalsByStatus, 5)
		assert.Empty(t, s.GoalProgress)
	})
	t.Run("store failure", func(t *testing.T) {
		goals.EXPECT().List(gomock.Any(), userID, gomock.Any()).Return([]*entity.Goal{}, nil)
		tasks.EXPECT().List(gomock.Any(), userID, gomock.Any()).Return(nil, errorvalues.ErrStoreFailure)

		_, err := ds.Summary(ctx, userID)
		assert.ErrorIs(t, err, errorvalues.ErrStoreFailure)
	})
}

func TestSummaryCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	goals := repomocks.NewMockGoalsRepositoryI(ctrl)
	tasks := repomocks.NewMockTasksRepositoryI(ctrl)
	journals := repomocks.NewMockJournalsRepositoryI(ctrl)
	cache := servicemocks.NewMockSummaryCache(ctrl)
	ds := service.NewDashboardService(goals, tasks, journals, service.WithClock(clock), service.WithSummaryCache(cache))
	ctx := context.Background()

	t.Run("miss computes and stores", func(t *testing.T) {
		g, tk, j := dashboardFixture()
		cache.EXPECT().Get(gomock.Any(), userID).Return(nil, int64(3), false)
		goals.EXPECT().List(gomock.Any(), userID, gomock.Any()).Return(g, nil)
		tasks.EXPECT().List(gomock.Any(), userID, gomock.Any()).Return(tk, nil)
		journals.EXPECT().List(gomock.Any(), userID, gomock.Any()).Return(j, nil)
		cache.EXPECT().Set(gomock.Any(), userID, int64(3), gomock.Any()).Do(func(_ context.Context, _ uuid.UUID, _ int64, s *entity.Summary) {
			assert.Equal(t, 2, s.TotalGoals)
		})

		s, err := ds.Summary(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 2, s.TotalGoals)
	})
	t.Run("hit skips store", func(t *testing.T) {
		cached := &entity.Summary{TotalGoals: 7}
		cache.EXPECT().Get(gomock.Any(), userID).Return(cached, int64(3), true)

		s, err := ds.Summary(ctx, userID)
		require.NoError(t, err)
		assert.Same(t, cached, s)
	})
}

func TestSummaryNotCachedAcrossMutation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	summaries := cache.NewSummaryCache(client, time.Minute, nil)

	ctrl := gomock.NewController(t)
	goals := repomocks.NewMockGoalsRepositoryI(ctrl)
	tasks := repomocks.NewMockTasksRepositoryI(ctrl)
	journals := repomocks.NewMockJournalsRepositoryI(ctrl)
	ds := service.NewDashboardService(goals, tasks, journals, service.WithClock(clock), service.WithSummaryCache(summaries))
	gs := service.NewGoalsService(goals, tasks, service.WithClock(clock), service.WithSummaryCache(summaries))
	ctx := context.Background()

	var created *entity.Goal
	goals.EXPECT().List(gomock.Any(), userID, gomock.Any()).Return([]*entity.Goal{}, nil)
	tasks.EXPECT().List(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ uuid.UUID, _ repository.TaskFilter) ([]*entity.Task, error) {
			goals.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			var err error
			created, err = gs.Create(ctx, userID, &service.CreateGoalRequest{Title: "Learn Z"})
			require.NoError(t, err)
			return nil, nil
		})
	journals.EXPECT().List(gomock.Any(), userID, gomock.Any()).Return(nil, nil)

	raced, err := ds.Summary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, raced.TotalGoals)

	goals.EXPECT().List(gomock.Any(), userID, gomock.Any()).DoAndReturn(
		func(context.Context, uuid.UUID, repository.GoalFilter) ([]*entity.Goal, error) {
			return []*entity.Goal{created}, nil
		})
	tasks.EXPECT().List(gomock.Any(), userID, gomock.Any()).Return(nil, nil)
	journals.EXPECT().List(gomock.Any(), userID, gomock.Any()).Return(nil, nil)

	fresh, err := ds.Summary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.TotalGoals)

	cached, err := ds.Summary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, cached.TotalGoals)
}
