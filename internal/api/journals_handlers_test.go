package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/limbo/goaltrackr/internal/api"
	errorvalues "github.com/limbo/goaltrackr/internal/error_values"
	"github.com/limbo/goaltrackr/internal/service"
	"github.com/limbo/goaltrackr/internal/service/mocks"
	"github.com/limbo/goaltrackr/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListJournals(t *testing.T) {
	ctrl := gomock.NewController(t)
	jService := mocks.NewMockJournalsServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		JournalsService: jService,
	})

	t.Run("bare end date covers the whole day", func(t *testing.T) {
		jService.EXPECT().List(gomock.Any(), userID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, q service.JournalListQuery) ([]*entity.Journal, error) {
				require.NotNil(t, q.StartDate)
				require.NotNil(t, q.EndDate)
				assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), *q.StartDate)
				assert.Equal(t, time.Date(2026, 4, 30, 23, 59, 59, 999999999, time.UTC), *q.EndDate)
				assert.Equal(t, "great", q.Mood)
				assert.Equal(t, "work", q.Tag)
				return []*entity.Journal{{ID: uuid.New()}}, nil
			})
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/journals?startDate=2026-04-01&endDate=2026-04-30&mood=great&tag=work", nil)
		serv.ListJournals(rr, withUID(r))
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("padded bare end date covers the whole day", func(t *testing.T) {
		jService.EXPECT().List(gomock.Any(), userID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, q service.JournalListQuery) ([]*entity.Journal, error) {
				require.NotNil(t, q.EndDate)
				assert.Equal(t, time.Date(2026, 4, 30, 23, 59, 59, 999999999, time.UTC), *q.EndDate)
				return nil, nil
			})
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/journals?endDate=%202026-04-30%20", nil)
		serv.ListJournals(rr, withUID(r))
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("end timestamp kept as is", func(t *testing.T) {
		jService.EXPECT().List(gomock.Any(), userID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, q service.JournalListQuery) ([]*entity.Journal, error) {
				require.NotNil(t, q.EndDate)
				assert.Nil(t, q.StartDate)
				assert.Equal(t, time.Date(2026, 4, 30, 12, 0, 0, 0, time.UTC), q.EndDate.UTC())
				return nil, nil
			})
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/journals?endDate=2026-04-30T12:00:00Z", nil)
		serv.ListJournals(rr, withUID(r))
		require.Equal(t, http.StatusOK, rr.Result().StatusCode)
		assert.JSONEq(t, "[]", rr.Body.String())
	})
	t.Run("invalid date", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/journals?startDate=yesterday", nil)
		serv.ListJournals(rr, withUID(r))
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("inverted range", func(t *testing.T) {
		jService.EXPECT().List(gomock.Any(), userID, gomock.Any()).
			Return(nil, errors.Join(errorvalues.ErrValidation, errors.New("endDate: before startDate")))
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/journals?startDate=2026-05-01&endDate=2026-04-01", nil)
		serv.ListJournals(rr, withUID(r))
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestJournalWrites(t *testing.T) {
	ctrl := gomock.NewController(t)
	jService := mocks.NewMockJournalsServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		JournalsService: jService,
	})
	journalID := uuid.New()

	t.Run("create", func(t *testing.T) {
		jService.EXPECT().Create(gomock.Any(), userID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, req *service.CreateJournalRequest) (*entity.Journal, error) {
				assert.Equal(t, "Shipped the release", req.Content)
				assert.Equal(t, "Great", req.Mood)
				assert.Equal(t, []string{"work"}, req.Tags)
				assert.Nil(t, req.Date)
				return &entity.Journal{ID: journalID, Content: req.Content, Mood: entity.MoodVeryPositive}, nil
			})
		rr := httptest.NewRecorder()
		r := withUID(httptest.NewRequest(http.MethodPost, "/api/v1/journals",
			strings.NewReader(`{"content":"Shipped the release","mood":"Great","tags":["work"]}`)))
		serv.CreateJournal(rr, r)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
		assert.Contains(t, rr.Body.String(), string(entity.MoodVeryPositive))
	})
	t.Run("create validation", func(t *testing.T) {
		jService.EXPECT().Create(gomock.Any(), userID, gomock.Any()).
			Return(nil, errors.Join(errorvalues.ErrValidation, errors.New("content: required")))
		rr := httptest.NewRecorder()
		r := withUID(httptest.NewRequest(http.MethodPost, "/api/v1/journals", strings.NewReader(`{"title":"empty"}`)))
		serv.CreateJournal(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("update", func(t *testing.T) {
		jService.EXPECT().Update(gomock.Any(), userID, journalID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ uuid.UUID, req *service.UpdateJournalRequest) (*entity.Journal, error) {
				require.NotNil(t, req.Content)
				assert.Nil(t, req.Mood)
				return &entity.Journal{ID: journalID, Content: *req.Content}, nil
			})
		rr := httptest.NewRecorder()
		r := withUID(httptest.NewRequest(http.MethodPut, "/api/v1/journals/"+journalID.String(), strings.NewReader(`{"content":"edited"}`)))
		r.SetPathValue("id", journalID.String())
		serv.UpdateJournal(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("get foreign", func(t *testing.T) {
		jService.EXPECT().Get(gomock.Any(), userID, journalID).Return(nil, errorvalues.ErrJournalNotFound)
		rr := httptest.NewRecorder()
		r := withUID(httptest.NewRequest(http.MethodGet, "/api/v1/journals/"+journalID.String(), nil))
		r.SetPathValue("id", journalID.String())
		serv.GetJournal(rr, r)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("delete", func(t *testing.T) {
		jService.EXPECT().Delete(gomock.Any(), userID, journalID).Return(nil)
		rr := httptest.NewRecorder()
		r := withUID(httptest.NewRequest(http.MethodDelete, "/api/v1/journals/"+journalID.String(), nil))
		r.SetPathValue("id", journalID.String())
		serv.DeleteJournal(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("delete malformed id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r := withUID(httptest.NewRequest(http.MethodDelete, "/api/v1/journals/abc", nil))
		r.SetPathValue("id", "abc")
		serv.DeleteJournal(rr, r)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}
