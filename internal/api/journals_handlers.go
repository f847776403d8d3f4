package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	errorvalues "github.com/limbo/goaltrackr/internal/error_values"
	"github.com/limbo/goaltrackr/internal/service"
	"github.com/limbo/goaltrackr/pkg/calendar"
	"github.com/limbo/goaltrackr/pkg/entity"
	"github.com/limbo/goaltrackr/pkg/httputil"
)

func (s *Server) ListJournals(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	query, err := journalQuery(r.URL.Query())
	if err != nil {
		logger.Warn("list journals error: invalid date range", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "startDate and endDate must be dates", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	journals, err := s.journalsService.List(ctx, uid, query)
	if err != nil {
		writeServiceError(w, logger, "list journals", err)
		return
	}
	if journals == nil {
		journals = []*entity.Journal{}
	}
	httputil.WriteJSONResponse(w, http.StatusOK, journals)
}

// journalQuery reads the list filters. A bare endDate covers that whole day.
func journalQuery(q url.Values) (service.JournalListQuery, error) {
	query := service.JournalListQuery{
		Mood: q.Get("mood"),
		Tag:  q.Get("tag"),
	}
	if v := q.Get("startDate"); v != "" {
		from, err := calendar.ParseDate(v)
		if err != nil {
			return query, err
		}
		query.StartDate = &from
	}
	if v := q.Get("endDate"); v != "" {
		to, err := calendar.ParseDate(v)
		if err != nil {
			return query, err
		}
		if len(strings.TrimSpace(v)) == len(time.DateOnly) {
			to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		query.EndDate = &to
	}
	return query, nil
}

func (s *Server) GetJournal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, errorvalues.ErrJournalNotFound)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	journal, err := s.journalsService.Get(ctx, uid, id)
	if err != nil {
		writeServiceError(w, logger, "get journal", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, journal)
}

func (s *Server) CreateJournal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	var req service.CreateJournalRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("create journal error: invalid body", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	journal, err := s.journalsService.Create(ctx, uid, &req)
	if err != nil {
		writeServiceError(w, logger, "create journal", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, journal)
	logger.Info("journal entry created", slog.String("journal_id", journal.ID.String()))
}

func (s *Server) UpdateJournal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, errorvalues.ErrJournalNotFound)
	if !ok {
		return
	}
	var req service.UpdateJournalRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("update journal error: invalid body", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	journal, err := s.journalsService.Update(ctx, uid, id, &req)
	if err != nil {
		writeServiceError(w, logger, "update journal", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, journal)
	logger.Info("journal entry updated", slog.String("journal_id", id.String()))
}

func (s *Server) DeleteJournal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, errorvalues.ErrJournalNotFound)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := s.journalsService.Delete(ctx, uid, id); err != nil {
		writeServiceError(w, logger, "delete journal", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "journal entry deleted"})
	logger.Info("journal entry deleted", slog.String("journal_id", id.String()))
}
