package api

import (
	"context"
	"log/slog"
	"net/http"

	errorvalues "github.com/limbo/goaltrackr/internal/error_values"
	"github.com/limbo/goaltrackr/internal/service"
	"github.com/limbo/goaltrackr/pkg/entity"
	"github.com/limbo/goaltrackr/pkg/httputil"
)

func (s *Server) ListGoals(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	query := service.GoalListQuery{
		Status:   entity.GoalStatus(q.Get("status")),
		Priority: entity.Priority(q.Get("priority")),
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	goals, err := s.goalsService.List(ctx, uid, query)
	if err != nil {
		writeServiceError(w, logger, "list goals", err)
		return
	}
	if goals == nil {
		goals = []*entity.Goal{}
	}
	httputil.WriteJSONResponse(w, http.StatusOK, goals)
}

func (s *Server) GetGoal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, errorvalues.ErrGoalNotFound)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	goal, err := s.goalsService.Get(ctx, uid, id)
	if err != nil {
		writeServiceError(w, logger, "get goal", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, goal)
}

func (s *Server) CreateGoal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	var req service.CreateGoalRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("create goal error: invalid body", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	goal, err := s.goalsService.Create(ctx, uid, &req)
	if err != nil {
		writeServiceError(w, logger, "create goal", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, goal)
	logger.Info("goal created", slog.String("goal_id", goal.ID.String()))
}

func (s *Server) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, errorvalues.ErrGoalNotFound)
	if !ok {
		return
	}
	var req service.UpdateGoalRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("update goal error: invalid body", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	goal, err := s.goalsService.Update(ctx, uid, id, &req)
	if err != nil {
		writeServiceError(w, logger, "update goal", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, goal)
	logger.Info("goal updated", slog.String("goal_id", id.String()))
}

func (s *Server) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, errorvalues.ErrGoalNotFound)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := s.goalsService.Delete(ctx, uid, id); err != nil {
		writeServiceError(w, logger, "delete goal", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "goal deleted"})
	logger.Info("goal deleted", slog.String("goal_id", id.String()))
}
