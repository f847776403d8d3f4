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

func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	query := service.TaskListQuery{
		GoalID:   q.Get("goalId"),
		Status:   q.Get("status"),
		Priority: entity.Priority(q.Get("priority")),
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	tasks, err := s.tasksService.List(ctx, uid, query)
	if err != nil {
		writeServiceError(w, logger, "list tasks", err)
		return
	}
	if tasks == nil {
		tasks = []*entity.Task{}
	}
	httputil.WriteJSONResponse(w, http.StatusOK, tasks)
}

func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, errorvalues.ErrTaskNotFound)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	task, err := s.tasksService.Get(ctx, uid, id)
	if err != nil {
		writeServiceError(w, logger, "get task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
}

func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	var req service.CreateTaskRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("create task error: invalid body", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	task, err := s.tasksService.Create(ctx, uid, &req)
	if err != nil {
		writeServiceError(w, logger, "create task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, task)
	logger.Info("task created", slog.String("task_id", task.ID.String()))
}

func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, errorvalues.ErrTaskNotFound)
	if !ok {
		return
	}
	var req service.UpdateTaskRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("update task error: invalid body", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	task, err := s.tasksService.Update(ctx, uid, id, &req)
	if err != nil {
		writeServiceError(w, logger, "update task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task updated", slog.String("task_id", id.String()))
}

func (s *Server) CompleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, errorvalues.ErrTaskNotFound)
	if !ok {
		return
	}
	var req CompleteTaskRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil || req.Completed == nil {
		logger.Warn("complete task error: completed flag required")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "completed must be a boolean", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	task, err := s.tasksService.Complete(ctx, uid, id, *req.Completed)
	if err != nil {
		writeServiceError(w, logger, "complete task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task completion changed", slog.String("task_id", id.String()), slog.Bool("completed", *req.Completed))
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, errorvalues.ErrTaskNotFound)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := s.tasksService.Delete(ctx, uid, id); err != nil {
		writeServiceError(w, logger, "delete task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "task deleted"})
	logger.Info("task deleted", slog.String("task_id", id.String()))
}
