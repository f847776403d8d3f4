package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/goaltrackr/internal/error_values"
	"github.com/limbo/goaltrackr/internal/service"
	"github.com/limbo/goaltrackr/pkg/httputil"
	"github.com/limbo/goaltrackr/pkg/metrics"
)

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req service.RegisterRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("registering error: invalid body", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	user, err := s.userService.SignUp(ctx, &req)
	if err != nil {
		writeServiceError(w, logger, "registering", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, user)
	logger.Info("successful registration", slog.String("uid", user.ID.String()))
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req LoginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("login error: invalid body", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	identity, err := s.userService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, errorvalues.ErrWrongCredentials) {
			metrics.RecordAuthFailure(metrics.ReasonCredentials)
		}
		writeServiceError(w, logger, "login", err)
		return
	}
	token, err := s.jwtService.GenerateToken(*identity)
	if err != nil {
		logger.Error("login error: generating token error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, LoginResponse{
		Token: token,
		User:  *identity,
	})
	logger.Info("successful login", slog.String("uid", identity.ID.String()))
}

func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	user, err := s.userService.GetByID(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "get settings", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, user)
}

func (s *Server) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	var req service.UpdateSettingsRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("update settings error: invalid body", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	user, err := s.userService.UpdateSettings(ctx, uid, &req)
	if err != nil {
		writeServiceError(w, logger, "update settings", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, user)
	logger.Info("settings updated")
}

func (s *Server) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	summary, err := s.dashboardService.Summary(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "dashboard summary", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, summary)
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if s.healthCheck != nil {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		if err := s.healthCheck(ctx); err != nil {
			GetLoggerFromCtx(r.Context()).Error("health check failed", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusServiceUnavailable, "store unavailable", nil)
			return
		}
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func requireUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	uid, err := GetUIDFromContext(r)
	if err != nil {
		GetLoggerFromCtx(r.Context()).Warn("request without authorization", slog.String("path", r.URL.Path))
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return uuid.Nil, false
	}
	return uid, true
}

// pathID parses the {id} route parameter. A malformed id cannot name a
// record, so it is answered like a missing one.
func pathID(w http.ResponseWriter, r *http.Request, notFound error) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		GetLoggerFromCtx(r.Context()).Warn("malformed id in path", slog.String("id", r.PathValue("id")))
		httputil.WriteErrorResponse(w, http.StatusNotFound, notFound.Error(), nil)
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError maps service errors onto responses. Anything that is not
// a known sentinel is logged and answered with a generic message.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, errorvalues.ErrValidation):
		logger.Warn(op+" error: validation", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "validation failed", err)
	case errors.Is(err, errorvalues.ErrGoalNotFound):
		logger.Warn(op + " error: goal not found")
		httputil.WriteErrorResponse(w, http.StatusNotFound, errorvalues.ErrGoalNotFound.Error(), nil)
	case errors.Is(err, errorvalues.ErrTaskNotFound):
		logger.Warn(op + " error: task not found")
		httputil.WriteErrorResponse(w, http.StatusNotFound, errorvalues.ErrTaskNotFound.Error(), nil)
	case errors.Is(err, errorvalues.ErrJournalNotFound):
		logger.Warn(op + " error: journal entry not found")
		httputil.WriteErrorResponse(w, http.StatusNotFound, errorvalues.ErrJournalNotFound.Error(), nil)
	case errors.Is(err, errorvalues.ErrUserNotFound):
		logger.Warn(op + " error: user not found")
		httputil.WriteErrorResponse(w, http.StatusNotFound, errorvalues.ErrUserNotFound.Error(), nil)
	case errors.Is(err, errorvalues.ErrUserExists):
		logger.Warn(op + " error: existed user")
		httputil.WriteErrorResponse(w, http.StatusConflict, errorvalues.ErrUserExists.Error(), nil)
	case errors.Is(err, errorvalues.ErrWrongCredentials):
		logger.Warn(op + " error: wrong credentials")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "invalid email or password", nil)
	case errors.Is(err, errorvalues.ErrInvalidToken), errors.Is(err, errorvalues.ErrUnauthenticated):
		logger.Warn(op + " error: unauthenticated")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
	case errors.Is(err, context.DeadlineExceeded):
		logger.Error(op+" error: timed out", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusGatewayTimeout, "request timed out", nil)
	default:
		logger.Error(op+" error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error", nil)
	}
}
