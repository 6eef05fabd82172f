package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/limbo/timetrack/pkg/httputil"
)

const (
	statusStartTracking   = "Start Tracking"
	statusStopTracking    = "Stop Tracking"
	messageAlreadyTracked = "You already have a tracked task in progress."
)

// StartTimer godoc
// @Summary Start tracking time on own task
// @Description Declines with 200 and the running entry when the caller already tracks a task.
// @Tags timer
// @Produce json
// @Security BearerAuth
// @Param id path string true "task id"
// @Success 201 {object} httputil.MessageResponse
// @Success 200 {object} httputil.MessageResponse
// @Failure 403 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Failure 409 {object} httputil.ErrorResponse
// @Router /tasks/{id}/start/ [post]
func (s *Server) StartTimer(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := authorizedUser(w, r, "start timer")
	if !ok {
		return
	}
	taskID, ok := pathID(w, r, "start timer")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	res, err := s.timerService.Start(ctx, uid, taskID)
	if err != nil {
		writeServiceError(w, logger, "start timer", err)
		return
	}
	if res.AlreadyTracking {
		httputil.WriteJSONResponse(w, http.StatusOK, httputil.MessageResponse{
			Message: messageAlreadyTracked,
			Task:    res.Entry,
		})
		logger.Info("start declined: already tracking", slog.String("entry_id", res.Entry.ID.String()))
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, httputil.MessageResponse{
		Status: statusStartTracking,
		Task:   res.Entry,
	})
	logger.Info("tracking started", slog.String("entry_id", res.Entry.ID.String()))
}

// StopTimer godoc
// @Summary Stop tracking own task and record elapsed whole minutes, at least one
// @Tags timer
// @Produce json
// @Security BearerAuth
// @Param id path string true "task id"
// @Success 200 {object} httputil.MessageResponse
// @Failure 403 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Router /tasks/{id}/end/ [post]
func (s *Server) StopTimer(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := authorizedUser(w, r, "stop timer")
	if !ok {
		return
	}
	taskID, ok := pathID(w, r, "stop timer")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	entry, err := s.timerService.Stop(ctx, uid, taskID)
	if err != nil {
		writeServiceError(w, logger, "stop timer", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, httputil.MessageResponse{
		Status: statusStopTracking,
		Task:   entry,
	})
	logger.Info("tracking stopped", slog.String("entry_id", entry.ID.String()), slog.Int("minutes", entry.Minutes))
}

// ActiveEntry godoc
// @Summary Get the caller's running entry
// @Tags timer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} entity.Entry
// @Failure 404 {object} httputil.ErrorResponse
// @Router /entries/active/ [get]
func (s *Server) ActiveEntry(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := authorizedUser(w, r, "active entry")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	entry, err := s.timerService.Active(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "active entry", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, entry)
	logger.Info("active entry provided")
}
