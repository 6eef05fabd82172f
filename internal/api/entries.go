package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/timetrack/internal/service"
	"github.com/limbo/timetrack/pkg/entity"
	"github.com/limbo/timetrack/pkg/httputil"
)

// CreateEntryRequest logs time manually. With a task the project is taken from it.
type CreateEntryRequest struct {
	TaskID    *uuid.UUID `json:"task,omitempty"`
	ProjectID *uuid.UUID `json:"project,omitempty"`
	Minutes   int        `json:"minutes"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// ListEntries godoc
// @Summary List own entries, newest first
// @Tags entries
// @Produce json
// @Security BearerAuth
// @Param project query string false "project id"
// @Param task query string false "task id"
// @Param page query int false "page, from 1"
// @Param limit query int false "page size, up to 50"
// @Success 200 {object} ListResponse[entity.Entry]
// @Failure 400 {object} httputil.ErrorResponse
// @Router /entries/ [get]
func (s *Server) ListEntries(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := authorizedUser(w, r, "list entries")
	if !ok {
		return
	}
	projectID, err := queryID(r, "project")
	if err != nil {
		logger.Error("list entries error: invalid project filter")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid project id", nil)
		return
	}
	taskID, err := queryID(r, "task")
	if err != nil {
		logger.Error("list entries error: invalid task filter")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id", nil)
		return
	}
	page, limit, opts := pagination(r)
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	entries, err := s.entriesService.List(ctx, uid, service.EntryListFilter{
		ProjectID: projectID,
		TaskID:    taskID,
	}, opts)
	if err != nil {
		writeServiceError(w, logger, "list entries", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, ListResponse[*entity.Entry]{
		Page:  page,
		Limit: limit,
		Items: entries,
	})
	logger.Info("entries provided", slog.Int("count", len(entries)))
}

// CreateEntry godoc
// @Summary Log time manually
// @Tags entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateEntryRequest true "entry"
// @Success 201 {object} entity.Entry
// @Failure 400 {object} httputil.ErrorResponse
// @Failure 403 {object} httputil.ErrorResponse
// @Router /entries/ [post]
func (s *Server) CreateEntry(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := authorizedUser(w, r, "create entry")
	if !ok {
		return
	}
	var req CreateEntryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Error("create entry error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	create := service.CreateEntryRequest{
		TaskID:    req.TaskID,
		ProjectID: req.ProjectID,
		Minutes:   req.Minutes,
	}
	if req.CreatedAt != nil {
		create.CreatedAt = *req.CreatedAt
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	entry, err := s.entriesService.Create(ctx, uid, create)
	if err != nil {
		writeServiceError(w, logger, "create entry", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, entry)
	logger.Info("entry created", slog.String("entry_id", entry.ID.String()))
}

// GetEntry godoc
// @Summary Get own entry
// @Tags entries
// @Produce json
// @Security BearerAuth
// @Param id path string true "entry id"
// @Success 200 {object} entity.Entry
// @Failure 403 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Router /entries/{id}/ [get]
func (s *Server) GetEntry(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := authorizedUser(w, r, "get entry")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "get entry")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	entry, err := s.entriesService.Get(ctx, uid, id)
	if err != nil {
		writeServiceError(w, logger, "get entry", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, entry)
	logger.Info("entry provided")
}

// DeleteEntry godoc
// @Summary Delete own entry, cancelling the timer if it is running
// @Tags entries
// @Security BearerAuth
// @Param id path string true "entry id"
// @Success 204
// @Failure 403 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Router /entries/{id}/ [delete]
func (s *Server) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := authorizedUser(w, r, "delete entry")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "delete entry")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	if err := s.entriesService.Delete(ctx, uid, id); err != nil {
		writeServiceError(w, logger, "delete entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("entry deleted")
}
