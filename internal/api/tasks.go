package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/limbo/timetrack/internal/service"
	"github.com/limbo/timetrack/pkg/entity"
	"github.com/limbo/timetrack/pkg/httputil"
)

type CreateTaskRequest struct {
	ProjectID uuid.UUID `json:"project"`
	Title     string    `json:"title"`
	Status    string    `json:"status,omitempty"`
}

// Project of a task cannot be changed.
type UpdateTaskRequest struct {
	Title  *string `json:"title,omitempty"`
	Status *string `json:"status,omitempty"`
}

// ListTasks godoc
// @Summary List own tasks, newest first
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param project query string false "project id"
// @Param status query string false "todo, done or archived"
// @Param page query int false "page, from 1"
// @Param limit query int false "page size, up to 50"
// @Success 200 {object} ListResponse[entity.Task]
// @Failure 400 {object} httputil.ErrorResponse
// @Router /tasks/ [get]
func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := authorizedUser(w, r, "list tasks")
	if !ok {
		return
	}
	projectID, err := queryID(r, "project")
	if err != nil {
		logger.Error("list tasks error: invalid project filter")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid project id", nil)
		return
	}
	filter := service.TaskListFilter{ProjectID: projectID}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := entity.TaskStatus(raw)
		filter.Status = &status
	}
	page, limit, opts := pagination(r)
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	tasks, err := s.tasksService.List(ctx, uid, filter, opts)
	if err != nil {
		writeServiceError(w, logger, "list tasks", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, ListResponse[*entity.Task]{
		Page:  page,
		Limit: limit,
		Items: tasks,
	})
	logger.Info("tasks provided", slog.Int("count", len(tasks)))
}

// CreateTask godoc
// @Summary Create a task in an own project
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "task"
// @Success 201 {object} entity.Task
// @Failure 400 {object} httputil.ErrorResponse
// @Failure 403 {object} httputil.ErrorResponse
// @Router /tasks/ [post]
func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := authorizedUser(w, r, "create task")
	if !ok {
		return
	}
	var req CreateTaskRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Error("create task error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	task, err := s.tasksService.Create(ctx, uid, service.CreateTaskRequest{
		ProjectID: req.ProjectID,
		Title:     req.Title,
		Status:    entity.TaskStatus(req.Status),
	})
	if err != nil {
		writeServiceError(w, logger, "create task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, task)
	logger.Info("task created", slog.String("task_id", task.ID.String()))
}

// GetTask godoc
// @Summary Get own task with registered time
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "task id"
// @Success 200 {object} entity.Task
// @Failure 403 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Router /tasks/{id}/ [get]
func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := authorizedUser(w, r, "get task")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "get task")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	task, err := s.tasksService.Get(ctx, uid, id)
	if err != nil {
		writeServiceError(w, logger, "get task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task provided")
}

// UpdateTask godoc
// @Summary Change title or status of own task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "task id"
// @Param request body UpdateTaskRequest true "fields to change"
// @Success 200 {object} entity.Task
// @Failure 400 {object} httputil.ErrorResponse
// @Failure 403 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Router /tasks/{id}/ [put]
func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := authorizedUser(w, r, "update task")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "update task")
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Error("update task error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	upd := service.UpdateTaskRequest{Title: req.Title}
	if req.Status != nil {
		status := entity.TaskStatus(*req.Status)
		upd.Status = &status
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	task, err := s.tasksService.Update(ctx, uid, id, upd)
	if err != nil {
		writeServiceError(w, logger, "update task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task updated")
}

// DeleteTask godoc
// @Summary Delete own task with its entries
// @Tags tasks
// @Security BearerAuth
// @Param id path string true "task id"
// @Success 204
// @Failure 403 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Router /tasks/{id}/ [delete]
func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := authorizedUser(w, r, "delete task")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "delete task")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	if err := s.tasksService.Delete(ctx, uid, id); err != nil {
		writeServiceError(w, logger, "delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("task deleted")
}
