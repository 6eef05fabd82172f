package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/limbo/timetrack/internal/service"
	"github.com/limbo/timetrack/pkg/entity"
	"github.com/limbo/timetrack/pkg/httputil"
)

// Only title is client-writable.
type ProjectRequest struct {
	Title string `json:"title"`
}

// ListProjects godoc
// @Summary List own projects ordered by title
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param page query int false "page, from 1"
// @Param limit query int false "page size, up to 50"
// @Success 200 {object} ListResponse[entity.Project]
// @Failure 401 {object} httputil.ErrorResponse
// @Router /projects/ [get]
func (s *Server) ListProjects(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := authorizedUser(w, r, "list projects")
	if !ok {
		return
	}
	page, limit, opts := pagination(r)
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	projects, err := s.projectsService.List(ctx, uid, opts)
	if err != nil {
		writeServiceError(w, logger, "list projects", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, ListResponse[*entity.Project]{
		Page:  page,
		Limit: limit,
		Items: projects,
	})
	logger.Info("projects provided", slog.Int("count", len(projects)))
}

// CreateProject godoc
// @Summary Create a project owned by the caller
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProjectRequest true "project"
// @Success 201 {object} entity.Project
// @Failure 400 {object} httputil.ErrorResponse
// @Router /projects/ [post]
func (s *Server) CreateProject(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := authorizedUser(w, r, "create project")
	if !ok {
		return
	}
	var req ProjectRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Error("create project error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	project, err := s.projectsService.Create(ctx, uid, service.ProjectRequest{Title: req.Title})
	if err != nil {
		writeServiceError(w, logger, "create project", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, project)
	logger.Info("project created", slog.String("project_id", project.ID.String()))
}

// GetProject godoc
// @Summary Get own project with registered time and open task count
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "project id"
// @Success 200 {object} entity.Project
// @Failure 403 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Router /projects/{id}/ [get]
func (s *Server) GetProject(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := authorizedUser(w, r, "get project")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "get project")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	project, err := s.projectsService.Get(ctx, uid, id)
	if err != nil {
		writeServiceError(w, logger, "get project", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, project)
	logger.Info("project provided")
}

// UpdateProject godoc
// @Summary Rename own project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "project id"
// @Param request body ProjectRequest true "project"
// @Success 200 {object} entity.Project
// @Failure 400 {object} httputil.ErrorResponse
// @Failure 403 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Router /projects/{id}/ [put]
func (s *Server) UpdateProject(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := authorizedUser(w, r, "update project")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "update project")
	if !ok {
		return
	}
	var req ProjectRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Error("update project error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	project, err := s.projectsService.Update(ctx, uid, id, service.ProjectRequest{Title: req.Title})
	if err != nil {
		writeServiceError(w, logger, "update project", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, project)
	logger.Info("project updated")
}

// DeleteProject godoc
// @Summary Delete own project with its tasks and entries
// @Tags projects
// @Security BearerAuth
// @Param id path string true "project id"
// @Success 204
// @Failure 403 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Router /projects/{id}/ [delete]
func (s *Server) DeleteProject(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := authorizedUser(w, r, "delete project")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "delete project")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	if err := s.projectsService.Delete(ctx, uid, id); err != nil {
		writeServiceError(w, logger, "delete project", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("project deleted")
}
