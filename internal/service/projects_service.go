package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/timetrack/internal/error_values"
	"github.com/limbo/timetrack/internal/repository"
	"github.com/limbo/timetrack/pkg/entity"
)

type ProjectsService struct {
	repo  repository.ProjectsRepositoryI
	guard Authorizer
}

func NewProjectsService(projectsRepo repository.ProjectsRepositoryI, guard Authorizer) *ProjectsService {
	if projectsRepo == nil {
		log.Fatal("provided nil projectsRepo")
	}
	return &ProjectsService{
		repo:  projectsRepo,
		guard: guard,
	}
}

func (ps *ProjectsService) List(ctx context.Context, owner uuid.UUID, pagination PaginationOpts) ([]*entity.Project, error) {
	projects, err := ps.repo.GetByOwner(ctx, owner, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("projects repository error: " + err.Error())
	}
	return projects, nil
}

func (ps *ProjectsService) Create(ctx context.Context, owner uuid.UUID, req ProjectRequest) (*entity.Project, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	p := entity.Project{
		Title: strings.TrimSpace(req.Title),
		Owner: owner,
	}
	err := ps.repo.Create(ctx, &p)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrOwnerNotFound):
			return nil, errorvalues.ErrUserNotFound
		case errors.Is(err, errorvalues.ErrValidation):
			return nil, err
		}
		return nil, errors.New("projects repository error: " + err.Error())
	}
	return &p, nil
}

func (ps *ProjectsService) Get(ctx context.Context, user, id uuid.UUID) (*entity.Project, error) {
	project, err := ps.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrProjectNotFound) {
			return nil, errorvalues.ErrProjectNotFound
		}
		return nil, errors.New("projects repository error: " + err.Error())
	}
	if !ps.guard.Authorize(user, project) {
		return nil, errorvalues.ErrForbidden
	}
	return project, nil
}

func (ps *ProjectsService) Update(ctx context.Context, user, id uuid.UUID, req ProjectRequest) (*entity.Project, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	project, err := ps.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	project.Title = strings.TrimSpace(req.Title)
	err = ps.repo.Update(ctx, project)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrProjectNotFound), errors.Is(err, errorvalues.ErrValidation):
			return nil, err
		}
		return nil, errors.New("projects repository error: " + err.Error())
	}
	return project, nil
}

func (ps *ProjectsService) Delete(ctx context.Context, user, id uuid.UUID) error {
	if _, err := ps.Get(ctx, user, id); err != nil {
		return err
	}
	err := ps.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrProjectNotFound) {
			return err
		}
		return errors.New("projects repository error: " + err.Error())
	}
	return nil
}
