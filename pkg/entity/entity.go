package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
}

type TaskStatus string

const (
	TaskStatusTodo     TaskStatus = "todo"
	TaskStatusDone     TaskStatus = "done"
	TaskStatusArchived TaskStatus = "archived"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusDone, TaskStatusArchived:
		return true
	}
	return false
}

// Project's RegisteredTime and OpenTaskCount are computed on read, never stored.
type Project struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Owner          uuid.UUID `json:"owner"`
	CreatedAt      time.Time `json:"created_at"`
	RegisteredTime int       `json:"registered_time"`
	OpenTaskCount  int       `json:"open_task_count"`
}

func (p *Project) OwnerID() uuid.UUID {
	return p.Owner
}

type Task struct {
	ID             uuid.UUID  `json:"id"`
	ProjectID      uuid.UUID  `json:"project"`
	Title          string     `json:"title"`
	CreatedBy      uuid.UUID  `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	Status         TaskStatus `json:"status"`
	RegisteredTime int        `json:"registered_time"`
}

func (t *Task) OwnerID() uuid.UUID {
	return t.CreatedBy
}

// Entry is a single time log. While IsTracked is set it is the user's running timer
// and Minutes stays 0.
type Entry struct {
	ID        uuid.UUID  `json:"id"`
	ProjectID *uuid.UUID `json:"project"`
	TaskID    *uuid.UUID `json:"task"`
	Minutes   int        `json:"minutes"`
	IsTracked bool       `json:"is_tracked"`
	CreatedBy uuid.UUID  `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
}

func (e *Entry) OwnerID() uuid.UUID {
	return e.CreatedBy
}
