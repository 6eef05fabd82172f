package errorvalues

import "errors"

var (
	ErrUserExists    = errors.New("such user already exists")
	ErrUserNotFound  = errors.New("user doesn't exists")
	ErrOwnerNotFound = errors.New("owner of the resource doesn't exist")
	ErrInvalidToken  = errors.New("invalid token")

	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("you are not authorized to perform this action")

	ErrProjectNotFound   = errors.New("project doesn't exist")
	ErrTaskNotFound      = errors.New("task doesn't exist")
	ErrEntryNotFound     = errors.New("entry doesn't exist")
	ErrReferenceNotFound = errors.New("referenced project or task doesn't exist")

	// Timer
	ErrTrackingNotFound    = errors.New("there is no tracked task with the provided data")
	ErrTimerAlreadyRunning = errors.New("you already have a tracked task in progress")
)
