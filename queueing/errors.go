package queueing

import "errors"

// Errors returned by the containers. They are wrapped in a ContainerError;
// match them with errors.Is.
var (
	ErrEmpty      = errors.New("container is empty")
	ErrFull       = errors.New("container is full")
	ErrOutOfRange = errors.New("offset out of range")
)

// A ContainerError names the container an error comes from.
type ContainerError struct {
	Container string
	Err       error
}

// NewContainerError wraps err with the name of the failing container.
func NewContainerError(container string, err error) error {
	return &ContainerError{Container: container, Err: err}
}

func (e *ContainerError) Error() string {
	return e.Container + ": " + e.Err.Error()
}

func (e *ContainerError) Unwrap() error {
	return e.Err
}
