package errors

import "errors"

var (
	ErrNotFound  = errors.New("resource not found")
	ErrInvalidID = errors.New("invalid resource ID format")
	ErrDuplicate = errors.New("resource name already exists")
)
