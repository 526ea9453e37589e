package service

import "errors"

var (
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	ErrNotFound                = errors.New("not found")
	ErrInvalidArgument         = errors.New("invalid argument")
	ErrStorageDeleteFailed     = errors.New("failed to delete object from storage")
	ErrStorageUploadUnverified = errors.New("uploaded object not found in storage")
)

// AccessError is returned when an item is missing or belongs to someone else.
// Both cases carry the same message so callers cannot probe for foreign ids;
// errors.Is still tells ErrNotFound and ErrForbidden apart.
type AccessError struct {
	Entity string
	Kind   error
}

func (e *AccessError) Error() string {
	return e.Entity + " not found or unauthorized"
}

func (e *AccessError) Unwrap() error {
	return e.Kind
}
