package service

import "errors"

var (
	ErrValidation      = errors.New("validation")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
)
