package model

import "errors"

var (
	// ErrNotValid is returned when a resource or configuration is not valid.
	ErrNotValid = errors.New("not valid")
)
