package domain

import "errors"

var (
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidTitle       = errors.New("invalid title")
	ErrInvalidDescription = errors.New("invalid description")
	ErrInvalidPeople      = errors.New("invalid people count")
	ErrInvalidStatus      = errors.New("invalid status")
)
