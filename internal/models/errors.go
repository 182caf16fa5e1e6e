package models

import "errors"

var (
	ErrInvalidPrice      = errors.New("menu item price must be positive")
	ErrUnknownStatus     = errors.New("unknown menu item status")
	ErrUnknownDietaryTag = errors.New("dietary tag outside the fixed vocabulary")
	ErrUnknownSpice      = errors.New("unknown spice preference")
)
