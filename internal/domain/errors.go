package domain

import "errors"

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotInRoom    = errors.New("not in a room")
)
