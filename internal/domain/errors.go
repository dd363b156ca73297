package domain

import "errors"

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrInsufficientTickets = errors.New("not enough tickets available")
	ErrInvalidMovie        = errors.New("movie violates a data constraint")
)
