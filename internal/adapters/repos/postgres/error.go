package postgres

import (
	"errors"
)

var (
	ErrNoRowsAffected = errors.New("no rows affected")
	ErrNilCode        = errors.New("verification code cannot be nil")
)
