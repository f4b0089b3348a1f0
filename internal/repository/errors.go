package repository

import "errors"

var (
	ErrNotFound      = errors.New("entity not found")
	ErrNotAcked      = errors.New("write was not acknowledged")
	ErrAlreadyExists = errors.New("entity already exists")
)
