package store

import "errors"

// Domain errors returned by store operations. The Admin API handlers map
// these to the fixed error-kind vocabulary the wire protocol exposes.
var (
	ErrUserNotFound  = errors.New("admin user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrTokenNotFound = errors.New("admin token not found")
)
