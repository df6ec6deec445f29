package contract

import "errors"

var (
	ErrMalformedInput = errors.New("malformed request input")
	ErrMissingAction  = errors.New("action field is missing")
	ErrUnknownAction  = errors.New("unknown action")
	ErrUnknownAgent   = errors.New("unknown agent")
	ErrValidation     = errors.New("validation failed")
	ErrTimeout        = errors.New("operation timed out")
	ErrBackend        = errors.New("backend operation failed")
)
