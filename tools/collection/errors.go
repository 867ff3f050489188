package collection

import (
	"net/http"

	"github.com/mangohow/gostack/errors"
)

var (
	ErrAllocationFailure = errors.New(1001, http.StatusInternalServerError, "ALLOCATION_FAILURE", "stack buffer allocation failed")
	ErrStackFull         = errors.New(1002, http.StatusInsufficientStorage, "STACK_FULL", "stack has reached maximum capacity")
	ErrStackEmpty        = errors.New(1003, http.StatusConflict, "STACK_EMPTY", "cannot pop from empty stack")
	ErrElementTooLarge   = errors.New(1004, http.StatusRequestEntityTooLarge, "ELEMENT_TOO_LARGE", "element exceeds maximum size")
	ErrInvalidArgument   = errors.New(1005, http.StatusBadRequest, "INVALID_ARGUMENT", "no value supplied")
	ErrStackDestroyed    = errors.New(1006, http.StatusGone, "STACK_DESTROYED", "stack has been destroyed")
)
