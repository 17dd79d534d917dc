package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an API error code with a caller-safe message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseStoreError maps a raw persistence error onto the API taxonomy without
// leaking driver internals. Anything unrecognized is surfaced as a store-level
// I/O failure, which callers are free to retry.
func ParseStoreError(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "internal server error"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: CartNotFound, Message: "resource not found"}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint") {
		return ErrorInfo{Code: CartConflict, Message: "conflicting write, please retry"}
	}

	return ErrorInfo{Code: InternalDatabaseError, Message: "data store unavailable, please retry"}
}
