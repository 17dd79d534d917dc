package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error     string `json:"error"`                // error code, see codes.go
	Message   string `json:"message"`              // human-readable detail
	ProductID uint   `json:"product_id,omitempty"` // offending product for checkout failures
}

// RespondWithError writes the standard error payload.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// RespondWithProductError names the product that caused a checkout failure so
// the caller can prompt the buyer to fix that specific line item.
func RespondWithProductError(c *gin.Context, statusCode int, errorCode string, message string, productID uint) {
	c.JSON(statusCode, ErrorResponse{
		Error:     errorCode,
		Message:   message,
		ProductID: productID,
	})
}

// Shorthand responders for the common cases.

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "access denied"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}
