package errors

// Error code constants returned in API responses.
// Format: CATEGORY_SPECIFIC_DETAIL (checkout codes keep their short names
// because callers key buyer-facing remediation prompts off them).

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED" // login required
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"

	// ==================== Cart mutations ====================
	CartNotFound     = "CART_NOT_FOUND"
	CartItemNotFound = "ITEM_NOT_FOUND"
	CartConflict     = "CART_CONFLICT" // concurrent write lost the version race; retry

	// ==================== Catalog ====================
	ProductNotFound    = "PRODUCT_NOT_FOUND"
	ProductUnavailable = "PRODUCT_UNAVAILABLE" // not active+approved

	// ==================== Checkout validation ====================
	CheckoutEmptyCart      = "EMPTY_CART"
	CheckoutInvalidCart    = "INVALID_CART"
	CheckoutMalformedItem  = "MALFORMED_ITEM"
	CheckoutSellerMismatch = "SELLER_MISMATCH"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "STORE_ERROR" // store-level I/O failure; caller may retry
)
