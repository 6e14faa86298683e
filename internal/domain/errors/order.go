package errors

import "net/http"

func ErrInvalidCaptureRequest(detail string) *AppError {
	return newAppError("INVALID_CAPTURE_REQUEST", http.StatusBadRequest, detail)
}

func ErrOrderNotFound() *AppError {
	return newAppError("ORDER_NOT_FOUND", http.StatusNotFound, "")
}

func ErrUnauthenticated() *AppError {
	return newAppError("UNAUTHENTICATED", http.StatusUnauthorized, "")
}

func ErrPermissionDenied() *AppError {
	return newAppError("PERMISSION_DENIED", http.StatusForbidden, "")
}

func ErrOrderCaptureInProgress() *AppError {
	return newAppError("ORDER_CAPTURE_IN_PROGRESS", http.StatusConflict, "")
}

func ErrOrderVersionConflict() *AppError {
	return newAppError("ORDER_VERSION_CONFLICT", http.StatusConflict, "")
}

func ErrIdempotencyKeyMissing() *AppError {
	return newAppError("IDEMPOTENCY_KEY_MISSING", http.StatusBadRequest, "")
}

func ErrIdempotencyKeyTooLong() *AppError {
	return newAppError("IDEMPOTENCY_KEY_TOO_LONG", http.StatusBadRequest, "")
}

func ErrIdempotencyKeyConflict() *AppError {
	return newAppError("IDEMPOTENCY_KEY_CONFLICT", http.StatusConflict, "")
}

func ErrIdempotencyKeyNotFound() *AppError {
	return newAppError("IDEMPOTENCY_KEY_NOT_FOUND", http.StatusNotFound, "")
}

func ErrCaptureProcessing() *AppError {
	return newAppError("CAPTURE_PROCESSING", http.StatusConflict, "")
}

// ErrInconsistentCaptureOutcome signals a broken invariant between dispatch and
// reconciliation; it is never a normal operational failure.
func ErrInconsistentCaptureOutcome(paymentID string) *AppError {
	return newAppError("INCONSISTENT_CAPTURE_OUTCOME", http.StatusInternalServerError, paymentID)
}

func ErrInternal() *AppError {
	return newAppError("INTERNAL_ERROR", http.StatusInternalServerError, "")
}
