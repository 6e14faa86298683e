package errors

import "strings"

var messages = map[string]map[string]string{
	"en": {
		"INVALID_CAPTURE_REQUEST":      "invalid capture request",
		"ORDER_NOT_FOUND":              "order not found",
		"UNAUTHENTICATED":              "a valid bearer token is required",
		"PERMISSION_DENIED":            "you are not allowed to perform this action on this order",
		"ORDER_CAPTURE_IN_PROGRESS":    "another capture is already running for this order",
		"ORDER_VERSION_CONFLICT":       "the order was modified by another request; reload and retry",
		"IDEMPOTENCY_KEY_MISSING":      "X-Idempotency-Key header is required",
		"IDEMPOTENCY_KEY_TOO_LONG":     "X-Idempotency-Key must be at most 64 characters",
		"IDEMPOTENCY_KEY_CONFLICT":     "idempotency key already used with different request payload",
		"IDEMPOTENCY_KEY_NOT_FOUND":    "idempotency key not found",
		"CAPTURE_PROCESSING":           "a capture with this idempotency key is currently being processed",
		"INCONSISTENT_CAPTURE_OUTCOME": "capture outcome does not match any payment on the order",
		"INTERNAL_ERROR":               "an internal error occurred",
	},
	"es": {
		"INVALID_CAPTURE_REQUEST":      "solicitud de captura invalida",
		"ORDER_NOT_FOUND":              "orden no encontrada",
		"UNAUTHENTICATED":              "se requiere un token bearer valido",
		"PERMISSION_DENIED":            "no tiene permiso para realizar esta accion sobre esta orden",
		"ORDER_CAPTURE_IN_PROGRESS":    "ya hay una captura en curso para esta orden",
		"ORDER_VERSION_CONFLICT":       "la orden fue modificada por otra solicitud; recargue e intente de nuevo",
		"IDEMPOTENCY_KEY_MISSING":      "el encabezado X-Idempotency-Key es obligatorio",
		"IDEMPOTENCY_KEY_TOO_LONG":     "X-Idempotency-Key debe tener como maximo 64 caracteres",
		"IDEMPOTENCY_KEY_CONFLICT":     "la clave de idempotencia ya fue utilizada con un payload diferente",
		"IDEMPOTENCY_KEY_NOT_FOUND":    "clave de idempotencia no encontrada",
		"CAPTURE_PROCESSING":           "una captura con esta clave de idempotencia esta siendo procesada actualmente",
		"INCONSISTENT_CAPTURE_OUTCOME": "el resultado de la captura no corresponde a ningun pago de la orden",
		"INTERNAL_ERROR":               "ocurrio un error interno",
	},
}

func GetMessage(code string, lang string) string {
	base := strings.SplitN(lang, "-", 2)[0]
	base = strings.TrimSpace(strings.ToLower(base))

	if langMessages, ok := messages[base]; ok {
		if msg, ok := langMessages[code]; ok {
			return msg
		}
	}

	if base != "en" {
		if enMessages, ok := messages["en"]; ok {
			if msg, ok := enMessages[code]; ok {
				return msg
			}
		}
	}

	return code
}

func Localize(err *AppError, lang string) *AppError {
	return &AppError{
		Code:     err.Code,
		Message:  withDetail(GetMessage(err.Code, lang), err.detail),
		HTTPCode: err.HTTPCode,
		detail:   err.detail,
	}
}
