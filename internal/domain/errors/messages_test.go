package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMessageReturnsEnglishMessage(t *testing.T) {
	msg := GetMessage("IDEMPOTENCY_KEY_MISSING", "en")

	assert.Equal(t, "X-Idempotency-Key header is required", msg)
}

func TestGetMessageReturnsSpanishMessage(t *testing.T) {
	msg := GetMessage("IDEMPOTENCY_KEY_MISSING", "es")

	assert.Equal(t, "el encabezado X-Idempotency-Key es obligatorio", msg)
}

func TestGetMessageFallsBackToEnglishForUnknownLanguage(t *testing.T) {
	msg := GetMessage("ORDER_NOT_FOUND", "fr")

	assert.Equal(t, "order not found", msg)
}

func TestGetMessageExtractsBaseLanguageFromLocale(t *testing.T) {
	msg := GetMessage("ORDER_NOT_FOUND", "es-CO")

	assert.Equal(t, "orden no encontrada", msg)
}

func TestGetMessageReturnsCodeForUnknownCode(t *testing.T) {
	msg := GetMessage("UNKNOWN_ERROR_CODE", "en")

	assert.Equal(t, "UNKNOWN_ERROR_CODE", msg)
}

func TestLocalizeReturnsCopyWithLocalizedMessage(t *testing.T) {
	original := New("ORDER_NOT_FOUND", http.StatusNotFound, messages["en"]["ORDER_NOT_FOUND"])

	localized := Localize(original, "es")

	assert.Equal(t, "ORDER_NOT_FOUND", localized.Code)
	assert.Equal(t, http.StatusNotFound, localized.HTTPCode)
	assert.Equal(t, "orden no encontrada", localized.Message)
	assert.Equal(t, "order not found", original.Message)
}

func TestEveryEnglishCodeHasSpanishTranslation(t *testing.T) {
	for code := range messages["en"] {
		_, ok := messages["es"][code]
		assert.True(t, ok, "missing spanish message for %s", code)
	}
}
