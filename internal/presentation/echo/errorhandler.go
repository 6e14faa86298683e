package echo

import (
	"errors"
	"net/http"
	"strings"

	echofw "github.com/labstack/echo/v4"
	apperrors "github.com/mirola777/order-capture-service/internal/domain/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func CustomHTTPErrorHandler(err error, c echofw.Context) {
	if c.Response().Committed {
		return
	}

	lang := parseAcceptLanguage(c.Request().Header.Get("Accept-Language"))

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		localized := appErr.Localize(lang)
		_ = c.JSON(localized.HTTPCode, errorBody{Code: localized.Code, Message: localized.Message})
		return
	}

	var echoErr *echofw.HTTPError
	if errors.As(err, &echoErr) {
		_ = c.JSON(echoErr.Code, errorBody{Code: "HTTP_ERROR", Message: http.StatusText(echoErr.Code)})
		return
	}

	internal := apperrors.ErrInternal().Localize(lang)
	_ = c.JSON(http.StatusInternalServerError, errorBody{Code: internal.Code, Message: internal.Message})
}

func parseAcceptLanguage(header string) string {
	if header == "" {
		return "en"
	}
	lang, _, _ := strings.Cut(header, ",")
	lang, _, _ = strings.Cut(strings.TrimSpace(lang), ";")
	if lang == "" {
		return "en"
	}
	return lang
}
