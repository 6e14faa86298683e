package errors

import "fmt"

type AppError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	HTTPCode int    `json:"-"`
	detail   string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Localize returns a copy of the error with its message in lang.
func (e *AppError) Localize(lang string) *AppError {
	return Localize(e, lang)
}

func New(code string, httpCode int, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

func newAppError(code string, httpCode int, detail string) *AppError {
	err := New(code, httpCode, withDetail(GetMessage(code, "en"), detail))
	err.detail = detail
	return err
}

func withDetail(msg, detail string) string {
	if detail == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", msg, detail)
}
