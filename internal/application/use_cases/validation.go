package use_cases

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mirola777/order-capture-service/internal/domain"
	apperrors "github.com/mirola777/order-capture-service/internal/domain/errors"
)

const maxIdempotencyKeyLength = 64

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateCaptureInput(in domain.CaptureOrderPaymentsInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.ErrInvalidCaptureRequest(err.Error())
	}
	return apperrors.ErrInvalidCaptureRequest(describeFieldError(fieldErrs[0]))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if strings.Contains(fe.Namespace(), "[") {
			return fmt.Sprintf("%s must not contain empty values", strings.SplitN(fe.Field(), "[", 2)[0])
		}
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must contain at least %s item", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func validateIdempotencyKey(key string) error {
	if key == "" {
		return apperrors.ErrIdempotencyKeyMissing()
	}
	if len(key) > maxIdempotencyKeyLength {
		return apperrors.ErrIdempotencyKeyTooLong()
	}
	return nil
}
