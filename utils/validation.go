package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const passwordSpecialChars = "!@#$%^&*"

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules used by request structs.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("specialchar", func(fl validator.FieldLevel) bool {
			return strings.ContainsAny(fl.Field().String(), passwordSpecialChars)
		})
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
}

// BindError turns a gin binding failure into a ValidationFailed error carrying field errors.
func BindError(err error) *AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   fe.Field(),
				Message: fieldMessage(fe),
				Value:   fe.Value(),
			})
		}
		return ValidationFailed(fields...)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return ValidationFailed(FieldError{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type),
		})
	}

	return ValidationFailed(FieldError{Field: "body", Message: "Request body is not valid JSON"})
}

func fieldMessage(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s field is required", label)
	case "email":
		return "Please enter a valid email"
	case "min":
		return fmt.Sprintf("%s field must be at least %s characters long", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, fe.Param())
	case "specialchar":
		return "Password must contain at least one special character"
	default:
		return fmt.Sprintf("%s is not valid", label)
	}
}
