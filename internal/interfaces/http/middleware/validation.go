package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	cardExpiryRegex = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	setupValidator  sync.Once
)

// customValidations are the domain tags request structs may use
var customValidations = map[string]validator.Func{
	"card_expiry": func(fl validator.FieldLevel) bool {
		return cardExpiryRegex.MatchString(fl.Field().String())
	},
	"country": func(fl validator.FieldLevel) bool {
		return access.Country(fl.Field().String()).IsValid()
	},
	"role": func(fl validator.FieldLevel) bool {
		return access.Role(fl.Field().String()).IsValid()
	},
}

// SetupValidator configures gin's validator once per process. Errors name
// fields by their json (or form) tag, and the card_expiry, country and role
// tags become available.
func SetupValidator() {
	setupValidator.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		for tag, fn := range customValidations {
			if err := v.RegisterValidation(tag, fn); err != nil {
				panic(fmt.Sprintf("register %s validation: %v", tag, err))
			}
		}
	})
}

func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// FormatValidationErrors turns a bind error into the error envelope. Field
// errors become ERR_VALIDATION details; anything else is a malformed body.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, "Invalid request body", requestID)
	}

	details := make([]dto.ValidationDetail, len(fieldErrs))
	for i, fe := range fieldErrs {
		details[i] = dto.ValidationDetail{Field: fe.Field(), Message: validationMessage(fe)}
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError writes a 400 for a failed bind
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, c.GetString(RequestIDContextKey)))
}

var validationMessages = map[string]func(fe validator.FieldError) string{
	"required": func(validator.FieldError) string { return "This field is required" },
	"email":    func(validator.FieldError) string { return "Invalid email format" },
	"uuid":     func(validator.FieldError) string { return "Invalid UUID format" },
	"numeric":  func(validator.FieldError) string { return "Must be numeric" },
	"min":      func(fe validator.FieldError) string { return bound("at least", fe) },
	"max":      func(fe validator.FieldError) string { return bound("at most", fe) },
	"len": func(fe validator.FieldError) string {
		return "Must be exactly " + fe.Param() + " characters"
	},
	"oneof": func(fe validator.FieldError) string {
		return "Must be one of: " + fe.Param()
	},
	"card_expiry": func(validator.FieldError) string { return "Must be a MM/YY date" },
	"country": func(validator.FieldError) string {
		return "Must be one of: " + joinValues(access.AllCountries)
	},
	"role": func(validator.FieldError) string {
		return "Must be one of: " + joinValues(access.AllRoles)
	},
}

func validationMessage(fe validator.FieldError) string {
	if msg, ok := validationMessages[fe.Tag()]; ok {
		return msg(fe)
	}
	return "Invalid value"
}

func bound(word string, fe validator.FieldError) string {
	if fe.Kind() == reflect.String {
		return "Must be " + word + " " + fe.Param() + " characters"
	}
	return "Must be " + word + " " + fe.Param()
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, " ")
}
