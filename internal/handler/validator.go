package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/ChitDraw_Go/internal/domain"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	// Report fields by their JSON names so clients see the keys they sent
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("accesstoken", validateAccessToken)
	_ = v.RegisterValidation("displayname", validateDisplayName)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a user-friendly map
// This prevents leaking internal struct names and provides cleaner error messages
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	// Check if it's a validator.ValidationErrors
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "accesstoken":
			errs[field] = fmt.Sprintf("Must be a %d character access code", domain.AccessTokenLength)
		case "displayname":
			errs[field] = fmt.Sprintf("Must be 1 to %d characters", domain.MaxDisplayNameLength)
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s characters", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s characters", e.Param())
		case "excludesall":
			errs[field] = "Contains invalid characters"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// validateAccessToken accepts tokens the way participants type them:
// surrounding blanks and lower case are tolerated.
func validateAccessToken(fl validator.FieldLevel) bool {
	token := strings.ToUpper(strings.TrimSpace(fl.Field().String()))
	if len(token) != domain.AccessTokenLength {
		return false
	}
	for _, c := range token {
		if !strings.ContainsRune(domain.AccessTokenAlphabet, c) {
			return false
		}
	}
	return true
}

// validateDisplayName bounds the trimmed name in runes
func validateDisplayName(fl validator.FieldLevel) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(fl.Field().String()))
	return n >= 1 && n <= domain.MaxDisplayNameLength
}
