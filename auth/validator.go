package auth

import (
	"fmt"
	"strings"
	"unicode"

	"chat-thread/errors"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// PasswordTag marks a field holding a new password, see RegisterCommand.
const PasswordTag = "complex_password"

// NewValidator returns the validator shared by the services. It knows the
// password rule under PasswordTag on top of the built in tags.
func NewValidator() *validator.Validate {
	validate := validator.New()
	// Only fails on an empty tag name or a nil func
	_ = validate.RegisterValidation(PasswordTag, func(fl validator.FieldLevel) bool {
		return isPasswordComplex(fl.Field().String())
	})
	return validate
}

// RegistrationError turns a failed RegisterCommand validation into
// ErrInvalidPassword when the password is at fault, ErrInvalidRegistration otherwise.
func RegistrationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && lo.ContainsBy(fieldErrors, func(fe validator.FieldError) bool {
		return fe.Field() == "Password"
	}) {
		return fmt.Errorf("%w: %s", errors.ErrInvalidPassword, Explain(err))
	}
	return fmt.Errorf("%w: %s", errors.ErrInvalidRegistration, Explain(err))
}

// Explain renders validation failures as "field rule" sentences joined by "; ".
func Explain(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}
	return strings.Join(lo.Map(fieldErrors, func(fe validator.FieldError, _ int) string {
		return strings.ToLower(fe.Field()) + " " + rule(fe)
	}), "; ")
}

func rule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s long", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s long", fe.Param())
	case "nefield":
		return "must differ from " + strings.ToLower(fe.Param())
	case PasswordTag:
		return "must mix upper and lower case letters, a digit and a symbol"
	}
	return "fails " + fe.Tag()
}

func isPasswordComplex(s string) bool {
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
