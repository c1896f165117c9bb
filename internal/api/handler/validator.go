package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
)

// echoValidator plugs go-playground/validator into echo.
type echoValidator struct {
	v *validator.Validate
}

// NewValidator also registers the "password" rule of the registration form.
func NewValidator() *echoValidator {
	v := validator.New()
	if err := v.RegisterValidation("password", validPassword); err != nil {
		panic(fmt.Sprintf("validator: register password rule: %v", err))
	}
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Failures wrap
// domain.ErrInvalidInput.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// validPassword mirrors the registration form: an uppercase letter and a
// special character are required.
func validPassword(fl validator.FieldLevel) bool {
	var upper, special bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r):
			special = true
		}
	}
	return upper && special
}

// fieldError renders one failed rule as "<json field> <problem>".
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " is not an email address"
	case "url":
		return field + " is not a URL"
	case "min", "gte":
		return fmt.Sprintf("%s needs at least %s%s", field, fe.Param(), unit)
	case "max":
		return fmt.Sprintf("%s allows at most %s%s", field, fe.Param(), unit)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return fmt.Sprintf("%s is not a %s date", field, fe.Param())
	case "password":
		return field + " must contain an uppercase letter and a special character"
	}
	return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
}
