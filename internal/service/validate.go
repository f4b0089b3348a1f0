package service

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/swapshop/marketplace-service/internal/domain/apperr"
)

var validate = validator.New()

// checkStruct runs the declared validation tags over a request struct and
// converts failures into a ValidationError with per-field details.
func checkStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		name := lowerFirst(fe.Field())
		fields[name] = append(fields[name], describeFailure(fe))
	}
	return apperr.NewValidationError("failed to validate request", fields)
}

func describeFailure(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
