package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports rejected user input. Nothing is changed when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// fromValidator converts the first failed validator rule.
func fromValidator(err error) *ValidationError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return &ValidationError{Reason: err.Error()}
	}

	fe := errs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "gt":
		reason = "must be greater than " + fe.Param()
	case "datetime":
		reason = "must be a date formatted as YYYY-MM-DD"
	default:
		reason = "failed the " + fe.Tag() + " rule"
	}
	return &ValidationError{Field: field, Reason: reason}
}
