// internal/app/system/inputval/inputval.go

// Package inputval wraps go-playground/validator behind a small result
// type so handlers can surface the first problem as a plain message.
package inputval

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Prefer the `label` tag for human-readable field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	return v
}

// Result collects validation failures for one input struct.
type Result struct {
	errs []string
}

// HasErrors reports whether any rule failed.
func (r Result) HasErrors() bool { return len(r.errs) > 0 }

// First returns the first failure message, or "".
func (r Result) First() string {
	if len(r.errs) == 0 {
		return ""
	}
	return r.errs[0]
}

// All returns every failure message.
func (r Result) All() []string { return r.errs }

// Validate runs struct-tag rules (`validate:"required,max=200"` etc.)
// against input and renders each failure as a short sentence.
func Validate(input any) Result {
	var res Result
	err := validate.Struct(input)
	if err == nil {
		return res
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.errs = append(res.errs, "invalid input")
		return res
	}

	for _, fe := range verrs {
		res.errs = append(res.errs, message(fe))
	}
	return res
}

func message(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", name)
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}
