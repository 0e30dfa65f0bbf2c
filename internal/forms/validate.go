// Package forms defines the per-page form schemas and their local
// validation. A form that fails validation here never reaches the network;
// messages are keyed by the form field name so templates can render them
// next to the offending input.
package forms

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to its validation message.
type Errors map[string]string

// Has reports whether the named field carries an error.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Get returns the message for the named field or the empty string.
func (e Errors) Get(field string) string {
	return e[field]
}

var validate = newValidator()

// newValidator builds the shared validator. Field names in errors come from
// the `form` struct tag so they match the HTML input names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// check validates v and folds the result into Errors, keeping the first
// message per field.
func check(v any) Errors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{"": err.Error()}
	}

	out := Errors{}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

// message renders one field error the way the UI words it.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "eqfield":
		return "Passwords don't match"
	case "datetime":
		return "Enter a date as YYYY-MM-DD"
	default:
		return "Invalid value"
	}
}
