package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks request structs annotated with `validate:"..."` tags and
// collects human readable messages keyed by the json field name.
type Validator struct {
	validate *validator.Validate
	Errors   map[string]string
}

var shared = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// New returns a Validator with an empty errors map.
func New() *Validator {
	return &Validator{
		validate: shared,
		Errors:   make(map[string]string),
	}
}

// Valid returns true if the errors map doesn't contain any entries.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error message to the map (so long as no entry already exists for the given key).
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check adds an error message to the map only if a validation check is not 'ok'.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Struct runs the tag based rules of s and records every failing field.
func (v *Validator) Struct(s any) {
	err := v.validate.Struct(s)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		v.AddError("body", err.Error())
		return
	}

	for _, fe := range fieldErrs {
		v.AddError(fe.Field(), message(fe))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must be provided"
	case "min":
		return fmt.Sprintf("must be at least %s bytes long", fe.Param())
	case "max":
		return fmt.Sprintf("must not be more than %s bytes long", fe.Param())
	case "printascii":
		return "must contain only printable ASCII characters"
	case "excludesall":
		return "contains forbidden characters"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
