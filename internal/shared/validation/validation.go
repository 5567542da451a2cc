// Package validation runs field-level rules over inbound request shapes and reports the outcome as
// an immutable Result.
package validation

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Result is the outcome of one validation pass: a field → message mapping. The zero value is a
// passing result. Results are never mutated; With returns a new value.
type Result struct {
	fields map[string]string
}

// Valid reports whether no rule failed.
func (r Result) Valid() bool {
	return len(r.fields) == 0
}

// Fields returns a copy of the failing fields and their messages.
func (r Result) Fields() map[string]string {
	if len(r.fields) == 0 {
		return map[string]string{}
	}
	return maps.Clone(r.fields)
}

// Message returns the message recorded for field.
func (r Result) Message(field string) (string, bool) {
	msg, ok := r.fields[field]
	return msg, ok
}

// With returns a new Result that also records field → message. The first message recorded for a
// field wins.
func (r Result) With(field, message string) Result {
	if _, exists := r.fields[field]; exists {
		return r
	}
	fields := make(map[string]string, len(r.fields)+1)
	maps.Copy(fields, r.fields)
	fields[field] = message
	return Result{fields: fields}
}

// Merge combines two results, keeping r's messages on conflicts.
func (r Result) Merge(other Result) Result {
	merged := r
	for field, msg := range other.fields {
		merged = merged.With(field, msg)
	}
	return merged
}

// Validator applies `validate` struct tags. Field names in results follow the json or form tag.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("validation: register notblank: %v", err))
	}
	return &Validator{validate: v}
}

var defaultValidator = New()

// Validate checks target with the package default Validator.
func Validate(target any) Result {
	return defaultValidator.Validate(target)
}

// Validate checks target's `validate` tags and converts failures into a Result.
func (v *Validator) Validate(target any) Result {
	err := v.validate.Struct(target)
	if err == nil {
		return Result{}
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return Result{}.With("request", invalid.Error())
	}
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return Result{}.With("request", err.Error())
	}
	result := Result{}
	for _, failure := range failures {
		result = result.With(fieldPath(failure), message(failure))
	}
	return result
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		if isCollection(fe.Kind()) {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max":
		if isCollection(fe.Kind()) {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "printascii":
		return "must contain printable ASCII characters only"
	default:
		return fmt.Sprintf("failed the %q rule", fe.Tag())
	}
}

func isCollection(kind reflect.Kind) bool {
	return kind == reflect.Slice || kind == reflect.Array || kind == reflect.Map
}

func fieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}
