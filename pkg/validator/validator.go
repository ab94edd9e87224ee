// Package validator wraps go-playground/validator and converts tag
// failures into per-field messages suitable for inline display.
package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var global *validator.Validate

const (
	msgRequired      = "this field is required"
	msgInvalidChoice = "invalid choice"
	msgTooSmall      = "value is below the minimum"
	msgTooLarge      = "value exceeds the maximum"
	msgMustAgree     = "consent is required"
	msgInvalidURL    = "must be a valid URL"
	msgUnknown       = "invalid value"
)

func init() {
	SetValidator(New())
}

// New builds a Validate instance that reports fields by their json tag
// name so error keys match the request payload.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// SetValidator replaces the package-level instance, mainly for tests.
func SetValidator(v *validator.Validate) { global = v }

// Validator returns the package-level instance.
func Validator() *validator.Validate { return global }

// Validate checks the struct's validate tags and returns a field->message
// map, or nil when everything passes.
func Validate(s interface{}) map[string]string {
	err := global.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": msgUnknown}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, exists := fields[fe.Field()]; exists {
			continue
		}
		fields[fe.Field()] = message(fe)
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "oneof":
		return msgInvalidChoice + ": must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.String {
			return "at least " + fe.Param() + " required"
		}
		return msgTooSmall + " of " + fe.Param()
	case "max":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.String {
			return "at most " + fe.Param() + " allowed"
		}
		return msgTooLarge + " of " + fe.Param()
	case "eq":
		if fe.Kind() == reflect.Bool {
			return msgMustAgree
		}
		return msgUnknown
	case "url":
		return msgInvalidURL
	case "gte":
		return msgTooSmall + " of " + fe.Param()
	case "lte":
		return msgTooLarge + " of " + fe.Param()
	default:
		return msgUnknown
	}
}
