// Package validation configures go-playground/validator for request DTOs and
// turns its errors into apperrors.ValidationError.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/simonbravin/bloqer/internal/apperrors"
)

// TagName is the struct tag holding the rules, shared with gin's binding.
const TagName = "binding"

// New returns a standalone validator configured like gin's.
func New() *validator.Validate {
	v := validator.New()
	v.SetTagName(TagName)
	Configure(v)
	return v
}

// Configure teaches v to compare decimals numerically and to report fields
// by their JSON names.
func Configure(v *validator.Validate) {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	v.RegisterTagNameFunc(jsonFieldName)
}

// ConfigureGin applies Configure to gin's default binding validator.
func ConfigureGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	Configure(v)
	return nil
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// Struct validates s with v and translates the failure.
func Struct(v *validator.Validate, s any) error {
	return Translate(v.Struct(s))
}

// Translate converts a binding or validation failure into a
// *apperrors.ValidationError keyed by JSON field path. Decoding failures are
// reported on "body".
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = message(fe)
		}
		return &apperrors.ValidationError{Fields: fields}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return apperrors.NewValidationError(field, fmt.Sprintf("must be of type %s", typeErr.Type))
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return apperrors.NewValidationError("body", "malformed JSON")
	default:
		// e.g. a decimal that does not parse
		return apperrors.NewValidationError("body", err.Error())
	}
}

// fieldPath drops the struct name from the namespace: "Req.resources[0].name"
// becomes "resources[0].name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " characters or items"
	case "max":
		return "must have at most " + fe.Param() + " characters or items"
	default:
		return "failed the " + fe.Tag() + " rule"
	}
}
