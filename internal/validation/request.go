package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "attendancify/internal/errors"
)

// ReconcileRequest is the validated form of a reconcile upload
type ReconcileRequest struct {
	OutputFormat string   `json:"output_format" validate:"omitempty,oneof=xlsx csv"`
	RosterFiles  []string `json:"roster_files" validate:"min=1,dive,required"`
	RawFiles     []string `json:"raw_files" validate:"min=1,dive,required"`
}

// ExtractRequest is the validated form of an extract upload
type ExtractRequest struct {
	ExcelFiles []string `json:"excel_files" validate:"min=1,dive,required"`
}

// RequestValidator validates request structs with go-playground/validator
// and reports failures as API validation errors keyed by JSON field name.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a request validator
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// ValidateStruct validates s and returns an *apperrors.APIError listing every
// failing field.
func (rv *RequestValidator) ValidateStruct(s interface{}) error {
	err := rv.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make([]apperrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apperrors.ValidationError{
			Field:   fe.Field(),
			Message: formatFieldError(fe),
		})
	}
	return apperrors.NewValidationErrors(out)
}

func formatFieldError(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("at least %s %s file(s) must be uploaded", param, field)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
