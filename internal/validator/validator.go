package validator

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// maxPlanIDLength bounds plan ids accepted from requests. Whether an id
// exists is decided by the catalog, not here.
const maxPlanIDLength = 64

var (
	validate *validator.Validate
	once     sync.Once
)

// NewValidator returns the shared validator. Field errors are reported under
// their json names and the plan_id tag rejects blank or oversized ids.
func NewValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
		if err := validate.RegisterValidation("plan_id", validPlanID); err != nil {
			panic(fmt.Sprintf("register plan_id validation: %v", err))
		}
	})
	return validate
}

func validPlanID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	return strings.TrimSpace(id) != "" && utf8.RuneCountInString(id) <= maxPlanIDLength
}

func GetValidator() *validator.Validate {
	return NewValidator()
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// ValidateRequest validates req and returns an ErrValidation error whose details
// hold one message per failing field
func ValidateRequest(req interface{}) error {
	err := GetValidator().Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !ierr.As(err, &fieldErrs) {
		return ierr.WithError(err).
			WithHint("Request validation failed").
			Mark(ierr.ErrValidation)
	}

	details := lo.SliceToMap(fieldErrs, func(fe validator.FieldError) (string, any) {
		return fe.Field(), fieldMessage(fe)
	})

	hint := "Request validation failed"
	if len(fieldErrs) == 1 {
		hint = fieldMessage(fieldErrs[0])
	}

	return ierr.WithError(err).
		WithHint(hint).
		WithReportableDetails(details).
		Mark(ierr.ErrValidation)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "plan_id":
		return fmt.Sprintf("%s must be a non-blank plan id of at most %d characters", fe.Field(), maxPlanIDLength)
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid (" + fe.Tag() + ")"
	}
}
