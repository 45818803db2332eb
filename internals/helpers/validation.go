package helper

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var reHHMM = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Validate is the shared validator. Field names in errors follow json tags.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// "HH:MM" 24h
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return reHHMM.MatchString(fl.Field().String())
	})
	return v
}

// ValidationErrors flattens validator errors into field → messages.
func ValidationErrors(err error) map[string][]string {
	out := map[string][]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], describe(fe))
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "ltefield":
		return "must not exceed " + fe.Param()
	case "gtefield":
		return "must not be before " + fe.Param()
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	case "datetime":
		return "must match format " + fe.Param()
	case "hhmm":
		return "must be a time in HH:MM format"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid url"
	case "uuid":
		return "must be a valid uuid"
	default:
		return "failed on " + fe.Tag()
	}
}

// ValidateStruct runs the shared validator and writes a 422 on failure.
// Returns (handled, err): when handled is true the response is already written.
func ValidateStruct(c *fiber.Ctx, s any) (bool, error) {
	if err := Validate.Struct(s); err != nil {
		return true, JsonValidationError(c, ValidationErrors(err))
	}
	return false, nil
}
