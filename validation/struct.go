package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/go-playground/validator/v10"

	"github.com/unitrack/unitrack/errors"
)

// DateLayout is the calendar-date format the API accepts.
const DateLayout = "2006-01-02"

var (
	validate *validator.Validate
	once     sync.Once

	tickerPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.\-:]{0,14}$`)
)

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		mustRegister("ticker", func(fl validator.FieldLevel) bool {
			return tickerPattern.MatchString(fl.Field().String())
		})
		mustRegister("isodate", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(DateLayout, fl.Field().String())
			return err == nil
		})
		mustRegister("currency", func(fl validator.FieldLevel) bool {
			return money.GetCurrency(strings.ToUpper(fl.Field().String())) != nil
		})
	})
	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// Struct validates s against its `validate` tags. Field names in the result
// are the json names.
func Struct(s any) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Validation("validation failed").WithCause(err)
	}

	v := New()
	for _, fe := range verrs {
		v.AddError(fe.Field(), describe(fe))
	}
	return v.Err()
}

// Var validates a single value against a tag expression, reporting it under
// field.
func Var(field string, value any, tag string) error {
	err := engine().Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Validation("validation failed").WithCause(err)
	}
	v := New()
	for _, fe := range verrs {
		v.AddError(field, describe(fe))
	}
	return v.Err()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be " + fe.Param() + " or more"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "url":
		return "must be a valid URL"
	case "ticker":
		return "must be a ticker symbol"
	case "isodate":
		return "must be a date in YYYY-MM-DD form"
	case "currency":
		return "must be an ISO 4217 currency code"
	default:
		return "is invalid"
	}
}
