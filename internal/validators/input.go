package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/consultapp/internal/httperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// decimal.Decimal is validated as its float value (gt=0, lte=100...).
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})

	return v
}

// ValidationError lists the offending fields and unwraps to the
// invalid_input business error.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return httperr.ErrBusiness("invalid_input")
}

// Cents rejects money values with more than two decimal places; the
// columns are numeric(12,2). Trailing zeros are fine.
func Cents(field string, d decimal.Decimal) error {
	if d.Equal(d.Round(2)) {
		return nil
	}
	return &ValidationError{Fields: []string{field + "(cents)"}}
}

// Struct validates a use-case input against its `validate` tags.
func Struct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
	}
	return &ValidationError{Fields: fields}
}
