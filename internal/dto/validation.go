package dto

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidators teaches a validator instance about decimal.Decimal fields.
// Decimals are validated through their string form, so `required` only checks presence.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("decimal_gt0", decimalGreaterThanZero); err != nil {
		return err
	}
	return v.RegisterValidation("decimal_gte0", decimalNotNegative)
}

func decimalGreaterThanZero(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}

func decimalNotNegative(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && !d.IsNegative()
}
