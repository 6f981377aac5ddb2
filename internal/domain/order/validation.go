package order

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	onceValidate sync.Once
)

func getValidator() *validator.Validate {
	onceValidate.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("orderdate", func(fl validator.FieldLevel) bool {
			t, ok := fl.Field().Interface().(time.Time)
			return ok && !t.IsZero() && !t.Before(MinOrderDate) && !t.After(MaxOrderDate)
		})
		validate = v
	})
	return validate
}

// Validate checks an order request against the field rules.
// A nil request fails with ErrNullRequest before any field check;
// field violations are all reported in a *ValidationError.
func Validate(req *Request) error {
	if req == nil {
		return ErrNullRequest
	}

	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate order request: %w", err)
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fieldMessage(fe.Field(), fe.Tag()),
		})
	}
	return &ValidationError{Fields: fields}
}

// requestFields maps Request JSON keys to field names
var requestFields = map[string]string{
	"stock_symbol":           "StockSymbol",
	"stock_name":             "StockName",
	"date_and_time_of_order": "DateAndTimeOfOrder",
	"quantity":               "Quantity",
	"price":                  "Price",
}

// DecodeError reports a JSON value of the wrong type for a request field
// as a failure of that field. It returns nil for keys outside Request.
func DecodeError(jsonField string) *ValidationError {
	field, ok := requestFields[jsonField]
	if !ok {
		return nil
	}
	return &ValidationError{Fields: []FieldError{{
		Field:   field,
		Tag:     "type",
		Message: fieldMessage(field, "type"),
	}}}
}

func fieldMessage(field, tag string) string {
	switch field {
	case "StockSymbol":
		return "Stock symbol can't be blank"
	case "StockName":
		return "Stock name can't be blank"
	case "DateAndTimeOfOrder":
		return fmt.Sprintf("Order date should be between %s and %s",
			MinOrderDate.Format("2006-01-02"), MaxOrderDate.Format("2006-01-02"))
	case "Quantity":
		return fmt.Sprintf("Quantity should be between %d and %d", MinQuantity, MaxQuantity)
	case "Price":
		return fmt.Sprintf("Price should be greater than 0 and at most %.0f", MaxPrice)
	}
	return fmt.Sprintf("failed on the '%s' rule", tag)
}
