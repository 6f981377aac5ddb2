package order

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *Request {
	return &Request{
		StockSymbol:        "MSFT",
		StockName:          "Microsoft",
		DateAndTimeOfOrder: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Quantity:           3,
		Price:              80,
	}
}

func TestValidate_NilRequest(t *testing.T) {
	err := Validate(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNullRequest))
	assert.False(t, errors.Is(err, ErrValidation))
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, Validate(validRequest()))
}

func TestValidate_FieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
		field  string
		ok     bool
	}{
		{"empty symbol", func(r *Request) { r.StockSymbol = "" }, "StockSymbol", false},
		{"blank symbol", func(r *Request) { r.StockSymbol = "   " }, "StockSymbol", false},
		{"empty name", func(r *Request) { r.StockName = "" }, "StockName", false},
		{"quantity zero", func(r *Request) { r.Quantity = 0 }, "Quantity", false},
		{"quantity min", func(r *Request) { r.Quantity = 1 }, "", true},
		{"quantity max", func(r *Request) { r.Quantity = 100000 }, "", true},
		{"quantity over max", func(r *Request) { r.Quantity = 100001 }, "Quantity", false},
		{"quantity negative", func(r *Request) { r.Quantity = -1 }, "Quantity", false},
		{"quantity past uint32", func(r *Request) { r.Quantity = 5000000000 }, "Quantity", false},
		{"price zero", func(r *Request) { r.Price = 0 }, "Price", false},
		{"price negative", func(r *Request) { r.Price = -1 }, "Price", false},
		{"price tiny", func(r *Request) { r.Price = 0.01 }, "", true},
		{"price max", func(r *Request) { r.Price = 100000 }, "", true},
		{"price over max", func(r *Request) { r.Price = 100000.01 }, "Price", false},
		{"zero date", func(r *Request) { r.DateAndTimeOfOrder = time.Time{} }, "DateAndTimeOfOrder", false},
		{"date before floor", func(r *Request) {
			r.DateAndTimeOfOrder = time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC)
		}, "DateAndTimeOfOrder", false},
		{"date at floor", func(r *Request) { r.DateAndTimeOfOrder = MinOrderDate }, "", true},
		{"date at ceiling", func(r *Request) { r.DateAndTimeOfOrder = MaxOrderDate }, "", true},
		{"date past ceiling", func(r *Request) {
			r.DateAndTimeOfOrder = time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)
		}, "DateAndTimeOfOrder", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)

			err := Validate(req)
			if tc.ok {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.True(t, verr.HasField(tc.field), "expected %s in %v", tc.field, verr.Fields)
			assert.Len(t, verr.Fields, 1)
		})
	}
}

func TestValidate_ReportsAllFieldsInOrder(t *testing.T) {
	err := Validate(&Request{})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	var fields []string
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
		assert.NotEmpty(t, f.Message)
	}
	assert.Equal(t, []string{"StockSymbol", "StockName", "DateAndTimeOfOrder", "Quantity", "Price"}, fields)

	// same input, same report
	again := Validate(&Request{})
	assert.Equal(t, err.Error(), again.Error())
}
