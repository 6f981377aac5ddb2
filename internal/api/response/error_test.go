package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/stockapp/internal/domain/market"
	"github.com/wonny/stockapp/internal/domain/order"
)

func TestFromError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", &order.ValidationError{Fields: []order.FieldError{{Field: "Quantity", Tag: "min", Message: "bad"}}}, http.StatusBadRequest, ErrCodeValidation},
		{"null request", order.ErrNullRequest, http.StatusBadRequest, ErrCodeInvalidParameter},
		{"invalid symbol", fmt.Errorf("%w: %q", market.ErrInvalidSymbol, "!!"), http.StatusBadRequest, ErrCodeInvalidParameter},
		{"provider", &market.ProviderError{Op: "get quote", Symbol: "MSFT", Err: errors.New("down")}, http.StatusBadGateway, ErrCodeExternalAPIError},
		{"provider timeout", &market.ProviderError{Op: "get quote", Symbol: "MSFT", Err: context.DeadlineExceeded}, http.StatusGatewayTimeout, ErrCodeExternalAPITimeout},
		{"store", &order.StoreError{Op: "add", Side: order.SideBuy, Symbol: "MSFT", Err: errors.New("down")}, http.StatusInternalServerError, ErrCodeDatabaseError},
		{"other", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
			if tt.code == ErrCodeValidation {
				require.Len(t, body.Error.Fields, 1)
				assert.Equal(t, "Quantity", body.Error.Fields[0].Field)
			}
		})
	}
}
