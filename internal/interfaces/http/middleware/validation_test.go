package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/foodorder/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleValidationError(t *testing.T) {
	type cardRequest struct {
		CardNumber string `json:"cardNumber" binding:"required,len=16,numeric"`
		ExpiryDate string `json:"expiryDate" binding:"required,card_expiry"`
		Quantity   int    `json:"quantity" binding:"required,min=1"`
		Country    string `json:"country" binding:"omitempty,country"`
		Role       string `json:"role" binding:"omitempty,role"`
	}

	SetupValidator()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req cardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	do := func(body string) (*httptest.ResponseRecorder, dto.Response) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return w, resp
	}

	t.Run("field errors use json names", func(t *testing.T) {
		w, resp := do(`{"cardNumber":"1234","expiryDate":"13/29","quantity":0,"country":"india","role":"OWNER"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Must be exactly 16 characters", fields["cardNumber"])
		assert.Equal(t, "Must be a MM/YY date", fields["expiryDate"])
		assert.Contains(t, fields, "quantity")
		assert.Equal(t, "Must be one of: INDIA AMERICA", fields["country"])
		assert.Equal(t, "Must be one of: ADMIN MANAGER MEMBER", fields["role"])
	})

	t.Run("malformed json", func(t *testing.T) {
		w, resp := do(`{"cardNumber":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	})

	t.Run("valid", func(t *testing.T) {
		w, _ := do(`{"cardNumber":"4111111111111111","expiryDate":"09/29","quantity":2,"country":"AMERICA","role":"MANAGER"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestFieldName(t *testing.T) {
	type sample struct {
		A string `json:"alpha,omitempty"`
		B string `form:"beta"`
		C string `json:"-"`
		D string
	}
	typ := reflect.TypeOf(sample{})
	assert.Equal(t, "alpha", fieldName(typ.Field(0)))
	assert.Equal(t, "beta", fieldName(typ.Field(1)))
	assert.Empty(t, fieldName(typ.Field(2)))
	assert.Equal(t, "D", fieldName(typ.Field(3)))
}
