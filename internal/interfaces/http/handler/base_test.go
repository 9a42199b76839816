package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/foodorder/backend/internal/interfaces/http/dto"
	"github.com/foodorder/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestGetRequestID(t *testing.T) {
	t.Run("context value wins", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/")
		c.Request.Header.Set(middleware.RequestIDHeader, "from-header")
		c.Set(middleware.RequestIDContextKey, "from-context")
		assert.Equal(t, "from-context", getRequestID(c))
	})

	t.Run("falls back to header", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/")
		c.Request.Header.Set(middleware.RequestIDHeader, "from-header")
		assert.Equal(t, "from-header", getRequestID(c))
	})

	t.Run("empty", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/")
		assert.Empty(t, getRequestID(c))
	})
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", shared.NewNotFoundError("Order"), http.StatusNotFound, dto.ErrCodeNotFound, "Order not found"},
		{"forbidden", access.Deny(access.ReasonRoleDenied).Err(), http.StatusForbidden, dto.ErrCodeForbidden, "role not permitted for this operation"},
		{"invalid state", shared.NewInvalidStateError("order is not a cart"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, "order is not a cart"},
		{"already exists", shared.NewDomainError(shared.CodeAlreadyExists, "Email already registered"), http.StatusConflict, dto.ErrCodeAlreadyExists, "Email already registered"},
		{"field code", shared.NewDomainError("INVALID_PRICE", "Price must be positive"), http.StatusBadRequest, dto.ErrCodeInvalidField, "Price must be positive"},
		{"wrapped", fmt.Errorf("saving order: %w", shared.NewDomainError(shared.CodeConcurrencyConflict, "stale")), http.StatusConflict, dto.ErrCodeConcurrencyConflict, "stale"},
		{"unavailable", shared.NewDomainError(shared.CodeUnavailable, "Image storage is not configured"), http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "Image storage is not configured"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			h := &BaseHandler{logger: zap.New(core)}
			c, w := newTestContext(http.MethodGet, "/api/v1/orders")
			c.Set(middleware.RequestIDContextKey, "req-1")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			info := decodeErrorBody(t, w)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.Equal(t, tt.wantMsg, info.Message)
			assert.Equal(t, "req-1", info.RequestID)

			switch tt.wantStatus {
			case http.StatusInternalServerError:
				require.Equal(t, 1, logs.FilterMessage("Unhandled error").Len())
				assert.Equal(t, http.MethodGet, logs.All()[0].ContextMap()["method"])
				assert.NotContains(t, w.Body.String(), "connection reset")
			case http.StatusServiceUnavailable:
				assert.Equal(t, 1, logs.FilterMessage("Request failed").Len())
			default:
				assert.Zero(t, logs.Len())
			}
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newTestContext(http.MethodGet, "/")
		h.HandleError(c, nil)
		assert.Zero(t, w.Body.Len())
	})
}

func TestBaseHandler_PathID(t *testing.T) {
	h := &BaseHandler{}

	t.Run("valid", func(t *testing.T) {
		want := uuid.New()
		c, _ := newTestContext(http.MethodGet, "/")
		c.Params = gin.Params{{Key: "id", Value: want.String()}}
		got, ok := h.pathID(c, "id")
		assert.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("malformed", func(t *testing.T) {
		c, w := newTestContext(http.MethodGet, "/")
		c.Params = gin.Params{{Key: "itemId", Value: "42"}}
		_, ok := h.pathID(c, "itemId")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		info := decodeErrorBody(t, w)
		assert.Equal(t, dto.ErrCodeInvalidInput, info.Code)
		assert.Equal(t, "Invalid itemId format", info.Message)
	})
}

func TestBaseHandler_Principal(t *testing.T) {
	h := &BaseHandler{}

	t.Run("present", func(t *testing.T) {
		want := access.NewPrincipal(uuid.New(), access.RoleManager, access.CountryIndia)
		c, _ := newTestContext(http.MethodGet, "/")
		c.Set(middleware.PrincipalKey, want)
		got, ok := h.principal(c)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("missing", func(t *testing.T) {
		c, w := newTestContext(http.MethodGet, "/")
		_, ok := h.principal(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, decodeErrorBody(t, w).Code)
	})
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := NewHealthHandler(stubPinger{}, "foodorder-backend", "1.2.3")
		c, w := newTestContext(http.MethodGet, "/health")
		h.Health(c)

		require.Equal(t, http.StatusOK, w.Code)
		var resp APIResponse[HealthResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "healthy", resp.Data.Status)
		assert.Equal(t, "1.2.3", resp.Data.Version)
		assert.NotEmpty(t, resp.Data.GoVersion)
	})

	t.Run("database down", func(t *testing.T) {
		h := NewHealthHandler(stubPinger{err: errors.New("dial tcp: refused")}, "foodorder-backend", "1.2.3")
		c, w := newTestContext(http.MethodGet, "/health")
		h.Health(c)

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		var resp APIResponse[HealthResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "unhealthy", resp.Data.Status)
		assert.Equal(t, "error", resp.Data.Database)
	})
}

func TestBindHelpers(t *testing.T) {
	type body struct {
		Name string `json:"name" binding:"required"`
	}
	type query struct {
		Page int `form:"page" binding:"omitempty,max=100"`
	}
	h := &BaseHandler{logger: zap.NewNop()}

	t.Run("json ok", func(t *testing.T) {
		c, _ := newTestContext(http.MethodPost, "/")
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Dosa"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		got, ok := bindJSON[body](h, c)
		require.True(t, ok)
		assert.Equal(t, "Dosa", got.Name)
	})

	t.Run("json invalid", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/")
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		_, ok := bindJSON[body](h, c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("query", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/?page=2")
		got, ok := bindQuery[query](h, c)
		require.True(t, ok)
		assert.Equal(t, 2, got.Page)

		c, w := newTestContext(http.MethodGet, "/?page=500")
		_, ok = bindQuery[query](h, c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
