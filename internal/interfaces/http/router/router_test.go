package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)
	assert.Empty(t, r.Routes())

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	restaurants := NewDomainGroup("restaurants", "/restaurants")
	restaurants.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") })
	orders := NewDomainGroup("orders", "/orders")
	orders.POST("", func(c *gin.Context) { c.String(http.StatusCreated, "created") })

	r.Use(func(c *gin.Context) {
		c.Header("X-Api", "v1")
		c.Next()
	}).Register(restaurants, orders)
	assert.Len(t, r.registrars, 2)
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/v1/restaurants")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "list", w.Body.String())
	assert.Equal(t, "v1", w.Header().Get("X-Api"))

	w = serve(engine, http.MethodPost, "/api/v1/orders")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "v1", w.Header().Get("X-Api"))
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("orders", "/orders")
	g.GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })
	g.POST("/:id/items", func(c *gin.Context) { c.Status(http.StatusCreated) })
	g.PUT("/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	g.PATCH("/:id/status", func(c *gin.Context) { c.Status(http.StatusAccepted) })
	g.DELETE("/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	g.RegisterRoutes(engine.Group("/api/v1"))

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/orders/42", http.StatusOK},
		{http.MethodPost, "/api/v1/orders/42/items", http.StatusCreated},
		{http.MethodPut, "/api/v1/orders/42", http.StatusOK},
		{http.MethodPatch, "/api/v1/orders/42/status", http.StatusAccepted},
		{http.MethodDelete, "/api/v1/orders/42", http.StatusNoContent},
		{http.MethodGet, "/api/v1/orders/42/missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(engine, tt.method, tt.path).Code)
		})
	}
}

func TestDomainGroup_MiddlewareAndSubgroups(t *testing.T) {
	engine := gin.New()
	catalog := NewDomainGroup("catalog", "/catalog")
	catalog.Use(func(c *gin.Context) {
		c.Header("X-Catalog", "yes")
		c.Next()
	})
	catalog.Group("restaurants", "/restaurants").GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "restaurants")
	})
	catalog.Group("menu-items", "/menu-items").GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "menu items")
	})
	catalog.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, http.MethodGet, "/api/v1/catalog/restaurants")
	assert.Equal(t, "restaurants", w.Body.String())
	assert.Equal(t, "yes", w.Header().Get("X-Catalog"))

	w = serve(engine, http.MethodGet, "/api/v1/catalog/menu-items")
	assert.Equal(t, "menu items", w.Body.String())
	assert.Equal(t, "yes", w.Header().Get("X-Catalog"))

	assert.Equal(t, "catalog", catalog.Name())
	assert.Equal(t, "/catalog", catalog.Prefix())
	assert.ElementsMatch(t, []RouteInfo{
		{Method: http.MethodGet, Path: "/catalog/restaurants"},
		{Method: http.MethodGet, Path: "/catalog/menu-items"},
	}, catalog.Routes())
}

func TestDomainGroup_GuardedRoutes(t *testing.T) {
	var gated []access.Operation
	gate := func(op access.Operation) gin.HandlerFunc {
		return func(c *gin.Context) {
			gated = append(gated, op)
			if c.GetHeader("X-Role") != "ADMIN" {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
		}
	}

	engine := gin.New()
	orders := NewDomainGroup("orders", "/orders").WithGate(gate)
	orders.GET("/public", func(c *gin.Context) { c.Status(http.StatusOK) })
	orders.For(access.OpOrderUpdateStatus).PATCH("/:id/status", func(c *gin.Context) { c.Status(http.StatusOK) })
	orders.Group("items", "/:id/items").For(access.OpOrderAddItem).POST("", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	r := NewRouter(engine).Register(orders)
	r.Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/orders/public").Code)
	assert.Empty(t, gated)

	assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodPatch, "/api/v1/orders/7/status").Code)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/7/items", nil)
	req.Header.Set("X-Role", "ADMIN")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []access.Operation{access.OpOrderUpdateStatus, access.OpOrderAddItem}, gated)

	assert.Equal(t, []RouteInfo{
		{Method: http.MethodGet, Path: "/api/v1/orders/public"},
		{Method: http.MethodPatch, Path: "/api/v1/orders/:id/status", Operation: access.OpOrderUpdateStatus},
		{Method: http.MethodPost, Path: "/api/v1/orders/:id/items", Operation: access.OpOrderAddItem},
	}, r.Routes())
}

func TestDomainGroup_GuardedRouteWithoutGatePanics(t *testing.T) {
	g := NewDomainGroup("users", "/users")
	g.For(access.OpUserDelete).DELETE("/:id", func(c *gin.Context) {})

	assert.PanicsWithValue(t,
		`router: DELETE /api/v1/users/:id needs "user:delete" but group "users" has no gate`,
		func() { g.RegisterRoutes(gin.New().Group("/api/v1")) })
}
