package router

import (
	"fmt"
	"net/http"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts routes on a group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts registrars under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion sets the version segment of the API prefix
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a Router for engine, defaulting to v1
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use adds middleware applied to every route under the API prefix
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Register queues registrars for Setup
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// BasePath returns the versioned API prefix, e.g. /api/v1
func (r *Router) BasePath() string {
	return "/api/" + r.apiVersion
}

// Setup mounts every registered group on the engine
func (r *Router) Setup() {
	api := r.engine.Group(r.BasePath())
	api.Use(r.middleware...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Routes lists the routes of every registered DomainGroup with full paths
func (r *Router) Routes() []RouteInfo {
	var out []RouteInfo
	for _, registrar := range r.registrars {
		if dg, ok := registrar.(*DomainGroup); ok {
			out = append(out, dg.collect(r.BasePath())...)
		}
	}
	return out
}

// GateFunc builds the middleware that authorizes op
type GateFunc func(op access.Operation) gin.HandlerFunc

// DomainGroup collects the routes of one resource. Routes declared through
// For run behind the group's gate for their operation; the others are
// public. Subgroups inherit the gate unless they set their own.
type DomainGroup struct {
	name       string
	prefix     string
	gate       GateFunc
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	op       access.Operation
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a group mounted at prefix
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// WithGate sets the authorization middleware factory for guarded routes
func (dg *DomainGroup) WithGate(gate GateFunc) *DomainGroup {
	dg.gate = gate
	return dg
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// GET registers a public GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodGet, path, "", handlers)
}

// POST registers a public POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodPost, path, "", handlers)
}

// PUT registers a public PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodPut, path, "", handlers)
}

// PATCH registers a public PATCH route
func (dg *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodPatch, path, "", handlers)
}

// DELETE registers a public DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodDelete, path, "", handlers)
}

// For scopes the next route to op.
//
//	orders.For(access.OpOrderCheckout).POST("/:id/checkout", h.Checkout)
func (dg *DomainGroup) For(op access.Operation) GuardedRoutes {
	return GuardedRoutes{group: dg, op: op}
}

func (dg *DomainGroup) add(method, path string, op access.Operation, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, op: op, handlers: handlers})
	return dg
}

// Group creates a subgroup below this group's prefix
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar. It panics when a guarded route
// has no gate to run behind.
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	dg.register(rg, nil)
}

func (dg *DomainGroup) register(rg *gin.RouterGroup, inherited GateFunc) {
	gate := dg.gate
	if gate == nil {
		gate = inherited
	}

	group := rg.Group(dg.prefix)
	group.Use(dg.middleware...)

	for _, route := range dg.routes {
		handlers := route.handlers
		if route.op != "" {
			if gate == nil {
				panic(fmt.Sprintf("router: %s %s%s needs %q but group %q has no gate",
					route.method, group.BasePath(), route.path, route.op, dg.name))
			}
			handlers = append([]gin.HandlerFunc{gate(route.op)}, handlers...)
		}
		group.Handle(route.method, route.path, handlers...)
	}

	for _, subgroup := range dg.subgroups {
		subgroup.register(group, gate)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

// RouteInfo describes a declared route. Operation is empty for public routes.
type RouteInfo struct {
	Method    string
	Path      string
	Operation access.Operation
}

// Routes lists every route of the group and its subgroups, with paths
// relative to the API prefix
func (dg *DomainGroup) Routes() []RouteInfo {
	return dg.collect("")
}

func (dg *DomainGroup) collect(base string) []RouteInfo {
	prefix := base + dg.prefix
	out := make([]RouteInfo, 0, len(dg.routes))
	for _, route := range dg.routes {
		out = append(out, RouteInfo{Method: route.method, Path: prefix + route.path, Operation: route.op})
	}
	for _, sub := range dg.subgroups {
		out = append(out, sub.collect(prefix)...)
	}
	return out
}

// GuardedRoutes registers routes that require one operation
type GuardedRoutes struct {
	group *DomainGroup
	op    access.Operation
}

// GET registers a guarded GET route
func (g GuardedRoutes) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.group.add(http.MethodGet, path, g.op, handlers)
}

// POST registers a guarded POST route
func (g GuardedRoutes) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.group.add(http.MethodPost, path, g.op, handlers)
}

// PUT registers a guarded PUT route
func (g GuardedRoutes) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.group.add(http.MethodPut, path, g.op, handlers)
}

// PATCH registers a guarded PATCH route
func (g GuardedRoutes) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.group.add(http.MethodPatch, path, g.op, handlers)
}

// DELETE registers a guarded DELETE route
func (g GuardedRoutes) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.group.add(http.MethodDelete, path, g.op, handlers)
}
