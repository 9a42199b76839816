package middleware

import (
	"context"
	"strings"

	"github.com/foodorder/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// ProfilingConfig configures the profiling label middleware. Skip entries
// match a path exactly, or as a prefix when they end in "*".
type ProfilingConfig struct {
	Enabled bool
	Skip    []string
}

// DefaultProfilingConfig skips health checks and the API documentation
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled: true,
		Skip:    []string{"/health", "/api/v1/health", "/swagger/*"},
	}
}

func (cfg ProfilingConfig) skips(path string) bool {
	for _, s := range cfg.Skip {
		if prefix, ok := strings.CutSuffix(s, "*"); ok {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		} else if path == s {
			return true
		}
	}
	return false
}

// ProfilingWithConfig tags the CPU samples taken while the rest of the
// chain runs with the route, method and API resource, plus the caller's role
// and country once authenticated. Mount it after Authenticate, so a
// slow country-scoped listing can be told apart in the flame graph.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}

	return func(c *gin.Context) {
		if cfg.skips(c.Request.URL.Path) {
			c.Next()
			return
		}
		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) map[string]string {
	labels := map[string]string{telemetry.ProfilingLabelMethod: c.Request.Method}
	if route := c.FullPath(); route != "" {
		labels[telemetry.ProfilingLabelRoute] = route
		if resource := resourceFromRoute(route); resource != "" {
			labels[telemetry.ProfilingLabelResource] = resource
		}
	}
	if p, ok := GetPrincipal(c); ok {
		labels[telemetry.ProfilingLabelRole] = p.Role.String()
		labels[telemetry.ProfilingLabelCountry] = string(p.Country)
	}
	return labels
}

// resourceFromRoute returns the first static segment that is neither "api"
// nor a version: "/api/v1/menu-items/:id" gives "menu-items".
func resourceFromRoute(route string) string {
	for part := range strings.SplitSeq(route, "/") {
		switch {
		case part == "", part == "api", isVersionSegment(part):
		case part[0] == ':' || part[0] == '*':
		default:
			return part
		}
	}
	return ""
}

func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	return strings.Trim(segment[1:], "0123456789") == ""
}
