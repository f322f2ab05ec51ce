// internal/registration/wizard-api/router.go
package wizardapi

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthTimeout = 2 * time.Second

// NewRouter builds the HTTP surface: wizard routes under /api, the submit
// proxy, /health and /metrics.
func NewRouter(deps ServiceDependencies, cfg *Config) *gin.Engine {
	h := NewHandler(deps, cfg)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(deps.Logger))
	r.Use(Locale(h.catalog, cfg.LocaleCookie))

	api := r.Group("/api")
	h.RegisterRoutes(api)
	if deps.Proxy != nil {
		deps.Proxy.Register(r)
	}

	r.GET("/health", healthHandler(deps.Health))

	metricsHandler := deps.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.GET("/metrics", gin.WrapH(metricsHandler))

	return r
}

func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(names))
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		overall := "healthy"
		if status != http.StatusOK {
			overall = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status": overall,
			"checks": results,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
