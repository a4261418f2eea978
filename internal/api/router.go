package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"faculty-locator-backend/config"
	"faculty-locator-backend/internal/live"
	"faculty-locator-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router. Cached read endpoints
// are flushed through responseCache whenever presence changes. gatherer and
// hub may be nil to omit /metrics and /api/live.
func NewRouter(h *Handler, cfg config.ServerConfig, responseCache *mw.ResponseCache, gatherer prometheus.Gatherer, hub *live.Hub) *gin.Engine {
	r := gin.Default()

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	caching := responseCache.Middleware()

	api := r.Group("/api")
	api.Use(rateLimiter, mw.SessionReader())
	{
		api.GET("/faculty", caching, h.SearchFaculty)
		api.GET("/faculty/:id", caching, h.GetFaculty)
		api.GET("/faculty/:id/history", h.GetHistory)
		api.GET("/faculty/:id/elapsed", h.GetElapsed)
		api.GET("/departments", caching, h.GetDepartments)
		api.GET("/buildings", caching, h.GetBuildings)
		api.GET("/summary", caching, h.GetSummary)

		manage := api.Group("/faculty/:id", mw.RequireManager())
		manage.POST("/checkin", h.CheckIn)
		manage.POST("/checkout", h.CheckOut)
		manage.PUT("/status", h.SetStatus)
		manage.PUT("/auto_location", h.SetAutoLocation)
		manage.PUT("/location", h.SetLocation)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)

		if hub != nil {
			api.GET("/live", hub.ServeWS)
		}
	}

	return r
}
