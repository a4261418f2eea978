package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"faculty-locator-backend/internal/directory"
	"faculty-locator-backend/internal/metrics"
	"faculty-locator-backend/internal/presence"
	"faculty-locator-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	presence  *presence.Controller
	directory *directory.Directory
	metrics   *metrics.Metrics
	webpush   *webpush.Options
	now       func() time.Time
}

// NewHandler creates a new API handler. m may be nil.
func NewHandler(s store.Store, c *presence.Controller, d *directory.Directory, m *metrics.Metrics, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:     s,
		presence:  c,
		directory: d,
		metrics:   m,
		webpush:   webpushOptions,
		now:       time.Now,
	}
}

func (h *Handler) countQuery(kind string, err error) {
	if h.metrics != nil {
		h.metrics.IncQuery(kind, err)
	}
}
