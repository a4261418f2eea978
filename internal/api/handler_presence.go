package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"faculty-locator-backend/internal/model"
	"faculty-locator-backend/internal/presence"
)

type checkInRequest struct {
	Location string `json:"location"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type autoLocationRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type locationRequest struct {
	Location string `json:"location" binding:"required"`
}

// CheckIn handles POST /api/faculty/:id/checkin. The body is optional.
func (h *Handler) CheckIn(c *gin.Context) {
	var req checkInRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	rec, err := h.presence.CheckIn(c.Request.Context(), c.Param("id"), req.Location)
	h.respondPresence(c, rec, err)
}

// CheckOut handles POST /api/faculty/:id/checkout.
func (h *Handler) CheckOut(c *gin.Context) {
	rec, err := h.presence.CheckOut(c.Request.Context(), c.Param("id"))
	h.respondPresence(c, rec, err)
}

// SetStatus handles PUT /api/faculty/:id/status.
func (h *Handler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.presence.SetStatus(c.Request.Context(), c.Param("id"), model.Status(req.Status))
	h.respondPresence(c, rec, err)
}

// SetAutoLocation handles PUT /api/faculty/:id/auto_location.
func (h *Handler) SetAutoLocation(c *gin.Context) {
	var req autoLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.presence.SetAutoLocation(c.Request.Context(), c.Param("id"), *req.Enabled)
	h.respondPresence(c, rec, err)
}

// SetLocation handles PUT /api/faculty/:id/location.
func (h *Handler) SetLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.presence.SetLocation(c.Request.Context(), c.Param("id"), req.Location)
	h.respondPresence(c, rec, err)
}

func (h *Handler) respondPresence(c *gin.Context, rec model.PresenceRecord, err error) {
	if err != nil {
		c.JSON(presenceErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newPresenceView(rec, h.now()))
}

func presenceErrorStatus(err error) int {
	switch {
	case errors.Is(err, presence.ErrUnknownFaculty):
		return http.StatusNotFound
	case errors.Is(err, presence.ErrNotCheckedIn),
		errors.Is(err, presence.ErrAlreadyCheckedIn),
		errors.Is(err, presence.ErrAutoLocationEnabled):
		return http.StatusConflict
	case errors.Is(err, presence.ErrInvalidStatus),
		errors.Is(err, presence.ErrInvalidLocation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
