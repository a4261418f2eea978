package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"faculty-locator-backend/internal/directory"
	"faculty-locator-backend/internal/metrics"
	"faculty-locator-backend/internal/model"
	"faculty-locator-backend/internal/presence"
)

// SearchFaculty handles GET /api/faculty?q=&department=&status=.
func (h *Handler) SearchFaculty(c *gin.Context) {
	filters := directory.Filters{
		Department: c.Query("department"),
		Status:     model.Status(c.Query("status")),
	}

	entries, err := h.directory.Search(c.Query("q"), filters)
	h.countQuery(metrics.QuerySearch, err)
	if err != nil {
		if errors.Is(err, directory.ErrInvalidFilterValue) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, newFacultyViews(entries, h.now()))
}

// GetFaculty handles GET /api/faculty/:id.
func (h *Handler) GetFaculty(c *gin.Context) {
	entry, ok := h.directory.Lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "faculty member not found"})
		return
	}

	resp := gin.H{"faculty": newFacultyView(entry, h.now())}
	if b, ok := h.directory.BuildingOf(entry.Member.ID); ok {
		resp["building"] = b
	}
	c.JSON(http.StatusOK, resp)
}

// GetElapsed handles GET /api/faculty/:id/elapsed, the live "checked in for"
// counter. It is never cached.
func (h *Handler) GetElapsed(c *gin.Context) {
	d, checkedIn, err := h.presence.Elapsed(c.Param("id"), h.now())
	if err != nil {
		c.JSON(presenceErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	resp := gin.H{"checkedIn": checkedIn, "seconds": int64(d / time.Second)}
	if checkedIn {
		resp["elapsed"] = presence.FormatElapsed(d)
	}
	c.JSON(http.StatusOK, resp)
}

// GetDepartments lists the departments offered as search filters.
func (h *Handler) GetDepartments(c *gin.Context) {
	departments := h.directory.Departments()
	if departments == nil {
		departments = []string{}
	}
	c.JSON(http.StatusOK, departments)
}

// GetBuildings returns the campus map: every building with its members.
func (h *Handler) GetBuildings(c *gin.Context) {
	groups := h.directory.GroupByBuilding()
	h.countQuery(metrics.QueryBuilding, nil)

	now := h.now()
	out := make([]buildingView, len(groups))
	for i, g := range groups {
		out[i] = buildingView{Building: g.Building, Members: newFacultyViews(g.Members, now)}
	}
	c.JSON(http.StatusOK, out)
}

// GetSummary returns the per-status counts shown on the dashboard.
func (h *Handler) GetSummary(c *gin.Context) {
	counts := h.directory.Summary()
	h.countQuery(metrics.QuerySummary, nil)
	c.JSON(http.StatusOK, counts)
}

// GetHistory returns the archived sessions of a faculty member, newest first.
func (h *Handler) GetHistory(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.directory.Lookup(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "faculty member not found"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	history, err := h.store.PresenceHistory(c.Request.Context(), id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if history == nil {
		history = []model.PresenceHistory{}
	}
	c.JSON(http.StatusOK, history)
}
