package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/classpoint/school-backend/internal/domain"
	"github.com/classpoint/school-backend/internal/service"
)

// ListEvents handles GET /events
func (h *Handlers) ListEvents(c *gin.Context) {
	q := parseListQuery(c)

	events, total, err := h.services.Event.List(c.Request.Context(), q)
	if err != nil {
		h.logger.Error("Failed to list events", zap.Error(err))
		respondError(c, 500, "Failed to list events")
		return
	}

	respondList(c, events, len(events), total, q.Page, q.Limit)
}

// GetEvent handles GET /events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	event, err := h.services.Event.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			respondError(c, 404, "Event not found")
			return
		}
		h.logger.Error("Failed to load event", zap.Error(err))
		respondError(c, 500, "Failed to load event")
		return
	}
	respondData(c, 200, event)
}

// CreateEvent handles POST /events
func (h *Handlers) CreateEvent(c *gin.Context) {
	var req domain.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, err.Error())
		return
	}

	event, err := h.services.Event.Create(c.Request.Context(), h.actor(c), &req)
	if err != nil {
		h.logger.Error("Failed to create event", zap.Error(err))
		respondError(c, 500, "Failed to create event")
		return
	}

	respondData(c, 201, event)
}
