package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/classpoint/school-backend/internal/domain"
	"github.com/classpoint/school-backend/internal/service"
	"github.com/classpoint/school-backend/pkg/config"
	"github.com/classpoint/school-backend/pkg/middleware"
)

// Handlers aggregates all HTTP handlers
type Handlers struct {
	services *service.Services
	cfg      *config.Config
	logger   *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services *service.Services, cfg *config.Config, logger *zap.Logger) *Handlers {
	return &Handlers{
		services: services,
		cfg:      cfg,
		logger:   logger.Named("handlers"),
	}
}

// Status handles the /status endpoint
func (h *Handlers) Status(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": "school-backend",
	})
}

func (h *Handlers) actor(c *gin.Context) *domain.User {
	user, ok := middleware.Actor(c)
	if !ok {
		return nil
	}
	return user
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// pageLink is a next/prev descriptor in list responses.
type pageLink struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// respondList wraps a result page with total/count and next/prev links.
func respondList(c *gin.Context, data interface{}, count int, total int64, page, limit int) {
	pagination := gin.H{}
	if int64(page*limit) < total {
		pagination["next"] = pageLink{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		pagination["prev"] = pageLink{Page: page - 1, Limit: limit}
	}
	c.JSON(200, gin.H{
		"success":    true,
		"count":      count,
		"total":      total,
		"pagination": pagination,
		"data":       data,
	})
}
