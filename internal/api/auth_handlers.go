package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/classpoint/school-backend/internal/domain"
	"github.com/classpoint/school-backend/internal/service"
)

// Register creates a new account. The route is admin-only; role
// enforcement happens in the middleware chain.
func (h *Handlers) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, err.Error())
		return
	}

	user, err := h.services.Auth.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			respondError(c, 400, "Invalid role")
		case errors.Is(err, service.ErrUserExists):
			respondError(c, 400, "Username or email is already taken")
		default:
			h.logger.Error("Failed to register user", zap.Error(err))
			respondError(c, 500, "Failed to register user")
		}
		return
	}

	respondData(c, 201, user)
}

// Login exchanges credentials for a JWT.
func (h *Handlers) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, err.Error())
		return
	}

	user, token, err := h.services.Auth.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, 401, "Invalid credentials")
			return
		}
		h.logger.Error("Failed to log in user", zap.Error(err))
		respondError(c, 500, "Failed to log in")
		return
	}

	respondData(c, 200, &domain.LoginResponse{Token: token, User: user})
}

// Me returns the authenticated account.
func (h *Handlers) Me(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		respondError(c, 401, "Not authenticated")
		return
	}
	respondData(c, 200, actor)
}
