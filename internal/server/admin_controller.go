package server

import (
	"errors"

	"gauntlet/internal/judge/verdict"
	"gauntlet/internal/session"
	"gauntlet/internal/store"
	"gauntlet/pkg/utils/logger"
	"gauntlet/pkg/utils/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminController handles the token-gated operator endpoints.
type AdminController struct {
	codec *session.Codec
	store AdminStore
}

// NewAdminController creates an AdminController.
func NewAdminController(codec *session.Codec, adminStore AdminStore) *AdminController {
	return &AdminController{codec: codec, store: adminStore}
}

// Authorize exchanges the admin password for the admin token.
func (h *AdminController) Authorize(c *gin.Context) {
	var password string
	if err := c.ShouldBindJSON(&password); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}
	token, ok := h.codec.AdminToken(password)
	if !ok {
		logger.Info(c.Request.Context(), "admin authorization failed")
		response.Verdict(c, verdict.Unauthorized())
		return
	}
	logger.Info(c.Request.Context(), "admin authorized")
	response.Verdict(c, verdict.Token(token))
}

// RequireAdmin gates a route group on the admin token.
func (h *AdminController) RequireAdmin(c *gin.Context) {
	if !h.codec.VerifyAdminToken(c.GetHeader("Authorization")) {
		response.AdminUnauthorized(c)
		c.Abort()
		return
	}
	c.Next()
}

// PlayerRequest defines the admin player payload.
type PlayerRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AddPlayer registers a new player at problem zero.
func (h *AdminController) AddPlayer(c *gin.Context) {
	var req PlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}
	hash, err := session.Argon2Generate(req.Password)
	if err != nil {
		logger.Error(c.Request.Context(), "password hash failed", zap.Error(err))
		response.AdminFailure(c, "Failed to hash password")
		return
	}
	if err := h.store.AddPlayer(c.Request.Context(), req.UserID, hash); err != nil {
		if errors.Is(err, store.ErrPlayerExists) {
			response.AdminFailure(c, "Player already exists")
			return
		}
		logger.Error(c.Request.Context(), "add player failed", zap.String("player", req.UserID), zap.Error(err))
		response.AdminFailure(c, "Database error")
		return
	}
	logger.Info(c.Request.Context(), "player added", zap.String("player", req.UserID))
	response.AdminSuccess(c, "Player added successfully")
}

// ChangePassword replaces a player's password.
func (h *AdminController) ChangePassword(c *gin.Context) {
	var req PlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}
	hash, err := session.Argon2Generate(req.Password)
	if err != nil {
		logger.Error(c.Request.Context(), "password hash failed", zap.Error(err))
		response.AdminFailure(c, "Failed to hash new password")
		return
	}
	if err := h.store.ChangePassword(c.Request.Context(), req.UserID, hash); err != nil {
		if errors.Is(err, store.ErrPlayerNotFound) {
			response.AdminFailure(c, "Player not found")
			return
		}
		logger.Error(c.Request.Context(), "change password failed", zap.String("player", req.UserID), zap.Error(err))
		response.AdminFailure(c, "Database error")
		return
	}
	logger.Info(c.Request.Context(), "player password updated", zap.String("player", req.UserID))
	response.AdminSuccess(c, "Password updated successfully")
}

// GetPlayers lists registered players.
func (h *AdminController) GetPlayers(c *gin.Context) {
	players, err := h.store.ListPlayers(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "list players failed", zap.Error(err))
		response.AdminFailure(c, "Database error")
		return
	}
	response.Players(c, players)
}

// GetSubmissions lists logged submissions.
func (h *AdminController) GetSubmissions(c *gin.Context) {
	subs, err := h.store.ListSubmissions(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "list submissions failed", zap.Error(err))
		response.AdminFailure(c, "Database error")
		return
	}
	response.Submissions(c, subs)
}
