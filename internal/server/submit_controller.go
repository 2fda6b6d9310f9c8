package server

import (
	"gauntlet/internal/judge/profile"
	"gauntlet/internal/judge/verdict"
	"gauntlet/internal/session"
	"gauntlet/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// SubmitRequest defines the submission payload. The target problem is
// server-side state, never part of the request.
type SubmitRequest struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language" binding:"required"`
}

// SubmitController handles the player submission endpoint.
type SubmitController struct {
	submit SubmitPipeline
}

// NewSubmitController creates a SubmitController.
func NewSubmitController(submit SubmitPipeline) *SubmitController {
	return &SubmitController{submit: submit}
}

// Submit judges one submission carried by an authorized request.
func (h *SubmitController) Submit(c *gin.Context) {
	token := c.GetHeader("Authorization")
	if token == "" {
		response.Verdict(c, verdict.Unauthorized())
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}
	lang, err := profile.Parse(req.Language)
	if err != nil {
		response.BadRequest(c, "Unsupported language")
		return
	}

	response.Verdict(c, h.submit.Submit(c.Request.Context(), token, req.Code, lang))
}

// AuthController handles the player token exchange.
type AuthController struct {
	codec *session.Codec
	store PlayerDirectory
}

// NewAuthController creates an AuthController.
func NewAuthController(codec *session.Codec, store PlayerDirectory) *AuthController {
	return &AuthController{codec: codec, store: store}
}

// AuthRequest defines the credential payload.
type AuthRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Auth verifies a password and issues a session token.
func (h *AuthController) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}

	hash, err := h.store.PasswordHash(c.Request.Context(), req.UserID)
	if err != nil {
		response.Verdict(c, verdict.Unauthorized())
		return
	}
	ok, err := session.Argon2Verify(req.Password, hash)
	if err != nil || !ok {
		response.Verdict(c, verdict.Unauthorized())
		return
	}

	token, err := h.codec.Encrypt(req.UserID)
	if err != nil {
		response.Verdict(c, verdict.ServerError())
		return
	}
	response.Verdict(c, verdict.Token(token))
}
