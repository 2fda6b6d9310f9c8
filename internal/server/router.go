// Package server wires the HTTP surface: submission, authentication, and
// the token-gated admin endpoints.
package server

import (
	"context"
	_ "embed"
	"net/http"

	"gauntlet/internal/judge/profile"
	"gauntlet/internal/judge/verdict"
	"gauntlet/internal/session"
	"gauntlet/internal/store"

	"github.com/gin-gonic/gin"
)

//go:embed admin.html
var adminPanel []byte

// SubmitPipeline judges an authorized submission end to end.
type SubmitPipeline interface {
	Submit(ctx context.Context, token, code string, lang profile.Language) verdict.Verdict
}

// PlayerDirectory resolves stored player credentials.
type PlayerDirectory interface {
	PasswordHash(ctx context.Context, userID string) (string, error)
}

// AdminStore is the slice of the player store the admin surface needs.
type AdminStore interface {
	AddPlayer(ctx context.Context, userID, passwordHash string) error
	ChangePassword(ctx context.Context, userID, passwordHash string) error
	ListPlayers(ctx context.Context) ([]string, error)
	ListSubmissions(ctx context.Context) ([]store.Submission, error)
}

// Deps carries the collaborators of the HTTP surface.
type Deps struct {
	Codec   *session.Codec
	Submit  SubmitPipeline
	Players interface {
		PlayerDirectory
		AdminStore
	}
}

// BuildRouter assembles the gin engine with middleware and routes.
func BuildRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(TraceMiddleware())
	router.Use(RequestLogger())

	submitCtl := NewSubmitController(deps.Submit)
	authCtl := NewAuthController(deps.Codec, deps.Players)
	adminCtl := NewAdminController(deps.Codec, deps.Players)

	api := router.Group("/api")
	api.POST("/submit", submitCtl.Submit)
	api.POST("/auth", authCtl.Auth)

	admin := router.Group("/admin")
	admin.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", adminPanel)
	})
	admin.POST("/auth", adminCtl.Authorize)
	gated := admin.Group("", adminCtl.RequireAdmin)
	gated.POST("/add_player", adminCtl.AddPlayer)
	gated.POST("/change_password", adminCtl.ChangePassword)
	gated.GET("/get_players", adminCtl.GetPlayers)
	gated.GET("/get_submissions", adminCtl.GetSubmissions)

	return router
}
