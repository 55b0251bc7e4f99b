package internal

import (
	"ludic-admin/internal/admin"
	"ludic-admin/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Log         *logger.Logger
	Accounts    Accounts
	Players     Counter
	Matches     Counter
	Audit       admin.Auditor
	Logs        LogReader
	Revocations Revocations
	Sessions    *Sessions
	Token       TokenOptions
	DateLocale  string
	StaticDir   string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(d.Log))

	if d.StaticDir != "" {
		r.Static("/static", d.StaticDir)
		r.GET("/", func(c *gin.Context) { c.File(d.StaticDir + "/index.html") })
		r.GET("/login", func(c *gin.Context) { c.File(d.StaticDir + "/login.html") })
	}

	r.GET("/health", Health())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := Auth(d.Token.Secret, d.Revocations)

	api := r.Group("/api")
	{
		api.POST("/auth/login", Login(d.Accounts, d.Audit, d.Token, d.Log))
		api.POST("/auth/logout", auth, Logout(d.Revocations, d.Sessions, d.Token, d.Log))
		api.GET("/me", auth, Me(d.Accounts))

		adm := api.Group("/admin", auth, RequireAdmin())
		{
			adm.GET("/stats", AdminStats(d.Players, d.Matches, d.Log))
			adm.GET("/logs", AdminLogs(d.Logs, d.Log))

			players := adm.Group("/players", WithSession(d.Sessions))
			mountScreen[admin.Player, admin.PlayerDraft](players, playersScreen, plainView[admin.Player])

			matches := adm.Group("/matches", WithSession(d.Sessions))
			mountScreen[admin.Match, admin.MatchDraft](matches, matchesScreen, matchCards(d.DateLocale))
		}
	}
	return r
}

func mountScreen[T any, D any](g *gin.RouterGroup, pick screenOf[T, D], present presenter[T]) {
	g.GET("", ListScreen(pick, present))
	g.POST("", CreateRecord(pick))
	g.POST("/refresh", RefreshScreen(pick, present))
	g.POST("/filter", FilterScreen(pick, present))
	g.GET("/:id/edit", EditRecord(pick))
	g.PUT("/:id", UpdateRecord(pick))
	g.POST("/:id/delete", RequestDelete(pick))
	g.POST("/:id/delete/confirm", ConfirmDelete(pick))
	g.POST("/:id/delete/cancel", CancelDelete(pick))
}
