package http

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/YF-George/rosterd/internal/adapters/relay"
	"github.com/YF-George/rosterd/internal/app"
	"github.com/YF-George/rosterd/internal/auth"
	"github.com/YF-George/rosterd/internal/config"
)

// ClientTokenMiddleware tags every browser with a stable token so
// relay presence and rate limiting survive reconnects.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(cfg *config.Config, admission *app.Admission, roster *app.Roster, hub *relay.Hub) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("RosterSessions", store))
	r.Use(ClientTokenMiddleware())

	h := &Handlers{
		admission: admission,
		roster:    roster,
		whitelist: auth.ParseWhitelist(cfg.AdminWhitelist),
		limiter:   NewSlidingWindow(cfg.EditRateLimit, cfg.RateWindow),
	}

	log.Info().Str("module", "adapters.http").Msg("router setup")

	api := r.Group("/api")
	api.POST("/room", h.HandleRoom)
	api.POST("/auth", h.HandleAuth)
	api.POST("/check-admin", h.HandleCheckAdmin)
	api.GET("/edits", h.ListEdits)
	api.POST("/edits", h.SubmitEdit)
	api.GET("/groups", h.ListGroups)
	api.POST("/groups", h.SubmitGroup)
	api.GET("/ws", hub.Handle)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
