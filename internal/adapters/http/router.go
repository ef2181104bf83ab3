package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/voiceroom/server/internal/adapters/signal"
	"github.com/voiceroom/server/internal/app"
	"github.com/voiceroom/server/internal/config"
	"github.com/voiceroom/server/internal/domain"
	"github.com/voiceroom/server/internal/identity"
)

const userKey = "user"

// AuthMiddleware verifies the identity token before the connection is
// allowed near any room command. Websocket clients cannot set headers,
// so the token rides a query parameter.
func AuthMiddleware(verifier *identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		user, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, coord *app.Coordinator, hub *signal.Hub, verifier *identity.Verifier) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "VoiceRoom Server OK")
	})

	api := r.Group("/api")

	// Public feed queries, same data the room:list command serves.
	api.GET("/rooms", func(c *gin.Context) {
		var tags []string
		if raw := c.Query("tags"); raw != "" {
			tags = strings.Split(raw, ",")
		}
		c.JSON(http.StatusOK, coord.List(tags))
	})
	api.GET("/tags", func(c *gin.Context) {
		c.JSON(http.StatusOK, coord.Tags())
	})

	ctrl := signal.NewController(coord, hub, cfg)
	api.GET("/ws/signal", AuthMiddleware(verifier), func(c *gin.Context) {
		user := c.MustGet(userKey).(*domain.User)
		log.Info().Str("module", "adapters.http").Str("user", string(user.ID)).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c, user)
	})

	return r
}
