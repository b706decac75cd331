package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xiaoxiao0301/artist-atlas/internal/middleware"
	"github.com/xiaoxiao0301/artist-atlas/pkg/jwt"
	"github.com/xiaoxiao0301/artist-atlas/pkg/logger"
)

// RouterConfig bundles everything the router needs.
type RouterConfig struct {
	Artists   *ArtistHandler
	Auth      *AuthHandler
	Favorites *FavoriteHandler
	Tokens    *jwt.Manager
	Logger    logger.Logger
}

// NewRouter builds the gin engine with the full middleware chain and all
// API routes under /api/v1. Catalogue reads are public, catalogue writes
// and exports require the admin role, favorites require a login.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(cfg.Logger),
		middleware.Logging(cfg.Logger),
		middleware.CORS(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRequired := middleware.Auth(cfg.Tokens, cfg.Logger)
	adminOnly := middleware.RequireAdmin()

	api := r.Group("/api/v1")
	{
		users := api.Group("/users")
		{
			users.POST("/register", cfg.Auth.Register)
			users.POST("/login", cfg.Auth.Login)
			users.POST("/verify-login", cfg.Auth.VerifyLogin)
			users.POST("/refresh", cfg.Auth.Refresh)
			users.GET("/me", authRequired, cfg.Auth.Me)
		}

		artists := api.Group("/artists")
		{
			artists.GET("", cfg.Artists.List)
			artists.GET("/export", authRequired, adminOnly, cfg.Artists.Export)
			artists.GET("/:id", cfg.Artists.Get)
			artists.POST("", authRequired, adminOnly, cfg.Artists.Create)
			artists.PUT("/:id", authRequired, adminOnly, cfg.Artists.Update)
			artists.DELETE("/:id", authRequired, adminOnly, cfg.Artists.Delete)
		}

		favorites := api.Group("/users/favorites", authRequired)
		{
			favorites.GET("", cfg.Favorites.List)
			favorites.POST("/:artistId", cfg.Favorites.Add)
			favorites.DELETE("/:artistId", cfg.Favorites.Remove)
		}
	}

	return r
}
