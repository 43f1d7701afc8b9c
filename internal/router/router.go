package router

import (
	"net/http"
	"time"

	"github.com/blogapi/internal/handler"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Settings 控制路由层的可选行为。
type Settings struct {
	// JWTSecret 为空时写接口无需认证
	JWTSecret    string
	AllowOrigins []string
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, settings Settings) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), handler.RequestID())
	r.Use(cors.New(corsConfig(settings.AllowOrigins)))

	r.GET("/", handler.Index)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/posts", api.GetPosts)
		apiGroup.GET("/posts/:id", api.GetPost)
		apiGroup.GET("/posts/:id/html", api.GetPostHTML)
		apiGroup.GET("/categories", api.GetCategories)

		// 写操作，配置了密钥时需要 Bearer token
		write := apiGroup.Group("")
		if settings.JWTSecret != "" {
			write.Use(handler.AuthRequired(settings.JWTSecret))
		}
		{
			write.POST("/posts", api.CreatePost)
			write.PATCH("/posts/:id", api.UpdatePost)
			write.DELETE("/posts/:id", api.DeletePost)
		}
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
