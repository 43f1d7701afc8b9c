package main

import (
	"context"
	"log"
	"time"

	"github.com/blogapi/internal/cache"
	"github.com/blogapi/internal/config"
	"github.com/blogapi/internal/db"
	"github.com/blogapi/internal/events"
	"github.com/blogapi/internal/handler"
	"github.com/blogapi/internal/router"
	"github.com/blogapi/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file loaded: %v", err)
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(db.Options{
		Driver:   cfg.DatabaseDriver,
		DSN:      cfg.DSN(),
		LogLevel: cfg.DatabaseLogLevel,
	}); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	var opts []service.PostOption

	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		cancel()
		if err != nil {
			log.Printf("[cache] redis unavailable, serving without cache: %v", err)
		} else {
			defer client.Close()
			opts = append(opts, service.WithPostCache(cache.NewPostCache(client, cfg.PostCacheTTL)))
		}
	}

	if cfg.NATSURL != "" {
		publisher, err := events.Connect(cfg.NATSURL)
		if err != nil {
			log.Printf("[events] nats unavailable, events disabled: %v", err)
		} else {
			defer publisher.Close()
			opts = append(opts, service.WithEventPublisher(publisher))
		}
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(handler.NewAPI(db.DB, opts...), router.Settings{
		JWTSecret:    cfg.JWTSecret,
		AllowOrigins: cfg.AllowOrigins,
	})

	log.Printf("Server started on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
