package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/blogapi/internal/auth"
	"github.com/blogapi/internal/config"
	"github.com/joho/godotenv"
)

// 为编辑者签发写接口所需的 JWT
func main() {
	subject := flag.String("sub", "admin", "token subject")
	name := flag.String("name", "admin", "display name carried in the token")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file loaded: %v", err)
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET 未配置，写接口当前无需认证")
	}

	token, err := auth.GenerateToken(cfg.JWTSecret, *subject, *name, time.Now().Add(*ttl))
	if err != nil {
		log.Fatal("签发 token 失败:", err)
	}

	fmt.Println(token)
}
