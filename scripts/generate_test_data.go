package main

import (
	"context"
	"fmt"
	"log"

	"github.com/blogapi/internal/config"
	"github.com/blogapi/internal/db"
	"github.com/blogapi/internal/service"
	"gorm.io/gorm"
)

type seedPost struct {
	Title    string
	Content  string
	ImageURL string
	Category string
}

var seedPosts = []seedPost{
	{
		Title:    "Go 语言并发编程实践",
		Content:  "## goroutine 与 channel\n\nGo 的并发模型基于 CSP，`go` 关键字即可启动一个 goroutine。\n\n```go\nch := make(chan int)\ngo func() { ch <- 1 }()\n```",
		ImageURL: "https://images.example.com/go-concurrency.png",
		Category: "技术",
	},
	{
		Title:    "使用 GORM 管理数据库迁移",
		Content:  "AutoMigrate 只会新增列和索引，不会删除已有列。\n\n- 适合开发环境\n- 生产环境建议配合版本化迁移",
		ImageURL: "https://images.example.com/gorm.jpg",
		Category: "技术",
	},
	{
		Title:    "周末徒步记录",
		Content:  "早上七点出发，沿着山脊走了十二公里。",
		ImageURL: "https://images.example.com/hiking.webp",
		Category: "生活",
	},
	{
		Title:    "关于写作的一点思考",
		Content:  "> 写作是思考的延伸。\n\n把模糊的想法落到纸面，才能发现哪里没想清楚。",
		ImageURL: "https://images.example.com/writing.gif",
		Category: "思考",
	},
	{
		Title:    "从零搭建博客 API",
		Content:  "本文介绍如何用 Gin 和 GORM 实现一个带分类的文章 CRUD 接口。",
		ImageURL: "https://images.example.com/blog-api.png?w=1200",
		Category: " 教程 ",
	},
}

// 测试数据生成器
func main() {
	cfg := config.Load()
	if err := db.Init(db.Options{
		Driver:   cfg.DatabaseDriver,
		DSN:      cfg.DSN(),
		LogLevel: cfg.DatabaseLogLevel,
	}); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	created, err := createTestPosts(context.Background(), db.DB)
	if err != nil {
		log.Fatal("生成测试文章失败:", err)
	}

	fmt.Printf("测试数据生成完成！新增文章 %d 篇\n", created)
}

// createTestPosts 在文章表为空时写入示例文章，分类按名称复用。
func createTestPosts(ctx context.Context, gdb *gorm.DB) (int, error) {
	var count int64
	if err := gdb.WithContext(ctx).Model(&db.Post{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		fmt.Println("文章已存在，跳过创建")
		return 0, nil
	}

	posts := service.NewPostService(gdb, service.NewCategoryService(gdb))
	for i, seed := range seedPosts {
		if _, err := posts.Create(ctx, service.PostInput{
			Title:    seed.Title,
			Content:  seed.Content,
			ImageURL: seed.ImageURL,
			Category: seed.Category,
		}); err != nil {
			return i, fmt.Errorf("create %q: %w", seed.Title, err)
		}
	}
	return len(seedPosts), nil
}
