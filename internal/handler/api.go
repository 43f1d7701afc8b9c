package handler

import (
	"github.com/blogapi/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	posts      *service.PostService
	categories *service.CategoryService
}

// NewAPI constructs a handler set with shared services. opts configure the
// post service's optional cache and event publisher.
func NewAPI(db *gorm.DB, opts ...service.PostOption) *API {
	categories := service.NewCategoryService(db)

	return &API{
		db:         db,
		posts:      service.NewPostService(db, categories, opts...),
		categories: categories,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
