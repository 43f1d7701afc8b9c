package service

import (
	"context"
	"errors"
	"strings"

	"github.com/blogapi/internal/db"
	"gorm.io/gorm"
)

// CategoryService wraps category related operations.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.WithContext(ctx).Order("name asc").Order("id asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Resolve finds the category whose name equals the trimmed name, creating it
// when absent. A concurrent insert of the same name surfaces as a duplicate
// key, in which case the winner's row is read back once.
func (s *CategoryService) Resolve(ctx context.Context, name string) (*db.Category, error) {
	name = strings.TrimSpace(name)

	var category db.Category
	err := s.db.WithContext(ctx).
		Where(map[string]interface{}{"name": name}).
		FirstOrCreate(&category).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		category = db.Category{}
		err = s.db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	}
	if err != nil {
		return nil, err
	}

	return &category, nil
}
