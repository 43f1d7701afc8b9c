package db

import (
	"time"

	"gorm.io/gorm"
)

// Post 定义了文章模型
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Content    string    `gorm:"type:text" json:"content"`
	ImageURL   string    `gorm:"size:2048;not null" json:"imageUrl"`
	CategoryID uint      `gorm:"not null;index" json:"categoryId"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
}

// WithCategory eagerly loads the category a post belongs to.
func WithCategory(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Category")
}

// Newest orders posts by creation time, newest first.
func Newest(tx *gorm.DB) *gorm.DB {
	return tx.Order("created_at desc").Order("id desc")
}
