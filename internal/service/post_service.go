package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/blogapi/internal/db"
	"github.com/blogapi/internal/events"
	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

// PostCache caches single posts by id. Cache failures never fail a request.
// Set must drop the write when the post was invalidated after Version was read.
type PostCache interface {
	Get(ctx context.Context, id uint) (*db.Post, bool, error)
	Version(ctx context.Context, id uint) (int64, error)
	Set(ctx context.Context, post *db.Post, version int64) error
	Invalidate(ctx context.Context, id uint) error
}

// EventPublisher receives a notification for every post change.
type EventPublisher interface {
	Publish(subject string, event events.PostEvent) error
}

// PostService wraps post related database operations.
type PostService struct {
	db         *gorm.DB
	categories *CategoryService
	cache      PostCache
	events     EventPublisher
	now        func() time.Time
}

// PostOption configures optional collaborators of a PostService.
type PostOption func(*PostService)

// WithPostCache serves single-post reads through cache.
func WithPostCache(cache PostCache) PostOption {
	return func(s *PostService) {
		s.cache = cache
	}
}

// WithEventPublisher announces creates, updates and deletes through publisher.
func WithEventPublisher(publisher EventPublisher) PostOption {
	return func(s *PostService) {
		s.events = publisher
	}
}

// PostInput represents the fields accepted when creating a post.
type PostInput struct {
	Title    string
	Content  string
	ImageURL string
	Category string
}

// PostPatch carries the fields supplied to an update; nil fields are kept.
type PostPatch struct {
	Title    *string
	Content  *string
	ImageURL *string
	Category *string
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB, categories *CategoryService, opts ...PostOption) *PostService {
	s := &PostService{db: gdb, categories: categories, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListAll returns every post without its content, category loaded, newest first.
func (s *PostService) ListAll(ctx context.Context) ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.WithContext(ctx).
		Scopes(db.WithCategory, db.Newest).
		Omit("content").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Get fetches a post by id with its category, consulting the cache first.
func (s *PostService) Get(ctx context.Context, id uint) (*db.Post, error) {
	if s.cache == nil {
		return s.Find(ctx, id)
	}

	cached, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		log.Printf("[cache] read post %d: %v", id, err)
	} else if ok {
		return cached, nil
	}

	// 版本号必须在读库之前取得
	version, verr := s.cache.Version(ctx, id)
	if verr != nil {
		log.Printf("[cache] read version of post %d: %v", id, verr)
	}

	post, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if verr == nil {
		if err := s.cache.Set(ctx, post, version); err != nil {
			log.Printf("[cache] store post %d: %v", id, err)
		}
	}
	return post, nil
}

// Find fetches a post by id with its category straight from the database.
func (s *PostService) Find(ctx context.Context, id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.WithContext(ctx).Scopes(db.WithCategory).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Create resolves the category by name and persists the post under it.
func (s *PostService) Create(ctx context.Context, input PostInput) (*db.Post, error) {
	category, err := s.categories.Resolve(ctx, input.Category)
	if err != nil {
		return nil, err
	}

	post := db.Post{
		Title:      input.Title,
		Content:    input.Content,
		ImageURL:   input.ImageURL,
		CategoryID: category.ID,
	}
	if err := s.db.WithContext(ctx).Omit("Category").Create(&post).Error; err != nil {
		return nil, err
	}
	post.Category = category

	s.publish(events.SubjectPostCreated, &post)
	return &post, nil
}

// Update builds a new record from current with the supplied fields overlaid
// and writes it back. A supplied category is resolved, and created if needed.
// It never re-inserts a row: if current was deleted meanwhile, it returns
// ErrPostNotFound.
func (s *PostService) Update(ctx context.Context, current *db.Post, patch PostPatch) (*db.Post, error) {
	next := *current

	if patch.Category != nil {
		category, err := s.categories.Resolve(ctx, *patch.Category)
		if err != nil {
			return nil, err
		}
		next.CategoryID = category.ID
		next.Category = category
	}
	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Content != nil {
		next.Content = *patch.Content
	}
	if patch.ImageURL != nil {
		next.ImageURL = *patch.ImageURL
	}

	result := s.db.WithContext(ctx).
		Model(&next).
		Select("title", "content", "image_url", "category_id").
		Updates(&next)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// 读取之后被并发删除
		s.forget(ctx, next.ID)
		return nil, ErrPostNotFound
	}

	if next.Category == nil || next.Category.ID != next.CategoryID {
		var category db.Category
		if err := s.db.WithContext(ctx).First(&category, next.CategoryID).Error; err != nil {
			return nil, err
		}
		next.Category = &category
	}

	s.forget(ctx, next.ID)
	s.publish(events.SubjectPostUpdated, &next)
	return &next, nil
}

// Delete permanently removes post.
func (s *PostService) Delete(ctx context.Context, post *db.Post) error {
	if err := s.db.WithContext(ctx).Delete(post).Error; err != nil {
		return err
	}

	s.forget(ctx, post.ID)
	s.publish(events.SubjectPostDeleted, post)
	return nil
}

func (s *PostService) forget(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.Printf("[cache] invalidate post %d: %v", id, err)
	}
}

func (s *PostService) publish(subject string, post *db.Post) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(subject, events.NewPostEvent(post, s.now())); err != nil {
		log.Printf("[events] publish %s for post %d: %v", subject, post.ID, err)
	}
}
