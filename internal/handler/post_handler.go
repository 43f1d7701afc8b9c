package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/blogapi/internal/db"
	"github.com/blogapi/internal/service"
	"github.com/blogapi/internal/validation"
	"github.com/gin-gonic/gin"
)

const postNotFoundMessage = "Post not found"

// postRequest 是创建与编辑文章共用的请求体，字段缺失时为 nil。
type postRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"imageUrl"`
	Category *string `json:"category"`
}

// postSummary 是列表项，不包含正文。
type postSummary struct {
	ID         uint         `json:"id"`
	Title      string       `json:"title"`
	ImageURL   string       `json:"imageUrl"`
	CategoryID uint         `json:"categoryId"`
	CreatedAt  time.Time    `json:"createdAt"`
	Category   *db.Category `json:"category"`
}

// GetPosts 获取文章列表
func (a *API) GetPosts(c *gin.Context) {
	posts, err := a.posts.ListAll(c.Request.Context())
	if err != nil {
		respondServerError(c, err)
		return
	}

	summaries := make([]postSummary, 0, len(posts))
	for _, post := range posts {
		summaries = append(summaries, postSummary{
			ID:         post.ID,
			Title:      post.Title,
			ImageURL:   post.ImageURL,
			CategoryID: post.CategoryID,
			CreatedAt:  post.CreatedAt,
			Category:   post.Category,
		})
	}

	c.JSON(http.StatusOK, gin.H{"posts": summaries})
}

// GetPost 获取单篇文章
func (a *API) GetPost(c *gin.Context) {
	post, ok := a.lookupPost(c, a.posts.Get)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, post)
}

// CreatePost 创建新文章
func (a *API) CreatePost(c *gin.Context) {
	var req postRequest
	if !validateBody(c, validation.PostCreate, &req) {
		return
	}

	post, err := a.posts.Create(c.Request.Context(), service.PostInput{
		Title:    *req.Title,
		Content:  *req.Content,
		ImageURL: *req.ImageURL,
		Category: *req.Category,
	})
	if err != nil {
		respondServerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost 更新文章，仅覆盖请求体中出现的字段
func (a *API) UpdatePost(c *gin.Context) {
	current, ok := a.lookupPost(c, a.posts.Find)
	if !ok {
		return
	}

	var req postRequest
	if !validateBody(c, validation.PostUpdate, &req) {
		return
	}

	post, err := a.posts.Update(c.Request.Context(), current, service.PostPatch{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Category: req.Category,
	})
	if errors.Is(err, service.ErrPostNotFound) {
		respondError(c, http.StatusNotFound, postNotFoundMessage)
		return
	}
	if err != nil {
		respondServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost 删除文章
func (a *API) DeletePost(c *gin.Context) {
	post, ok := a.lookupPost(c, a.posts.Find)
	if !ok {
		return
	}

	if err := a.posts.Delete(c.Request.Context(), post); err != nil {
		respondServerError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
	c.Writer.WriteHeaderNow()
}

// GetPostHTML renders the post's markdown content as sanitized HTML.
func (a *API) GetPostHTML(c *gin.Context) {
	post, ok := a.lookupPost(c, a.posts.Get)
	if !ok {
		return
	}

	rendered, err := renderMarkdown(post.Content)
	if err != nil {
		respondServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": post.ID, "html": rendered})
}

// lookupPost resolves the :id parameter through load. An unparseable id is
// answered exactly like a missing one.
func (a *API) lookupPost(c *gin.Context, load func(context.Context, uint) (*db.Post, error)) (*db.Post, bool) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, postNotFoundMessage)
		return nil, false
	}

	post, err := load(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, postNotFoundMessage)
		} else {
			respondServerError(c, err)
		}
		return nil, false
	}
	return post, true
}
