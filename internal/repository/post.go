package repository

import (
	"context"
	"strings"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	List(ctx context.Context) ([]*models.Post, error)
	Search(ctx context.Context, query string) ([]*models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// List returns all posts with their authors, newest first. The id tie-break
// keeps the order deterministic for posts created within the same timestamp.
func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Search performs a case-insensitive substring match against post title, post
// content, and author username. An empty or whitespace-only query returns all
// posts; GET and POST search share this behavior.
func (r *postRepository) Search(ctx context.Context, query string) ([]*models.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.List(ctx)
	}

	// LOWER(...) LIKE keeps semantics identical on PostgreSQL and the sqlite
	// driver used in tests; ILIKE is PostgreSQL-only.
	like := "%" + strings.ToLower(query) + "%"
	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = posts.user_id").
		Where("LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ? OR LOWER(users.username) LIKE ?",
			like, like, like).
		Preload("User").
		Order("posts.created_at DESC, posts.id DESC").
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}
