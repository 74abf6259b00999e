// Package seed provides helpers to create development and demo data. Not used
// in production.
package seed

import (
	"fmt"
	"log"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the local credential every seeded user gets.
const DemoPassword = "password123"

// Options controls how much demo data Run creates.
type Options struct {
	Users        int
	PostsPerUser int
	Seed         int64 // non-zero pins gofakeit for reproducible runs
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, seedVal int64) *Factory {
	if seedVal != 0 {
		gofakeit.Seed(seedVal)
	}
	return &Factory{db: db}
}

// CreateUser persists a fake local user. The email is prefixed with an index
// to keep seeded emails unique across runs.
func (f *Factory) CreateUser(i int) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: gofakeit.Name(),
		Email:    fmt.Sprintf("demo%d.%s", i, gofakeit.Email()),
		Password: string(hashed),
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost persists a fake post owned by the given user.
func (f *Factory) CreatePost(user *models.User) (*models.Post, error) {
	post := &models.Post{
		Title:   gofakeit.Sentence(5),
		Content: gofakeit.Paragraph(1, 3, 8, "\n"),
		UserID:  user.ID,
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// Run populates the database with demo users and posts.
func Run(db *gorm.DB, opts Options) error {
	if opts.Users <= 0 {
		opts.Users = 5
	}
	if opts.PostsPerUser <= 0 {
		opts.PostsPerUser = 3
	}

	f := NewFactory(db, opts.Seed)
	for i := 0; i < opts.Users; i++ {
		user, err := f.CreateUser(i)
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		for j := 0; j < opts.PostsPerUser; j++ {
			if _, err := f.CreatePost(user); err != nil {
				return fmt.Errorf("seed post: %w", err)
			}
		}
	}

	log.Printf("Seeded %d users with %d posts each (password %q)",
		opts.Users, opts.PostsPerUser, DemoPassword)
	return nil
}
