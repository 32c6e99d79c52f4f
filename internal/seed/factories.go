// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("DemoPassword12!"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashed),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post without persisting it. CreatedAt is spread
// over the past maxDays so listings look lived-in.
func (f *Factory) BuildPost(author *models.User, group *models.Group, maxDays int, overrides ...func(*models.Post)) *models.Post {
	if maxDays <= 0 {
		maxDays = 90
	}

	post := &models.Post{
		Text:     gofakeit.Paragraph(1, 3, 12, "\n"),
		AuthorID: author.ID,
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	if f.rand.Intn(4) == 0 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
	}

	daysBack := f.rand.Intn(maxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack) * 24 * time.Hour).
		Add(-time.Duration(hoursBack) * time.Hour).
		Add(-time.Duration(minsBack) * time.Minute)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateComment persists a generated comment on the post.
func (f *Factory) CreateComment(author *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Text:      gofakeit.Sentence(f.rand.Intn(12) + 3),
		AuthorID:  author.ID,
		PostID:    post.ID,
		CreatedAt: post.CreatedAt.Add(time.Duration(f.rand.Intn(600)+1) * time.Minute),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateFollow subscribes user to author. Self-pairs are skipped and
// duplicates are absorbed, so random meshes never fail.
func (f *Factory) CreateFollow(user, author *models.User) error {
	if user.ID == author.ID {
		return nil
	}
	follow := &models.Follow{UserID: user.ID, AuthorID: author.ID}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(follow).Error
}
