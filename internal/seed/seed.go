package seed

import (
	"fmt"
	"log"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with demo users, posts, comments, and a
// random follow mesh across the built-in groups.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	if err := Groups(db); err != nil {
		return fmt.Errorf("failed to seed built-in groups: %w", err)
	}

	var groups []models.Group
	if err := db.Find(&groups).Error; err != nil {
		return fmt.Errorf("failed to load groups: %w", err)
	}

	f := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("%d demo users created", len(users))

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rand.Intn(len(users))]
		var group *models.Group
		// Roughly a third of posts land outside any group.
		if f.rand.Intn(3) != 0 && len(groups) > 0 {
			group = &groups[f.rand.Intn(len(groups))]
		}
		posts = append(posts, f.BuildPost(author, group, 90))
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d demo posts created", len(posts))

	comments := 0
	for _, post := range posts {
		for i := f.rand.Intn(4); i > 0; i-- {
			commenter := users[f.rand.Intn(len(users))]
			if _, err := f.CreateComment(commenter, post); err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}
			comments++
		}
	}
	log.Printf("%d demo comments created", comments)

	follows := 0
	for _, user := range users {
		for i := f.rand.Intn(len(users)); i > 0; i-- {
			author := users[f.rand.Intn(len(users))]
			if err := f.CreateFollow(user, author); err != nil {
				return fmt.Errorf("failed to create follow: %w", err)
			}
			follows++
		}
	}
	log.Printf("follow mesh created (%d attempts)", follows)

	log.Println("Database seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	// Dependents first so FK constraints do not block the truncation.
	for _, model := range []any{
		&models.Comment{},
		&models.Follow{},
		&models.Post{},
		&models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
