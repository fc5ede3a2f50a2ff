// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"threadline/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with test data: users, posts, and nested
// comment threads including anonymous and yet-unapproved entries.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	posts, err := createPosts(db, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	total, err := createThreads(db, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comment threads: %w", err)
	}
	log.Printf("✓ %d comments created across %d posts", total, len(posts))

	return nil
}

func clearData(db *gorm.DB) error {
	tables := []string{"comments", "posts", "users"}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		user := models.User{
			Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
			Email:    gofakeit.Email(),
			Password: string(hashed),
		}
		// The first account is the moderator for local testing.
		if i == 0 {
			user.Username = "admin"
			user.Email = "admin@threadline.local"
			user.IsAdmin = true
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createPosts(db *gorm.DB, users []models.User, count int) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]
		post := models.Post{
			Title:  gofakeit.Sentence(5),
			Body:   gofakeit.Paragraph(1, 3, 5, "\n"),
			UserID: author.ID,
		}
		if err := db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// createThreads grows a small comment tree under each post. Roughly one
// in four comments is anonymous, and one in five starts hidden so the
// moderation queue has something to show.
func createThreads(db *gorm.DB, users []models.User, posts []models.Post) (int, error) {
	total := 0
	for _, post := range posts {
		numRoots := rand.Intn(4) + 1
		parents := make([]*models.Comment, 0, numRoots*3)

		for i := 0; i < numRoots; i++ {
			root, err := createComment(db, post, users, nil)
			if err != nil {
				return total, err
			}
			total++
			parents = append(parents, root)
		}

		// Replies to random existing comments, keeping the tree ragged.
		numReplies := rand.Intn(8)
		for i := 0; i < numReplies && len(parents) > 0; i++ {
			parent := parents[rand.Intn(len(parents))]
			reply, err := createComment(db, post, users, &parent.ID)
			if err != nil {
				return total, err
			}
			total++
			parents = append(parents, reply)
		}
	}
	return total, nil
}

func createComment(db *gorm.DB, post models.Post, users []models.User, parentID *uint) (*models.Comment, error) {
	comment := &models.Comment{
		ParentID:  parentID,
		Body:      gofakeit.Paragraph(1, 2, 8, " "),
		Markup:    models.MarkupPlaintext,
		IsPublic:  rand.Intn(5) != 0,
		IPAddress: gofakeit.IPv4Address(),
	}
	comment.SetOwner(post.Ref())

	if rand.Intn(4) == 0 {
		comment.AuthorName = gofakeit.Name()
		comment.AuthorWebsite = gofakeit.URL()
		comment.AuthorEmail = gofakeit.Email()
	} else {
		author := users[rand.Intn(len(users))]
		comment.UserID = &author.ID
	}

	// A slice of the hidden comments is already moderated.
	if !comment.IsPublic && rand.Intn(2) == 0 {
		comment.IsApproved = true
	}

	if err := db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
