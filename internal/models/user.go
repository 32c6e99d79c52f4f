// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a registered author on the platform. Account lifecycle
// (signup, login) is handled by the auth handlers; everything else references
// users by ID or username.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email     string    `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`

	Posts []Post `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}
