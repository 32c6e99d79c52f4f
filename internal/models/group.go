package models

import "time"

// Group is a named topic posts can be filed under. Groups are referenced,
// not owned, by posts: deleting a group does not delete its posts.
type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Group) TableName() string {
	return "groups"
}
