package models

import "time"

// Post is an authored entry. CreatedAt is set once on insert and is the sole
// sort key for every listing (newest first).
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id,omitempty"`
	Group     *Group    `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}
