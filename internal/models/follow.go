package models

import "time"

// Follow is a directed subscription: the follower (UserID) receives the
// followed author's posts in their personalized feed. The pair is unique at
// the storage layer so a duplicate insert race collapses to a no-op, and a
// check constraint rejects self-follows that slip past the service guard.
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_follow_pair;check:chk_follow_not_self,user_id <> author_id" json:"user_id"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_follow_pair;index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`

	User   User `gorm:"foreignKey:UserID" json:"-"`
	Author User `gorm:"foreignKey:AuthorID" json:"-"`
}

// TableName specifies the table name for GORM.
func (Follow) TableName() string {
	return "follows"
}
