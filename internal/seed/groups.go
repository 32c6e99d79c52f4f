package seed

import (
	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInGroup is a permanent system group.
type BuiltInGroup struct {
	Title       string
	Slug        string
	Description string
}

// BuiltInGroups defines the permanent system groups.
var BuiltInGroups = []BuiltInGroup{
	{Title: "The Commonplace", Slug: "general", Description: "Writing that fits nowhere else."},
	{Title: "Verse", Slug: "poetry", Description: "Poems, fragments, and found lines."},
	{Title: "The Long Read", Slug: "essays", Description: "Essays and long-form pieces."},
	{Title: "Field Notes", Slug: "travel", Description: "Writing from the road."},
	{Title: "The Review Desk", Slug: "reviews", Description: "Books, films, and records, considered."},
	{Title: "Kitchen Table", Slug: "food-writing", Description: "Recipes and the stories around them."},
	{Title: "The Workshop", Slug: "craft", Description: "On the craft of writing itself."},
	{Title: "Dispatches", Slug: "news", Description: "Commentary on the day's events."},
}

// Groups seeds the permanent built-in groups. Existing groups with the same
// slug are updated in place, so the call is safe to repeat on every boot.
func Groups(db *gorm.DB) error {
	for _, item := range BuiltInGroups {
		group := models.Group{
			Title:       item.Title,
			Slug:        item.Slug,
			Description: item.Description,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description"}),
		}).Create(&group).Error; err != nil {
			return err
		}
	}
	return nil
}
