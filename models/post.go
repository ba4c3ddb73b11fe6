package models

import "time"

// Post is a text entry written by an author, optionally tagged with a group.
// Image holds a blob reference relative to the media root, e.g. posts/<name>.png.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index;autoCreateTime" json:"created_at"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL;" json:"group,omitempty"`
	Image     string    `gorm:"size:255" json:"image,omitempty"`
	Comments  []Comment `gorm:"constraint:OnDelete:CASCADE;" json:"comments,omitempty"`
}
