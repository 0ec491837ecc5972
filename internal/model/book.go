package model

import (
	"time"
)

// Columns a client may request in an export, in canonical order.
const (
	FieldTitle     = "title"
	FieldAuthor    = "author"
	FieldCreatedAt = "created_at"
)

// ExportTimeLayout is how created_at is rendered in exported files.
const ExportTimeLayout = "2006-01-02 15:04:05"

type Book struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Author    string    `gorm:"size:255;not null" json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Field returns the textual value of an exportable column, or "" for
// unknown names.
func (b Book) Field(name string) string {
	switch name {
	case FieldTitle:
		return b.Title
	case FieldAuthor:
		return b.Author
	case FieldCreatedAt:
		if b.CreatedAt.IsZero() {
			return ""
		}
		return b.CreatedAt.Format(ExportTimeLayout)
	default:
		return ""
	}
}
