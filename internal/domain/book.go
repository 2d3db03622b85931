package domain

import "time"

type Book struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:200;index;not null" json:"title"`
	Description string    `gorm:"size:2000;not null" json:"description"`
	Amount      int       `gorm:"not null;default:0" json:"amount"`
	CreatedBy   string    `gorm:"size:36;index;not null" json:"createdBy"`
	Deleted     bool      `gorm:"index;not null;default:false" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Book) TableName() string { return "books" }

type BookRepository interface {
	Create(b *Book) error
	FindByID(id string) (*Book, error)
	// FindByTitle matches case-insensitively among active books,
	// skipping excludeID (pass "" to match all).
	FindByTitle(title, excludeID string) (*Book, error)
	List(offset, limit int, search, sort string) ([]Book, int64, error)
	ListByCreator(creatorID string, offset, limit int) ([]Book, int64, error)
	Update(id string, fields map[string]any) (int64, error)
	SoftDelete(id string) (int64, error)
}
