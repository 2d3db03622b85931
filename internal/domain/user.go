package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func ValidRole(r string) bool { return r == RoleUser || r == RoleAdmin }

type User struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Email          string    `gorm:"size:255;index;not null" json:"email"`
	PasswordHash   string    `gorm:"size:100;not null" json:"-"`
	Role           string    `gorm:"size:16;not null;default:user" json:"role"`
	Age            *int      `json:"age,omitempty"`
	PurchasedBooks int       `gorm:"not null;default:0" json:"purchasedBooks"`
	Deleted        bool      `gorm:"index;not null;default:false" json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// UserRepository reads exclude soft-deleted rows unless stated otherwise.
// Find methods return (nil, nil) when no active row matches.
// Email has no DB unique index: uniqueness holds among active rows only,
// so a deleted user's email can be registered again.
type UserRepository interface {
	Create(u *User) error
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	List(offset, limit int, search string) ([]User, int64, error)
	Update(u *User) error
	UpdateRole(id, role string) (int64, error)
	SoftDelete(id string) (int64, error)
}
