package domain

import "time"

// RefreshToken is one issued refresh credential. A user holds one row per
// live session/device; revoking a row logs out that device only.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	Token     string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	UserID    string    `gorm:"size:36;index;not null" json:"-"`
	Device    string    `gorm:"size:255" json:"device"`
	IP        string    `gorm:"size:64" json:"-"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `gorm:"index" json:"expiresAt"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

func (t *RefreshToken) Expired(now time.Time) bool { return now.After(t.ExpiresAt) }

type RefreshTokenRepository interface {
	Save(t *RefreshToken) error
	Find(token string) (*RefreshToken, error)
	DeleteByToken(token string) (int64, error)
	DeleteByDevice(userID, device string) (int64, error)
	DeleteByUser(userID string) error
	DeleteExpired(userID string) error
}
