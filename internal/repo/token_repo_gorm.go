package repo

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"bookstore/internal/domain"
)

type TokenRepo struct{ db *gorm.DB }

func NewTokenRepo(db *gorm.DB) *TokenRepo { return &TokenRepo{db: db} }

func (r *TokenRepo) Save(t *domain.RefreshToken) error { return r.db.Create(t).Error }

func (r *TokenRepo) Find(token string) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	err := r.db.First(&t, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TokenRepo) DeleteByToken(token string) (int64, error) {
	res := r.db.Where("token = ?", token).Delete(&domain.RefreshToken{})
	return res.RowsAffected, res.Error
}

func (r *TokenRepo) DeleteByDevice(userID, device string) (int64, error) {
	res := r.db.Where("user_id = ? AND device = ?", userID, device).Delete(&domain.RefreshToken{})
	return res.RowsAffected, res.Error
}

func (r *TokenRepo) DeleteByUser(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&domain.RefreshToken{}).Error
}

func (r *TokenRepo) DeleteExpired(userID string) error {
	return r.db.Where("user_id = ? AND expires_at < ?", userID, time.Now()).
		Delete(&domain.RefreshToken{}).Error
}
