package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"bookstore/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

// active is the single place the soft-delete filter is injected.
func (r *UserRepo) active() *gorm.DB {
	return r.db.Where("deleted = ?", false)
}

func (r *UserRepo) Create(u *domain.User) error { return r.db.Create(u).Error }

func (r *UserRepo) FindByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.active().First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.active().First(&u, "email = ?", strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(offset, limit int, search string) ([]domain.User, int64, error) {
	q := r.active().Model(&domain.User{})
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) Update(u *domain.User) error { return r.db.Save(u).Error }

func (r *UserRepo) UpdateRole(id, role string) (int64, error) {
	res := r.db.Model(&domain.User{}).
		Where("id = ? AND deleted = ?", id, false).
		Update("role", role)
	return res.RowsAffected, res.Error
}

func (r *UserRepo) SoftDelete(id string) (int64, error) {
	res := r.db.Model(&domain.User{}).
		Where("id = ? AND deleted = ?", id, false).
		Update("deleted", true)
	return res.RowsAffected, res.Error
}
