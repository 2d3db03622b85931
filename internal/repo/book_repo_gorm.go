package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"bookstore/internal/domain"
)

type BookRepo struct{ db *gorm.DB }

func NewBookRepo(db *gorm.DB) *BookRepo { return &BookRepo{db: db} }

func (r *BookRepo) active() *gorm.DB {
	return r.db.Where("deleted = ?", false)
}

// 列表排序白名单，防注入
var bookSortColumns = map[string]string{
	"":           "created_at DESC",
	"newest":     "created_at DESC",
	"oldest":     "created_at ASC",
	"title":      "title ASC",
	"amount":     "amount DESC",
	"created_at": "created_at DESC",
}

func (r *BookRepo) Create(b *domain.Book) error { return r.db.Create(b).Error }

func (r *BookRepo) FindByID(id string) (*domain.Book, error) {
	var b domain.Book
	err := r.active().First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookRepo) FindByTitle(title, excludeID string) (*domain.Book, error) {
	q := r.active().Where("LOWER(title) = ?", strings.ToLower(strings.TrimSpace(title)))
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var b domain.Book
	err := q.First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookRepo) List(offset, limit int, search, sort string) ([]domain.Book, int64, error) {
	q := r.active().Model(&domain.Book{})
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order, ok := bookSortColumns[sort]
	if !ok {
		order = bookSortColumns[""]
	}
	var books []domain.Book
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&books).Error; err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *BookRepo) ListByCreator(creatorID string, offset, limit int) ([]domain.Book, int64, error) {
	q := r.active().Model(&domain.Book{}).Where("created_by = ?", creatorID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var books []domain.Book
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&books).Error; err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *BookRepo) Update(id string, fields map[string]any) (int64, error) {
	res := r.db.Model(&domain.Book{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *BookRepo) SoftDelete(id string) (int64, error) {
	res := r.db.Model(&domain.Book{}).
		Where("id = ? AND deleted = ?", id, false).
		Update("deleted", true)
	return res.RowsAffected, res.Error
}
