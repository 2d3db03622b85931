package service

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookstore/internal/apperr"
	"bookstore/internal/domain"
	"bookstore/pkg/utils"
)

var purchasesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "bookstore_purchases_total", Help: "Purchase attempts by result"},
	[]string{"result"},
)

func init() { prometheus.MustRegister(purchasesTotal) }

type PurchaseBook struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	RemainingStock int    `json:"remainingStock"`
}

type PurchaseUser struct {
	ID             string `json:"id"`
	TotalPurchased int    `json:"totalPurchased"`
}

type PurchaseResult struct {
	Book PurchaseBook `json:"book"`
	User PurchaseUser `json:"user"`
}

// PurchaseService moves one unit of stock from a book to a user's purchase
// tally. It works on *gorm.DB directly because the decrement and the counter
// increment must share one transaction.
type PurchaseService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPurchaseService(db *gorm.DB, log *zap.Logger) *PurchaseService {
	return &PurchaseService{db: db, log: log}
}

// Purchase is all-or-nothing: any error inside the transaction rolls both
// writes back. The decrement is conditional on amount > 0, so of two racing
// buyers of the last copy exactly one sees RowsAffected == 1; the loser gets
// Conflict without a negative stock ever being persisted.
func (s *PurchaseService) Purchase(ctx context.Context, bookID, userID string) (*PurchaseResult, error) {
	if !utils.IsValidID(bookID) {
		purchasesTotal.WithLabelValues("bad_request").Inc()
		return nil, apperr.BadRequest("invalid book id")
	}

	var out PurchaseResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Book
		if err := tx.Where("id = ? AND deleted = ?", bookID, false).First(&b).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("book not found")
			}
			return apperr.Internal("lookup book failed", err)
		}
		if b.Amount <= 0 {
			return apperr.Conflict("book is out of stock")
		}

		var u domain.User
		if err := tx.Where("id = ? AND deleted = ?", userID, false).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("user not found")
			}
			return apperr.Internal("lookup user failed", err)
		}

		res := tx.Model(&domain.Book{}).
			Where("id = ? AND deleted = ? AND amount > 0", bookID, false).
			UpdateColumn("amount", gorm.Expr("amount - 1"))
		if res.Error != nil {
			return apperr.Internal("decrement stock failed", res.Error)
		}
		if res.RowsAffected == 0 {
			// 并发竞争失败：别人先买走了最后一本
			return apperr.Conflict("book is out of stock")
		}

		res = tx.Model(&domain.User{}).
			Where("id = ? AND deleted = ?", userID, false).
			UpdateColumn("purchased_books", gorm.Expr("purchased_books + 1"))
		if res.Error != nil {
			return apperr.Internal("increment purchase counter failed", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("user not found")
		}

		// 回读提交值：初次读到的快照可能已经过期
		var remaining int
		if err := tx.Model(&domain.Book{}).Where("id = ?", bookID).
			Select("amount").Scan(&remaining).Error; err != nil {
			return apperr.Internal("reload stock failed", err)
		}
		var purchased int
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).
			Select("purchased_books").Scan(&purchased).Error; err != nil {
			return apperr.Internal("reload purchase counter failed", err)
		}

		out = PurchaseResult{
			Book: PurchaseBook{ID: b.ID, Title: b.Title, RemainingStock: remaining},
			User: PurchaseUser{ID: u.ID, TotalPurchased: purchased},
		}
		return nil
	})
	if err != nil {
		switch apperr.Status(err) {
		case 409:
			purchasesTotal.WithLabelValues("out_of_stock").Inc()
		case 404:
			purchasesTotal.WithLabelValues("not_found").Inc()
		default:
			purchasesTotal.WithLabelValues("error").Inc()
			s.log.Error("purchase failed", zap.String("book_id", bookID), zap.Error(err))
		}
		return nil, err
	}

	purchasesTotal.WithLabelValues("ok").Inc()
	s.log.Info("book purchased",
		zap.String("book_id", bookID),
		zap.String("user_id", userID),
		zap.Int("remaining", out.Book.RemainingStock),
	)
	return &out, nil
}
