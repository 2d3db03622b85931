package service_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookstore/internal/apperr"
	"bookstore/internal/domain"
	"bookstore/internal/service"
	"bookstore/pkg/utils"
)

func TestPurchaseHappyPath(t *testing.T) {
	db := setupDB(t)
	svc := service.NewPurchaseService(db, zap.NewNop())
	admin := seedUser(t, db, domain.RoleAdmin, "admin@example.com", "secret")
	buyer := seedUser(t, db, domain.RoleUser, "buyer@example.com", "secret")
	book := seedBook(t, db, "Dune", 1, admin.ID)

	res, err := svc.Purchase(context.Background(), book.ID, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, res.Book.ID)
	assert.Equal(t, "Dune", res.Book.Title)
	assert.Equal(t, 0, res.Book.RemainingStock)
	assert.Equal(t, buyer.ID, res.User.ID)
	assert.Equal(t, 1, res.User.TotalPurchased)

	var got domain.Book
	require.NoError(t, db.First(&got, "id = ?", book.ID).Error)
	assert.Equal(t, 0, got.Amount)
}

func TestPurchaseOutOfStock(t *testing.T) {
	db := setupDB(t)
	svc := service.NewPurchaseService(db, zap.NewNop())
	admin := seedUser(t, db, domain.RoleAdmin, "admin@example.com", "secret")
	buyer := seedUser(t, db, domain.RoleUser, "buyer@example.com", "secret")
	book := seedBook(t, db, "Dune", 0, admin.ID)

	_, err := svc.Purchase(context.Background(), book.ID, buyer.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, http.StatusConflict))
	assert.Equal(t, "book is out of stock", err.Error())
}

func TestPurchaseBookNotFound(t *testing.T) {
	db := setupDB(t)
	svc := service.NewPurchaseService(db, zap.NewNop())
	buyer := seedUser(t, db, domain.RoleUser, "buyer@example.com", "secret")

	_, err := svc.Purchase(context.Background(), utils.NewID(), buyer.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, http.StatusNotFound))
}

func TestPurchaseMalformedBookID(t *testing.T) {
	db := setupDB(t)
	svc := service.NewPurchaseService(db, zap.NewNop())
	buyer := seedUser(t, db, domain.RoleUser, "buyer@example.com", "secret")

	_, err := svc.Purchase(context.Background(), "not-a-uuid", buyer.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, http.StatusBadRequest))
}

func TestPurchaseDeletedBook(t *testing.T) {
	db := setupDB(t)
	svc := service.NewPurchaseService(db, zap.NewNop())
	admin := seedUser(t, db, domain.RoleAdmin, "admin@example.com", "secret")
	buyer := seedUser(t, db, domain.RoleUser, "buyer@example.com", "secret")
	book := seedBook(t, db, "Dune", 3, admin.ID)
	require.NoError(t, db.Model(&domain.Book{}).Where("id = ?", book.ID).Update("deleted", true).Error)

	_, err := svc.Purchase(context.Background(), book.ID, buyer.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, http.StatusNotFound))
}

func TestPurchaseDeletedUser(t *testing.T) {
	db := setupDB(t)
	svc := service.NewPurchaseService(db, zap.NewNop())
	admin := seedUser(t, db, domain.RoleAdmin, "admin@example.com", "secret")
	buyer := seedUser(t, db, domain.RoleUser, "buyer@example.com", "secret")
	book := seedBook(t, db, "Dune", 3, admin.ID)
	require.NoError(t, db.Model(&domain.User{}).Where("id = ?", buyer.ID).Update("deleted", true).Error)

	_, err := svc.Purchase(context.Background(), book.ID, buyer.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, http.StatusNotFound))

	// 失败必须整体回滚，库存不能少
	var got domain.Book
	require.NoError(t, db.First(&got, "id = ?", book.ID).Error)
	assert.Equal(t, 3, got.Amount)
}

// Five buyers race for three copies: exactly three succeed, the stock never
// goes negative, and the buyers' counters add up to the stock sold.
func TestPurchaseConcurrentNeverOversells(t *testing.T) {
	db := setupDB(t)
	svc := service.NewPurchaseService(db, zap.NewNop())
	admin := seedUser(t, db, domain.RoleAdmin, "admin@example.com", "secret")

	const stock = 3
	const buyers = 5
	book := seedBook(t, db, "Dune", stock, admin.ID)

	ids := make([]string, buyers)
	for i := range ids {
		u := seedUser(t, db, domain.RoleUser, utils.NewID()+"@example.com", "secret")
		ids[i] = u.ID
	}

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Purchase(context.Background(), book.ID, ids[i])
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.IsCode(err, http.StatusConflict):
			conflict++
		default:
			t.Fatalf("unexpected purchase error: %v", err)
		}
	}
	assert.Equal(t, stock, ok)
	assert.Equal(t, buyers-stock, conflict)

	var got domain.Book
	require.NoError(t, db.First(&got, "id = ?", book.ID).Error)
	assert.Equal(t, 0, got.Amount)

	var totalPurchased int
	require.NoError(t, db.Model(&domain.User{}).
		Where("role = ?", domain.RoleUser).
		Select("COALESCE(SUM(purchased_books), 0)").Scan(&totalPurchased).Error)
	assert.Equal(t, stock, totalPurchased)
}
