package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bookstore/internal/core/auth"
	"bookstore/internal/domain"
	"bookstore/internal/repo"
	"bookstore/internal/service"
	"bookstore/pkg/utils"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + utils.NewID() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// 单连接串行化事务，避免 sqlite busy
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Book{}, &domain.RefreshToken{}))
	return db
}

func testJWTer() *auth.JWTer {
	return &auth.JWTer{Secret: []byte("test-secret"), Issuer: "bookstore-test", TTL: 15 * time.Minute}
}

func newAuthService(t *testing.T, db *gorm.DB) *service.AuthService {
	t.Helper()
	return service.NewAuthService(repo.NewUserRepo(db), repo.NewTokenRepo(db), testJWTer(), 7*24*time.Hour, zap.NewNop())
}

func newUserService(t *testing.T, db *gorm.DB) *service.UserService {
	t.Helper()
	return service.NewUserService(repo.NewUserRepo(db), repo.NewTokenRepo(db), zap.NewNop())
}

func newBookService(t *testing.T, db *gorm.DB) *service.BookService {
	t.Helper()
	return service.NewBookService(repo.NewBookRepo(db), zap.NewNop())
}

func seedUser(t *testing.T, db *gorm.DB, role, email, password string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: utils.HashPassword(password),
		Role:         role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedBook(t *testing.T, db *gorm.DB, title string, amount int, creatorID string) *domain.Book {
	t.Helper()
	b := &domain.Book{
		ID:          utils.NewID(),
		Title:       title,
		Description: "A description long enough to pass validation",
		Amount:      amount,
		CreatedBy:   creatorID,
	}
	require.NoError(t, db.Create(b).Error)
	return b
}
