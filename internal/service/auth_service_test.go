package service_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore/internal/apperr"
	"bookstore/internal/domain"
	"bookstore/internal/service"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(t, db)

	u, pair, err := svc.Register(service.RegisterInput{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email) // 邮箱统一小写
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	assert.True(t, pair.RefreshExpiresAt.After(time.Now()))

	got, _, err := svc.Login("alice@example.com", "secret1", "laptop", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(t, db)

	_, _, err := svc.Register(service.RegisterInput{Name: "Alice", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Register(service.RegisterInput{Name: "Other", Email: "A@EXAMPLE.COM", Password: "secret2"})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, http.StatusConflict))
}

func TestRegisterEmailReusableAfterSoftDelete(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(t, db)
	users := newUserService(t, db)

	old, _, err := svc.Register(service.RegisterInput{Name: "Alice", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, users.DeleteMe(old.ID))

	fresh, _, err := svc.Register(service.RegisterInput{Name: "Alice 2", Email: "a@example.com", Password: "secret2"})
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, fresh.ID)
}

// Unknown email, wrong password and deleted account all fail with the same
// 401 message so login cannot be used to probe which accounts exist.
func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(t, db)
	users := newUserService(t, db)

	u, _, err := svc.Register(service.RegisterInput{Name: "Alice", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, errUnknown := svc.Login("nobody@example.com", "secret1", "", "")
	_, _, errWrongPw := svc.Login("a@example.com", "wrong-pw", "", "")

	require.NoError(t, users.DeleteMe(u.ID))
	_, _, errDeleted := svc.Login("a@example.com", "secret1", "", "")

	for _, err := range []error{errUnknown, errWrongPw, errDeleted} {
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, http.StatusUnauthorized))
		assert.Equal(t, "invalid email or password", err.Error())
	}
}

func TestRefreshToken(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(t, db)

	_, pair, err := svc.Register(service.RegisterInput{Name: "Alice", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	access, err := svc.Refresh(pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	_, err = svc.Refresh("")
	assert.True(t, apperr.IsCode(err, http.StatusUnauthorized))

	_, err = svc.Refresh("deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
	assert.True(t, apperr.IsCode(err, http.StatusForbidden))
}

func TestRefreshExpiredTokenIsRevoked(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(t, db)

	_, pair, err := svc.Register(service.RegisterInput{Name: "Alice", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	// 直接把过期时间改到过去
	require.NoError(t, db.Model(&domain.RefreshToken{}).
		Where("token = ?", pair.Refresh).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, err = svc.Refresh(pair.Refresh)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, http.StatusForbidden))

	// 过期凭证被顺手删除
	var count int64
	require.NoError(t, db.Model(&domain.RefreshToken{}).Where("token = ?", pair.Refresh).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestRefreshRejectedForDeletedUser(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(t, db)

	u, pair, err := svc.Register(service.RegisterInput{Name: "Alice", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, db.Model(&domain.User{}).Where("id = ?", u.ID).Update("deleted", true).Error)

	_, err = svc.Refresh(pair.Refresh)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, http.StatusForbidden))
}

func TestLogoutRevokesOnlyOneSession(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(t, db)

	u, first, err := svc.Register(service.RegisterInput{Name: "Alice", Email: "a@example.com", Password: "secret1", Device: "laptop"})
	require.NoError(t, err)
	_, second, err := svc.Login("a@example.com", "secret1", "phone", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(u.ID, first.Refresh, ""))

	_, err = svc.Refresh(first.Refresh)
	assert.True(t, apperr.IsCode(err, http.StatusForbidden))

	access, err := svc.Refresh(second.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
}

func TestLogoutIgnoresForeignToken(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(t, db)

	_, alicePair, err := svc.Register(service.RegisterInput{Name: "Alice", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	bob, _, err := svc.Register(service.RegisterInput{Name: "Bob", Email: "b@example.com", Password: "secret1"})
	require.NoError(t, err)

	// Bob 注销不了 Alice 的会话
	require.NoError(t, svc.Logout(bob.ID, alicePair.Refresh, ""))

	access, err := svc.Refresh(alicePair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
}
