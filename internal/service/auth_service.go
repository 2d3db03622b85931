package service

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"bookstore/internal/apperr"
	"bookstore/internal/core/auth"
	"bookstore/internal/domain"
	"bookstore/pkg/utils"
)

// 登录失败统一提示，避免账号枚举
const msgInvalidCredentials = "invalid email or password"

type TokenPair struct {
	Access           string
	Refresh          string
	RefreshExpiresAt time.Time
}

type AuthService struct {
	users      domain.UserRepository
	tokens     domain.RefreshTokenRepository
	jwter      *auth.JWTer
	refreshTTL time.Duration
	log        *zap.Logger
}

func NewAuthService(users domain.UserRepository, tokens domain.RefreshTokenRepository, jwter *auth.JWTer, refreshTTL time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, jwter: jwter, refreshTTL: refreshTTL, log: log}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Age      *int
	Device   string
	IP       string
}

func (s *AuthService) Register(in RegisterInput) (*domain.User, TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	existing, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, TokenPair{}, apperr.Internal("lookup user failed", err)
	}
	if existing != nil {
		return nil, TokenPair{}, apperr.Conflict("user with this email already exists")
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: utils.HashPassword(in.Password),
		Role:         domain.RoleUser,
		Age:          in.Age,
	}
	if err := s.users.Create(u); err != nil {
		return nil, TokenPair{}, apperr.Internal("create user failed", err)
	}

	pair, err := s.issueTokens(u, in.Device, in.IP)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.log.Info("user registered", zap.String("user_id", u.ID))
	return u, pair, nil
}

func (s *AuthService) Login(email, password, device, ip string) (*domain.User, TokenPair, error) {
	u, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, TokenPair{}, apperr.Internal("lookup user failed", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, TokenPair{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	// 顺手清理过期 refresh token
	_ = s.tokens.DeleteExpired(u.ID)

	pair, err := s.issueTokens(u, device, ip)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh mints a new access token from a stored refresh credential.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperr.Unauthorized("refresh token is required")
	}
	t, err := s.tokens.Find(refreshToken)
	if err != nil {
		return "", apperr.Internal("lookup refresh token failed", err)
	}
	if t == nil {
		return "", apperr.Forbidden("invalid or expired refresh token")
	}
	if t.Expired(time.Now()) {
		_, _ = s.tokens.DeleteByToken(refreshToken)
		return "", apperr.Forbidden("refresh token expired, please login again")
	}
	u, err := s.users.FindByID(t.UserID)
	if err != nil {
		return "", apperr.Internal("lookup user failed", err)
	}
	if u == nil {
		return "", apperr.Forbidden("invalid or expired refresh token")
	}
	access, err := s.jwter.Issue(u.ID, u.Role)
	if err != nil {
		return "", apperr.Internal("issue token failed", err)
	}
	return access, nil
}

// Logout revokes one refresh credential: by token value when present,
// otherwise by device name. Other sessions stay live.
func (s *AuthService) Logout(callerID, refreshToken, device string) error {
	if refreshToken != "" {
		t, err := s.tokens.Find(refreshToken)
		if err != nil {
			return apperr.Internal("lookup refresh token failed", err)
		}
		if t != nil && t.UserID == callerID {
			if _, err := s.tokens.DeleteByToken(refreshToken); err != nil {
				return apperr.Internal("revoke refresh token failed", err)
			}
			return nil
		}
	}
	if device != "" {
		if _, err := s.tokens.DeleteByDevice(callerID, device); err != nil {
			return apperr.Internal("revoke refresh token failed", err)
		}
	}
	return nil
}

func (s *AuthService) issueTokens(u *domain.User, device, ip string) (TokenPair, error) {
	access, err := s.jwter.Issue(u.ID, u.Role)
	if err != nil {
		return TokenPair{}, apperr.Internal("issue token failed", err)
	}
	refresh, err := auth.NewRefreshToken()
	if err != nil {
		return TokenPair{}, apperr.Internal("issue refresh token failed", err)
	}
	if device == "" {
		device = "Unknown Device"
	}
	now := time.Now()
	exp := now.Add(s.refreshTTL)
	if err := s.tokens.Save(&domain.RefreshToken{
		Token:     refresh,
		UserID:    u.ID,
		Device:    device,
		IP:        ip,
		IssuedAt:  now,
		ExpiresAt: exp,
	}); err != nil {
		return TokenPair{}, apperr.Internal("store refresh token failed", err)
	}
	return TokenPair{Access: access, Refresh: refresh, RefreshExpiresAt: exp}, nil
}
