package service

import (
	"strings"

	"go.uber.org/zap"

	"bookstore/internal/apperr"
	"bookstore/internal/domain"
	"bookstore/pkg/utils"
)

type UserService struct {
	users  domain.UserRepository
	tokens domain.RefreshTokenRepository
	log    *zap.Logger
}

func NewUserService(users domain.UserRepository, tokens domain.RefreshTokenRepository, log *zap.Logger) *UserService {
	return &UserService{users: users, tokens: tokens, log: log}
}

func (s *UserService) Me(id string) (*domain.User, error) {
	u, err := s.users.FindByID(id)
	if err != nil {
		return nil, apperr.Internal("lookup user failed", err)
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

type UpdateMeInput struct {
	Name  *string
	Email *string
	Age   *int
}

func (s *UserService) UpdateMe(id string, in UpdateMeInput) (*domain.User, error) {
	u, err := s.Me(id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != u.Email {
			other, err := s.users.FindByEmail(email)
			if err != nil {
				return nil, apperr.Internal("lookup user failed", err)
			}
			if other != nil {
				return nil, apperr.Conflict("user with this email already exists")
			}
			u.Email = email
		}
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Age != nil {
		u.Age = in.Age
	}
	if err := s.users.Update(u); err != nil {
		return nil, apperr.Internal("update user failed", err)
	}
	return u, nil
}

func (s *UserService) ChangePassword(id, oldPassword, newPassword string) error {
	u, err := s.Me(id)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(oldPassword, u.PasswordHash) {
		return apperr.Unauthorized("old password is incorrect")
	}
	u.PasswordHash = utils.HashPassword(newPassword)
	if err := s.users.Update(u); err != nil {
		return apperr.Internal("update password failed", err)
	}
	return nil
}

// DeleteMe soft-deletes the caller and revokes all their sessions.
func (s *UserService) DeleteMe(id string) error {
	rows, err := s.users.SoftDelete(id)
	if err != nil {
		return apperr.Internal("delete user failed", err)
	}
	if rows == 0 {
		return apperr.NotFound("user not found")
	}
	if err := s.tokens.DeleteByUser(id); err != nil {
		s.log.Warn("revoke sessions failed", zap.String("user_id", id), zap.Error(err))
	}
	return nil
}

// --- admin operations ---

func (s *UserService) List(page, pageSize int, search string) ([]domain.User, int64, int, int, error) {
	p, size, offset := NormalizePage(page, pageSize)
	users, total, err := s.users.List(offset, size, search)
	if err != nil {
		return nil, 0, 0, 0, apperr.Internal("list users failed", err)
	}
	return users, total, TotalPages(total, size), p, nil
}

func (s *UserService) GetByID(id string) (*domain.User, error) {
	if !utils.IsValidID(id) {
		return nil, apperr.NotFound("user not found")
	}
	return s.Me(id)
}

func (s *UserService) UpdateRole(callerID, targetID, role string) (*domain.User, error) {
	if callerID == targetID {
		return nil, apperr.Forbidden("cannot change your own role")
	}
	if !domain.ValidRole(role) {
		return nil, apperr.BadRequest("role must be either user or admin")
	}
	if !utils.IsValidID(targetID) {
		return nil, apperr.NotFound("user not found")
	}
	rows, err := s.users.UpdateRole(targetID, role)
	if err != nil {
		return nil, apperr.Internal("update role failed", err)
	}
	if rows == 0 {
		return nil, apperr.NotFound("user not found")
	}
	s.log.Info("role updated", zap.String("user_id", targetID), zap.String("role", role))
	return s.Me(targetID)
}

func (s *UserService) Delete(callerID, targetID string) error {
	if callerID == targetID {
		return apperr.Forbidden("cannot delete your own account here")
	}
	if !utils.IsValidID(targetID) {
		return apperr.NotFound("user not found")
	}
	rows, err := s.users.SoftDelete(targetID)
	if err != nil {
		return apperr.Internal("delete user failed", err)
	}
	if rows == 0 {
		return apperr.NotFound("user not found")
	}
	if err := s.tokens.DeleteByUser(targetID); err != nil {
		s.log.Warn("revoke sessions failed", zap.String("user_id", targetID), zap.Error(err))
	}
	return nil
}
