package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore/internal/apperr"
	"bookstore/internal/service"
	"bookstore/internal/transport/http/middleware"
	"bookstore/internal/transport/http/response"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// --- self-service ---

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.svc.Me(c.GetString(middleware.KeyUserID))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Data(c, http.StatusOK, u)
}

type updateMeIn struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email *string `json:"email" binding:"omitempty,email"`
	Age   *int    `json:"age" binding:"omitempty,gte=1"`
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var in updateMeIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, apperr.BadRequest(err.Error()))
		return
	}
	u, err := h.svc.UpdateMe(c.GetString(middleware.KeyUserID), service.UpdateMeInput{
		Name:  in.Name,
		Email: in.Email,
		Age:   in.Age,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Profile updated successfully", u)
}

type changePasswordIn struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,nefield=OldPassword"`
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var in changePasswordIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, apperr.BadRequest(err.Error()))
		return
	}
	if err := h.svc.ChangePassword(c.GetString(middleware.KeyUserID), in.OldPassword, in.NewPassword); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Password changed successfully", nil)
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	if err := h.svc.DeleteMe(c.GetString(middleware.KeyUserID)); err != nil {
		response.Fail(c, err)
		return
	}
	clearRefreshCookie(c)
	response.Message(c, http.StatusOK, "Account deleted successfully", nil)
}

// --- admin ---

type listUsersQ struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Search   string `form:"search"`
}

func (h *UserHandler) List(c *gin.Context) {
	var q listUsersQ
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, apperr.BadRequest(err.Error()))
		return
	}
	users, total, totalPages, page, err := h.svc.List(q.Page, q.PageSize, q.Search)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Paged(c, http.StatusOK, len(users), total, totalPages, page, users)
}

func (h *UserHandler) GetByID(c *gin.Context) {
	u, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Data(c, http.StatusOK, u)
}

type updateRoleIn struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	var in updateRoleIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, apperr.BadRequest(err.Error()))
		return
	}
	u, err := h.svc.UpdateRole(c.GetString(middleware.KeyUserID), c.Param("id"), in.Role)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Role updated successfully", u)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.GetString(middleware.KeyUserID), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "User soft deleted successfully", nil)
}
