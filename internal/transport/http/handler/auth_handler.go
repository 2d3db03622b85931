package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookstore/internal/apperr"
	"bookstore/internal/service"
	"bookstore/internal/transport/http/middleware"
	"bookstore/internal/transport/http/response"
)

const refreshCookie = "refreshToken"

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type registerIn struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Age      *int   `json:"age" binding:"omitempty,gte=1"`
	Device   string `json:"device" binding:"omitempty,max=255"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in registerIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, apperr.BadRequest(err.Error()))
		return
	}
	u, pair, err := h.svc.Register(service.RegisterInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Age:      in.Age,
		Device:   in.Device,
		IP:       c.ClientIP(),
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	setRefreshCookie(c, pair)
	response.Message(c, http.StatusCreated, "User registered successfully", gin.H{
		"user":        u,
		"accessToken": pair.Access,
	})
}

type loginIn struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Device   string `json:"device" binding:"omitempty,max=255"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in loginIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, apperr.BadRequest(err.Error()))
		return
	}
	u, pair, err := h.svc.Login(in.Email, in.Password, in.Device, c.ClientIP())
	if err != nil {
		response.Fail(c, err)
		return
	}
	setRefreshCookie(c, pair)
	response.Message(c, http.StatusOK, "Login successful", gin.H{
		"user":        u,
		"accessToken": pair.Access,
	})
}

// Refresh reads the refresh credential from its cookie only; it is never
// accepted in the body.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(refreshCookie)
	if err != nil || token == "" {
		response.Fail(c, apperr.Unauthorized("refresh token is required"))
		return
	}
	access, err := h.svc.Refresh(token)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Token refreshed successfully", gin.H{
		"accessToken": access,
	})
}

type logoutIn struct {
	Device string `json:"device" binding:"omitempty,max=255"`
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var in logoutIn
	_ = c.ShouldBindJSON(&in) // body 可为空

	token, _ := c.Cookie(refreshCookie)
	if err := h.svc.Logout(c.GetString(middleware.KeyUserID), token, in.Device); err != nil {
		response.Fail(c, err)
		return
	}
	clearRefreshCookie(c)
	response.Message(c, http.StatusOK, "Logged out from this device", nil)
}

func setRefreshCookie(c *gin.Context, pair service.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	maxAge := int(time.Until(pair.RefreshExpiresAt).Seconds())
	c.SetCookie(refreshCookie, pair.Refresh, maxAge, "/", "", true, true)
}

func clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, "", -1, "/", "", true, true)
}
