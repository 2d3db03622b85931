package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore/internal/apperr"
	"bookstore/internal/service"
	"bookstore/internal/transport/http/middleware"
	"bookstore/internal/transport/http/response"
)

type BookHandler struct {
	svc       *service.BookService
	purchases *service.PurchaseService
}

func NewBookHandler(svc *service.BookService, purchases *service.PurchaseService) *BookHandler {
	return &BookHandler{svc: svc, purchases: purchases}
}

type listBooksQ struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Search   string `form:"search"`
	Sort     string `form:"sort"`
}

func (h *BookHandler) List(c *gin.Context) {
	var q listBooksQ
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, apperr.BadRequest(err.Error()))
		return
	}
	books, total, totalPages, page, err := h.svc.List(q.Page, q.PageSize, q.Search, q.Sort)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Paged(c, http.StatusOK, len(books), total, totalPages, page, books)
}

func (h *BookHandler) GetByID(c *gin.Context) {
	b, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Data(c, http.StatusOK, b)
}

type createBookIn struct {
	Title       string `json:"title" binding:"required,min=2,max=200"`
	Description string `json:"description" binding:"required,min=10,max=2000"`
	Amount      int    `json:"amount" binding:"required,gte=1"`
}

func (h *BookHandler) Create(c *gin.Context) {
	var in createBookIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, apperr.BadRequest(err.Error()))
		return
	}
	b, err := h.svc.Create(service.CreateBookInput{
		Title:       in.Title,
		Description: in.Description,
		Amount:      in.Amount,
		CreatorID:   c.GetString(middleware.KeyUserID),
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "Book created successfully", b)
}

type updateBookIn struct {
	Title       *string `json:"title" binding:"omitempty,min=2,max=200"`
	Description *string `json:"description" binding:"omitempty,min=10,max=2000"`
	Amount      *int    `json:"amount" binding:"omitempty,gte=0"`
}

func (h *BookHandler) Update(c *gin.Context) {
	var in updateBookIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, apperr.BadRequest(err.Error()))
		return
	}
	b, err := h.svc.Update(c.Param("id"), service.UpdateBookInput{
		Title:       in.Title,
		Description: in.Description,
		Amount:      in.Amount,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Book updated successfully", b)
}

func (h *BookHandler) Delete(c *gin.Context) {
	if err := h.svc.SoftDelete(c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Book deleted successfully", nil)
}

func (h *BookHandler) MyBooks(c *gin.Context) {
	var q listBooksQ
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, apperr.BadRequest(err.Error()))
		return
	}
	books, total, totalPages, page, err := h.svc.MyBooks(c.GetString(middleware.KeyUserID), q.Page, q.PageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Paged(c, http.StatusOK, len(books), total, totalPages, page, books)
}

type buyBookIn struct {
	BookID string `json:"bookId" binding:"required"`
}

func (h *BookHandler) Buy(c *gin.Context) {
	var in buyBookIn
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, apperr.BadRequest(err.Error()))
		return
	}
	res, err := h.purchases.Purchase(c.Request.Context(), in.BookID, c.GetString(middleware.KeyUserID))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Book purchased successfully!", res)
}
