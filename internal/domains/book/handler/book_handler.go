package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/service"
	"library-backend/internal/shared/response"
	"library-backend/pkg/logger"
)

// BookHandler exposes the catalog endpoints.
type BookHandler struct {
	service service.Service
}

func NewBookHandler(service service.Service) *BookHandler {
	return &BookHandler{service: service}
}

// Add handles POST /book/admin/add
func (h *BookHandler) Add(c *gin.Context) {
	var req model.AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "All fields are required to add a book.")
		return
	}

	book, err := h.service.AddBook(c.Request.Context(), req)
	if err != nil {
		var vErr validation.Errors
		if errors.As(err, &vErr) {
			response.BadRequest(c, vErr.Error())
			return
		}
		logger.Error("add book failed", err)
		response.InternalServerError(c, "Failed to add book")
		return
	}

	response.OKWith(c, http.StatusCreated, "Book added successfully", gin.H{
		"book": book,
	})
}

// Delete handles DELETE /book/admin/delete/:id
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), id); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			response.NotFound(c, "Book not found.")
			return
		}
		logger.Error("delete book failed", err)
		response.InternalServerError(c, "Failed to delete book")
		return
	}

	response.OK(c, http.StatusOK, "Book deleted successfully")
}

// GetAll handles GET /book/all
func (h *BookHandler) GetAll(c *gin.Context) {
	books, err := h.service.GetAllBooks(c.Request.Context())
	if err != nil {
		logger.Error("list books failed", err)
		response.InternalServerError(c, "Failed to fetch books")
		return
	}

	if books == nil {
		books = []model.Book{}
	}

	response.OKWith(c, http.StatusOK, "", gin.H{
		"books": books,
	})
}
