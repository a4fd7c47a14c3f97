package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bookmodel "library-backend/internal/domains/book/model"
	"library-backend/internal/domains/borrow/model"
	"library-backend/internal/domains/borrow/service"
	usermodel "library-backend/internal/domains/user/model"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
	"library-backend/pkg/logger"
)

// BorrowHandler exposes the lending endpoints.
type BorrowHandler struct {
	service service.Service
}

func NewBorrowHandler(svc service.Service) *BorrowHandler {
	return &BorrowHandler{service: svc}
}

// Borrow handles POST /api/v1/borrow
func (h *BorrowHandler) Borrow(c *gin.Context) {
	var req model.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "bookId and email are required.")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		response.BadRequest(c, "bookId must be a valid id.")
		return
	}

	if err := h.service.BorrowBook(c.Request.Context(), bookID, req.Email); err != nil {
		h.writeBorrowError(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Borrowed Book Recorded successfully")
}

// Return handles PUT /api/v1/borrow/return-borrowed-book/:bookId
func (h *BorrowHandler) Return(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		response.BadRequest(c, "bookId must be a valid id.")
		return
	}

	var req model.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email is required.")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	summary, err := h.service.ReturnBook(c.Request.Context(), bookID, req.Email)
	if err != nil {
		h.writeBorrowError(c, err)
		return
	}

	var message string
	if summary.Fine.IsPositive() {
		message = fmt.Sprintf(
			"Book has been returned successfully! your total charges including %s are $%s .",
			summary.Fine.String(), summary.Total().String())
	} else {
		message = fmt.Sprintf(
			"Book has been returned successfully! your total charges are $%s .",
			summary.Price.String())
	}

	response.OK(c, http.StatusOK, message)
}

// MyBorrowedBooks handles GET /api/v1/borrow/my-borrowed-books
func (h *BorrowHandler) MyBorrowedBooks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized.")
		return
	}

	entries, err := h.service.MyBorrowedBooks(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list borrowed books", err)
		response.InternalServerError(c, "Internal server error.")
		return
	}
	if entries == nil {
		entries = []model.UserBorrow{}
	}

	response.OKWith(c, http.StatusOK, "", gin.H{"borrowedBooks": entries})
}

// BorrowedBooksByUsers handles GET /api/v1/borrow/borrowed-books-by-users
// (admin only).
func (h *BorrowHandler) BorrowedBooksByUsers(c *gin.Context) {
	records, err := h.service.AllBorrowRecords(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list borrow records", err)
		response.InternalServerError(c, "Internal server error.")
		return
	}
	if records == nil {
		records = []model.BorrowRecord{}
	}

	response.OKWith(c, http.StatusOK, "", gin.H{"borrowedBooks": records})
}

func (h *BorrowHandler) writeBorrowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, bookmodel.ErrBookNotFound):
		response.NotFound(c, "Book not found.")
	case errors.Is(err, usermodel.ErrUserNotFound):
		response.NotFound(c, "User not found.")
	case errors.Is(err, bookmodel.ErrBookOutOfStock):
		response.BadRequest(c, "Book is out of stock.")
	case errors.Is(err, model.ErrAlreadyBorrowed):
		response.BadRequest(c, "User has already borrowed this book.")
	case errors.Is(err, model.ErrNotBorrowed):
		response.BadRequest(c, "This book is not borrowed by the user.")
	case errors.Is(err, model.ErrRecordNotFound):
		// Entry and ledger are written together; a missing record means
		// the stores disagree.
		logger.Error("Ledger record missing for active borrow", err)
		response.InternalServerError(c, "Borrow record not found.")
	default:
		logger.Error("Borrow operation failed", err)
		response.InternalServerError(c, "Internal server error.")
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	idStr, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
