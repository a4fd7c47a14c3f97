package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bookmodel "library-backend/internal/domains/book/model"
	bookrepo "library-backend/internal/domains/book/repository"
	"library-backend/internal/domains/borrow/model"
	"library-backend/internal/domains/borrow/repository"
	usermodel "library-backend/internal/domains/user/model"
	userrepo "library-backend/internal/domains/user/repository"
	"library-backend/internal/infrastructure/email"
	"library-backend/pkg/database"
	"library-backend/pkg/logger"
)

// CatalogCache is the slice of the catalog service the borrow flow needs:
// stock changed, drop the cached list.
type CatalogCache interface {
	InvalidateCatalogCache(ctx context.Context)
}

// Records older than this past their due date get a reminder mail.
const reminderGrace = 24 * time.Hour

type borrowService struct {
	repo       repository.Repository
	books      bookrepo.Repository
	users      userrepo.Repository
	tx         database.Transactor
	catalog    CatalogCache
	emails     email.EmailService
	loanDays   int
	finePerDay decimal.Decimal

	// now is injectable so fine computation is deterministic in tests.
	now func() time.Time
}

// NewBorrowService wires the lending orchestrator.
func NewBorrowService(
	repo repository.Repository,
	books bookrepo.Repository,
	users userrepo.Repository,
	tx database.Transactor,
	catalog CatalogCache,
	emails email.EmailService,
	loanDays int,
	finePerDay decimal.Decimal,
) Service {
	return &borrowService{
		repo:       repo,
		books:      books,
		users:      users,
		tx:         tx,
		catalog:    catalog,
		emails:     emails,
		loanDays:   loanDays,
		finePerDay: finePerDay,
		now:        time.Now,
	}
}

func (s *borrowService) BorrowBook(ctx context.Context, bookID uuid.UUID, email string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		book, err := s.books.GetByID(ctx, bookID)
		if err != nil {
			return err
		}

		user, err := s.users.FindVerifiedByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user.Role != usermodel.RoleUser {
			// Admin accounts manage lending, they do not borrow.
			return usermodel.ErrUserNotFound
		}

		if book.Quantity < 1 {
			return bookmodel.ErrBookOutOfStock
		}

		_, err = s.repo.FindActiveEntry(ctx, user.ID, bookID)
		if err == nil {
			return model.ErrAlreadyBorrowed
		}
		if !errors.Is(err, model.ErrEntryNotFound) {
			return err
		}

		// Conditional decrement; loses the race gracefully when another
		// borrow took the last copy between GetByID and here.
		if err := s.books.Reserve(ctx, bookID); err != nil {
			return err
		}

		now := s.now()
		dueDate := now.Add(time.Duration(s.loanDays) * 24 * time.Hour)

		entry := &model.UserBorrow{
			ID:         uuid.New(),
			UserID:     user.ID,
			BookID:     book.ID,
			BookTitle:  book.Title,
			BorrowedAt: now,
			DueDate:    dueDate,
			Returned:   false,
		}
		if err := s.repo.AddEntry(ctx, entry); err != nil {
			return err
		}

		record := &model.BorrowRecord{
			ID: uuid.New(),
			User: model.BorrowerInfo{
				ID:    user.ID,
				Name:  user.Name,
				Email: user.Email,
			},
			BookID:     book.ID,
			BorrowedAt: now,
			DueDate:    dueDate,
			Price:      book.Price,
			Fine:       decimal.Zero,
			Notified:   false,
		}
		return s.repo.OpenRecord(ctx, record)
	})
	if err != nil {
		return err
	}

	s.catalog.InvalidateCatalogCache(ctx)

	logger.Info("Book borrowed", map[string]interface{}{
		"bookId": bookID.String(),
		"email":  email,
	})
	return nil
}

func (s *borrowService) ReturnBook(ctx context.Context, bookID uuid.UUID, email string) (*model.ReturnSummary, error) {
	var summary model.ReturnSummary

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.books.GetByID(ctx, bookID); err != nil {
			return err
		}

		user, err := s.users.FindVerifiedByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user.Role != usermodel.RoleUser {
			return usermodel.ErrUserNotFound
		}

		entry, err := s.repo.FindActiveEntry(ctx, user.ID, bookID)
		if err != nil {
			if errors.Is(err, model.ErrEntryNotFound) {
				return model.ErrNotBorrowed
			}
			return err
		}

		now := s.now()
		if err := s.repo.MarkEntryReturned(ctx, entry.ID, now); err != nil {
			return err
		}

		if err := s.books.Release(ctx, bookID); err != nil {
			return err
		}

		// The ledger record was opened in the same transaction as the
		// entry, so a miss here means corrupted state.
		record, err := s.repo.FindOldestOpenRecord(ctx, user.ID, bookID)
		if err != nil {
			return err
		}

		fine := model.CalculateFine(record.DueDate, now, s.finePerDay)
		if err := s.repo.CloseRecord(ctx, record.ID, now, fine); err != nil {
			return err
		}

		summary = model.ReturnSummary{Price: record.Price, Fine: fine}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.catalog.InvalidateCatalogCache(ctx)

	logger.Info("Book returned", map[string]interface{}{
		"bookId": bookID.String(),
		"email":  email,
		"fine":   summary.Fine.String(),
	})
	return &summary, nil
}

func (s *borrowService) MyBorrowedBooks(ctx context.Context, userID uuid.UUID) ([]model.UserBorrow, error) {
	return s.repo.ListEntriesByUser(ctx, userID)
}

func (s *borrowService) AllBorrowRecords(ctx context.Context) ([]model.BorrowRecord, error) {
	return s.repo.ListAllRecords(ctx)
}

func (s *borrowService) BorrowedBooksOf(ctx context.Context, userID uuid.UUID) ([]model.UserBorrow, error) {
	return s.repo.ListEntriesByUser(ctx, userID)
}

func (s *borrowService) NotifyOverdueBorrowers(ctx context.Context) (int, error) {
	threshold := s.now().Add(-reminderGrace)

	overdue, err := s.repo.FindOverdueUnnotified(ctx, threshold)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range overdue {
		record := &overdue[i]

		title := ""
		if book, err := s.books.GetByID(ctx, record.BookID); err == nil {
			title = book.Title
		}

		err := s.emails.SendReminderEmail(ctx, email.ReminderData{
			Name:      record.User.Name,
			Email:     record.User.Email,
			BookTitle: title,
		})
		if err != nil {
			// Leave the record unflagged so the next sweep retries it.
			logger.Error("Failed to send reminder email", err)
			continue
		}

		if err := s.repo.MarkNotified(ctx, record.ID); err != nil {
			logger.Error("Failed to flag notified record", err)
			continue
		}
		sent++
	}

	if sent > 0 {
		logger.Info("Overdue reminders sent", map[string]interface{}{
			"count": sent,
		})
	}
	return sent, nil
}
