package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookmodel "library-backend/internal/domains/book/model"
	"library-backend/internal/domains/borrow/model"
	usermodel "library-backend/internal/domains/user/model"
	"library-backend/internal/infrastructure/email"
)

// ---- mocks ----

type mockBookRepo struct {
	books map[uuid.UUID]*bookmodel.Book
}

func newMockBookRepo(books ...*bookmodel.Book) *mockBookRepo {
	m := &mockBookRepo{books: make(map[uuid.UUID]*bookmodel.Book)}
	for _, b := range books {
		m.books[b.ID] = b
	}
	return m
}

func (m *mockBookRepo) Create(ctx context.Context, book *bookmodel.Book) error {
	m.books[book.ID] = book
	return nil
}

func (m *mockBookRepo) GetByID(ctx context.Context, id uuid.UUID) (*bookmodel.Book, error) {
	b, ok := m.books[id]
	if !ok {
		return nil, bookmodel.ErrBookNotFound
	}
	copy := *b
	return &copy, nil
}

func (m *mockBookRepo) List(ctx context.Context) ([]bookmodel.Book, error) {
	var out []bookmodel.Book
	for _, b := range m.books {
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockBookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.books, id)
	return nil
}

func (m *mockBookRepo) Reserve(ctx context.Context, id uuid.UUID) error {
	b, ok := m.books[id]
	if !ok || b.Quantity < 1 {
		return bookmodel.ErrBookOutOfStock
	}
	b.Quantity--
	b.Availability = b.Quantity > 0
	return nil
}

func (m *mockBookRepo) Release(ctx context.Context, id uuid.UUID) error {
	b, ok := m.books[id]
	if !ok {
		return bookmodel.ErrBookNotFound
	}
	b.Quantity++
	b.Availability = true
	return nil
}

type mockUserRepo struct {
	users map[string]*usermodel.User // keyed by email
}

func newMockUserRepo(users ...*usermodel.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[string]*usermodel.User)}
	for _, u := range users {
		m.users[u.Email] = u
	}
	return m
}

func (m *mockUserRepo) Create(ctx context.Context, u *usermodel.User) error {
	m.users[u.Email] = u
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*usermodel.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, usermodel.ErrUserNotFound
}

func (m *mockUserRepo) FindVerifiedByEmail(ctx context.Context, email string) (*usermodel.User, error) {
	u, ok := m.users[email]
	if !ok || !u.Verified {
		return nil, usermodel.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) FindLatestUnverifiedByEmail(ctx context.Context, email string) (*usermodel.User, error) {
	return nil, usermodel.ErrUserNotFound
}

func (m *mockUserRepo) CountUnverifiedByEmail(ctx context.Context, email string) (int, error) {
	return 0, nil
}

func (m *mockUserRepo) ExistsVerifiedByEmail(ctx context.Context, email string) (bool, error) {
	u, ok := m.users[email]
	return ok && u.Verified, nil
}

func (m *mockUserRepo) MarkVerified(ctx context.Context, id uuid.UUID) error { return nil }

func (m *mockUserRepo) DeleteUnverifiedByEmail(ctx context.Context, email string, keepID uuid.UUID) error {
	return nil
}

func (m *mockUserRepo) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	return nil
}

func (m *mockUserRepo) FindByResetTokenHash(ctx context.Context, tokenHash string) (*usermodel.User, error) {
	return nil, usermodel.ErrUserNotFound
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return nil
}

func (m *mockUserRepo) ListVerified(ctx context.Context) ([]usermodel.User, error) {
	return nil, nil
}

type mockBorrowRepo struct {
	entries []*model.UserBorrow
	records []*model.BorrowRecord

	// When set, the ledger pretends to be empty. Simulates the stores
	// disagreeing.
	hideRecords bool
}

func (m *mockBorrowRepo) FindActiveEntry(ctx context.Context, userID, bookID uuid.UUID) (*model.UserBorrow, error) {
	for _, e := range m.entries {
		if e.UserID == userID && e.BookID == bookID && !e.Returned {
			return e, nil
		}
	}
	return nil, model.ErrEntryNotFound
}

func (m *mockBorrowRepo) AddEntry(ctx context.Context, entry *model.UserBorrow) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockBorrowRepo) MarkEntryReturned(ctx context.Context, entryID uuid.UUID, returnedAt time.Time) error {
	for _, e := range m.entries {
		if e.ID == entryID && !e.Returned {
			e.Returned = true
			at := returnedAt
			e.ReturnedAt = &at
			return nil
		}
	}
	return model.ErrEntryNotFound
}

func (m *mockBorrowRepo) ListEntriesByUser(ctx context.Context, userID uuid.UUID) ([]model.UserBorrow, error) {
	var out []model.UserBorrow
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockBorrowRepo) OpenRecord(ctx context.Context, record *model.BorrowRecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *mockBorrowRepo) FindOldestOpenRecord(ctx context.Context, userID, bookID uuid.UUID) (*model.BorrowRecord, error) {
	if m.hideRecords {
		return nil, model.ErrRecordNotFound
	}
	var oldest *model.BorrowRecord
	for _, r := range m.records {
		if r.User.ID == userID && r.BookID == bookID && r.ReturnDate == nil {
			if oldest == nil || r.BorrowedAt.Before(oldest.BorrowedAt) {
				oldest = r
			}
		}
	}
	if oldest == nil {
		return nil, model.ErrRecordNotFound
	}
	return oldest, nil
}

func (m *mockBorrowRepo) CloseRecord(ctx context.Context, recordID uuid.UUID, returnDate time.Time, fine decimal.Decimal) error {
	for _, r := range m.records {
		if r.ID == recordID && r.ReturnDate == nil {
			at := returnDate
			r.ReturnDate = &at
			r.Fine = fine
			return nil
		}
	}
	return model.ErrRecordNotFound
}

func (m *mockBorrowRepo) ListAllRecords(ctx context.Context) ([]model.BorrowRecord, error) {
	var out []model.BorrowRecord
	for _, r := range m.records {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockBorrowRepo) FindOverdueUnnotified(ctx context.Context, dueBefore time.Time) ([]model.BorrowRecord, error) {
	var out []model.BorrowRecord
	for _, r := range m.records {
		if r.ReturnDate == nil && !r.Notified && r.DueDate.Before(dueBefore) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockBorrowRepo) MarkNotified(ctx context.Context, recordID uuid.UUID) error {
	for _, r := range m.records {
		if r.ID == recordID {
			r.Notified = true
			return nil
		}
	}
	return model.ErrRecordNotFound
}

// passTx runs the function directly; the real implementation binds a
// database transaction.
type passTx struct{}

func (passTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockCatalog struct {
	invalidations int
}

func (m *mockCatalog) InvalidateCatalogCache(ctx context.Context) { m.invalidations++ }

type mockEmailService struct {
	reminders []email.ReminderData
}

func (m *mockEmailService) SendOTPEmail(ctx context.Context, data email.OTPEmailData) error {
	return nil
}

func (m *mockEmailService) SendResetPasswordEmail(ctx context.Context, data email.ResetPasswordData) error {
	return nil
}

func (m *mockEmailService) SendReminderEmail(ctx context.Context, data email.ReminderData) error {
	m.reminders = append(m.reminders, data)
	return nil
}

// ---- fixtures ----

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func testBook(quantity int) *bookmodel.Book {
	return &bookmodel.Book{
		ID:           uuid.New(),
		Title:        "The Go Programming Language",
		Author:       "Donovan & Kernighan",
		Price:        decimal.RequireFromString("35.00"),
		Quantity:     quantity,
		Availability: quantity > 0,
	}
}

func testMember() *usermodel.User {
	return &usermodel.User{
		ID:       uuid.New(),
		Name:     "Alice",
		Email:    "alice@example.com",
		Role:     usermodel.RoleUser,
		Verified: true,
	}
}

type fixture struct {
	svc     *borrowService
	books   *mockBookRepo
	users   *mockUserRepo
	borrows *mockBorrowRepo
	catalog *mockCatalog
	emails  *mockEmailService
}

func newFixture(t *testing.T, book *bookmodel.Book, user *usermodel.User) *fixture {
	t.Helper()

	f := &fixture{
		books:   newMockBookRepo(book),
		users:   newMockUserRepo(user),
		borrows: &mockBorrowRepo{},
		catalog: &mockCatalog{},
		emails:  &mockEmailService{},
	}

	svc := NewBorrowService(
		f.borrows, f.books, f.users, passTx{}, f.catalog, f.emails,
		7, decimal.RequireFromString("10.00"),
	).(*borrowService)
	svc.now = func() time.Time { return testNow }

	f.svc = svc
	return f
}

// ---- tests ----

func TestBorrowBook(t *testing.T) {
	book := testBook(3)
	user := testMember()
	f := newFixture(t, book, user)

	err := f.svc.BorrowBook(context.Background(), book.ID, user.Email)
	require.NoError(t, err)

	got, err := f.books.GetByID(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
	assert.True(t, got.Availability)

	require.Len(t, f.borrows.entries, 1)
	entry := f.borrows.entries[0]
	assert.Equal(t, user.ID, entry.UserID)
	assert.Equal(t, book.Title, entry.BookTitle)
	assert.Equal(t, testNow, entry.BorrowedAt)
	assert.Equal(t, testNow.Add(7*24*time.Hour), entry.DueDate)
	assert.False(t, entry.Returned)

	require.Len(t, f.borrows.records, 1)
	record := f.borrows.records[0]
	assert.Equal(t, user.Name, record.User.Name)
	assert.Equal(t, user.Email, record.User.Email)
	assert.True(t, record.Price.Equal(book.Price))
	assert.Nil(t, record.ReturnDate)
	assert.False(t, record.Notified)

	assert.Equal(t, 1, f.catalog.invalidations)
}

func TestBorrowBookLastCopyFlipsAvailability(t *testing.T) {
	book := testBook(1)
	user := testMember()
	f := newFixture(t, book, user)

	require.NoError(t, f.svc.BorrowBook(context.Background(), book.ID, user.Email))

	got, _ := f.books.GetByID(context.Background(), book.ID)
	assert.Equal(t, 0, got.Quantity)
	assert.False(t, got.Availability)
}

func TestBorrowBookNotFound(t *testing.T) {
	user := testMember()
	f := newFixture(t, testBook(1), user)

	err := f.svc.BorrowBook(context.Background(), uuid.New(), user.Email)
	assert.ErrorIs(t, err, bookmodel.ErrBookNotFound)
	assert.Empty(t, f.borrows.entries)
	assert.Zero(t, f.catalog.invalidations)
}

func TestBorrowBookUnknownUser(t *testing.T) {
	book := testBook(1)
	f := newFixture(t, book, testMember())

	err := f.svc.BorrowBook(context.Background(), book.ID, "stranger@example.com")
	assert.ErrorIs(t, err, usermodel.ErrUserNotFound)
}

func TestBorrowBookAdminCannotBorrow(t *testing.T) {
	book := testBook(1)
	admin := testMember()
	admin.Role = usermodel.RoleAdmin
	f := newFixture(t, book, admin)

	err := f.svc.BorrowBook(context.Background(), book.ID, admin.Email)
	assert.ErrorIs(t, err, usermodel.ErrUserNotFound)
}

func TestBorrowBookOutOfStock(t *testing.T) {
	book := testBook(0)
	user := testMember()
	f := newFixture(t, book, user)

	err := f.svc.BorrowBook(context.Background(), book.ID, user.Email)
	assert.ErrorIs(t, err, bookmodel.ErrBookOutOfStock)

	got, _ := f.books.GetByID(context.Background(), book.ID)
	assert.Equal(t, 0, got.Quantity)
	assert.Empty(t, f.borrows.entries)
	assert.Empty(t, f.borrows.records)
}

func TestBorrowBookAlreadyBorrowed(t *testing.T) {
	book := testBook(5)
	user := testMember()
	f := newFixture(t, book, user)

	require.NoError(t, f.svc.BorrowBook(context.Background(), book.ID, user.Email))

	err := f.svc.BorrowBook(context.Background(), book.ID, user.Email)
	assert.ErrorIs(t, err, model.ErrAlreadyBorrowed)

	// First borrow took one copy; the rejected second took nothing.
	got, _ := f.books.GetByID(context.Background(), book.ID)
	assert.Equal(t, 4, got.Quantity)
	assert.Len(t, f.borrows.entries, 1)
	assert.Len(t, f.borrows.records, 1)
}

func TestReturnBookOnTime(t *testing.T) {
	book := testBook(2)
	user := testMember()
	f := newFixture(t, book, user)

	require.NoError(t, f.svc.BorrowBook(context.Background(), book.ID, user.Email))

	summary, err := f.svc.ReturnBook(context.Background(), book.ID, user.Email)
	require.NoError(t, err)

	assert.True(t, summary.Fine.IsZero())
	assert.True(t, summary.Price.Equal(book.Price))
	assert.True(t, summary.Total().Equal(book.Price))

	got, _ := f.books.GetByID(context.Background(), book.ID)
	assert.Equal(t, 2, got.Quantity)

	entry := f.borrows.entries[0]
	assert.True(t, entry.Returned)
	require.NotNil(t, entry.ReturnedAt)

	record := f.borrows.records[0]
	require.NotNil(t, record.ReturnDate)
	assert.True(t, record.Fine.IsZero())
}

func TestReturnBookOverdueChargesFine(t *testing.T) {
	book := testBook(1)
	user := testMember()
	f := newFixture(t, book, user)

	require.NoError(t, f.svc.BorrowBook(context.Background(), book.ID, user.Email))

	// Nine days after borrowing: due was day seven, two started days late.
	f.svc.now = func() time.Time { return testNow.Add(9 * 24 * time.Hour) }

	summary, err := f.svc.ReturnBook(context.Background(), book.ID, user.Email)
	require.NoError(t, err)

	assert.True(t, summary.Fine.Equal(decimal.RequireFromString("20.00")),
		"got fine %s", summary.Fine.String())
	assert.True(t, summary.Total().Equal(decimal.RequireFromString("55.00")))
}

func TestReturnBookNotBorrowed(t *testing.T) {
	book := testBook(1)
	user := testMember()
	f := newFixture(t, book, user)

	_, err := f.svc.ReturnBook(context.Background(), book.ID, user.Email)
	assert.ErrorIs(t, err, model.ErrNotBorrowed)

	got, _ := f.books.GetByID(context.Background(), book.ID)
	assert.Equal(t, 1, got.Quantity)
}

func TestReturnBookAdminAccountRejected(t *testing.T) {
	book := testBook(1)
	admin := testMember()
	admin.Role = usermodel.RoleAdmin
	f := newFixture(t, book, admin)

	_, err := f.svc.ReturnBook(context.Background(), book.ID, admin.Email)
	assert.ErrorIs(t, err, usermodel.ErrUserNotFound)
}

func TestReturnBookMissingLedgerRecord(t *testing.T) {
	book := testBook(1)
	user := testMember()
	f := newFixture(t, book, user)

	require.NoError(t, f.svc.BorrowBook(context.Background(), book.ID, user.Email))
	f.borrows.hideRecords = true

	_, err := f.svc.ReturnBook(context.Background(), book.ID, user.Email)
	assert.ErrorIs(t, err, model.ErrRecordNotFound)
}

func TestReborrowAfterReturn(t *testing.T) {
	book := testBook(1)
	user := testMember()
	f := newFixture(t, book, user)

	require.NoError(t, f.svc.BorrowBook(context.Background(), book.ID, user.Email))
	_, err := f.svc.ReturnBook(context.Background(), book.ID, user.Email)
	require.NoError(t, err)

	require.NoError(t, f.svc.BorrowBook(context.Background(), book.ID, user.Email))

	// History is append-only: two entries, two ledger records.
	assert.Len(t, f.borrows.entries, 2)
	assert.Len(t, f.borrows.records, 2)

	entries, err := f.svc.MyBorrowedBooks(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestNotifyOverdueBorrowers(t *testing.T) {
	book := testBook(2)
	user := testMember()
	f := newFixture(t, book, user)

	require.NoError(t, f.svc.BorrowBook(context.Background(), book.ID, user.Email))

	// Sweep runs nine days later: the loan is a day past the grace window.
	f.svc.now = func() time.Time { return testNow.Add(9 * 24 * time.Hour) }

	sent, err := f.svc.NotifyOverdueBorrowers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	require.Len(t, f.emails.reminders, 1)
	assert.Equal(t, user.Email, f.emails.reminders[0].Email)
	assert.Equal(t, book.Title, f.emails.reminders[0].BookTitle)
	assert.True(t, f.borrows.records[0].Notified)

	// Second sweep finds nothing, nobody is mailed twice.
	sent, err = f.svc.NotifyOverdueBorrowers(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Len(t, f.emails.reminders, 1)
}

func TestNotifyOverdueSkipsRecentlyDue(t *testing.T) {
	book := testBook(1)
	user := testMember()
	f := newFixture(t, book, user)

	require.NoError(t, f.svc.BorrowBook(context.Background(), book.ID, user.Email))

	// Twelve hours past due: still inside the one-day grace window.
	f.svc.now = func() time.Time { return testNow.Add(7*24*time.Hour + 12*time.Hour) }

	sent, err := f.svc.NotifyOverdueBorrowers(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, f.emails.reminders)
}
