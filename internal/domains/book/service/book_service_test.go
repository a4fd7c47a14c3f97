package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/book/model"
)

type mockRepo struct {
	books     map[uuid.UUID]*model.Book
	listCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{books: make(map[uuid.UUID]*model.Book)}
}

func (m *mockRepo) Create(ctx context.Context, book *model.Book) error {
	m.books[book.ID] = book
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	b, ok := m.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	return b, nil
}

func (m *mockRepo) List(ctx context.Context) ([]model.Book, error) {
	m.listCalls++
	var out []model.Book
	for _, b := range m.books {
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(m.books, id)
	return nil
}

func (m *mockRepo) Reserve(ctx context.Context, id uuid.UUID) error {
	b, ok := m.books[id]
	if !ok || b.Quantity < 1 {
		return model.ErrBookOutOfStock
	}
	b.Quantity--
	b.Availability = b.Quantity > 0
	return nil
}

func (m *mockRepo) Release(ctx context.Context, id uuid.UUID) error {
	b, ok := m.books[id]
	if !ok {
		return model.ErrBookNotFound
	}
	b.Quantity++
	b.Availability = true
	return nil
}

// mockCache stores JSON like the redis implementation does.
type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *mockCache) Ping(ctx context.Context) error { return nil }

// brokenCache fails every operation.
type brokenCache struct{}

func (brokenCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, errors.New("cache down")
}

func (brokenCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("cache down")
}

func (brokenCache) Delete(ctx context.Context, keys ...string) error {
	return errors.New("cache down")
}

func (brokenCache) Ping(ctx context.Context) error { return errors.New("cache down") }

func addRequest(title string) model.AddBookRequest {
	return model.AddBookRequest{
		Title:       title,
		Author:      "Some Author",
		Description: "Some description.",
		Category:    "Fiction",
		Price:       "19.99",
		Quantity:    2,
	}
}

func TestAddBook(t *testing.T) {
	repo := newMockRepo()
	svc := NewBookService(repo, newMockCache())

	book, err := svc.AddBook(context.Background(), addRequest("Dune"))
	require.NoError(t, err)

	assert.Equal(t, "Dune", book.Title)
	assert.True(t, book.Price.Equal(decimal.RequireFromString("19.99")))
	assert.Len(t, repo.books, 1)
}

func TestAddBookRejectsInvalid(t *testing.T) {
	repo := newMockRepo()
	svc := NewBookService(repo, newMockCache())

	req := addRequest("Dune")
	req.Price = "free"

	_, err := svc.AddBook(context.Background(), req)
	assert.Error(t, err)
	assert.Empty(t, repo.books)
}

func TestGetAllBooksCachesList(t *testing.T) {
	repo := newMockRepo()
	c := newMockCache()
	svc := NewBookService(repo, c)

	_, err := svc.AddBook(context.Background(), addRequest("Dune"))
	require.NoError(t, err)

	first, err := svc.GetAllBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, repo.listCalls)

	// Second read is served from the cache.
	second, err := svc.GetAllBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 1, repo.listCalls)
}

func TestAddBookInvalidatesCache(t *testing.T) {
	repo := newMockRepo()
	c := newMockCache()
	svc := NewBookService(repo, c)

	_, err := svc.AddBook(context.Background(), addRequest("Dune"))
	require.NoError(t, err)

	_, err = svc.GetAllBooks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	_, err = svc.AddBook(context.Background(), addRequest("Hyperion"))
	require.NoError(t, err)

	books, err := svc.GetAllBooks(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 2)
	assert.Equal(t, 2, repo.listCalls)
}

func TestDeleteBookInvalidatesCache(t *testing.T) {
	repo := newMockRepo()
	c := newMockCache()
	svc := NewBookService(repo, c)

	book, err := svc.AddBook(context.Background(), addRequest("Dune"))
	require.NoError(t, err)

	_, err = svc.GetAllBooks(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBook(context.Background(), book.ID))

	books, err := svc.GetAllBooks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestGetAllBooksSurvivesCacheOutage(t *testing.T) {
	repo := newMockRepo()
	svc := NewBookService(repo, brokenCache{})

	_, err := svc.AddBook(context.Background(), addRequest("Dune"))
	require.NoError(t, err)

	books, err := svc.GetAllBooks(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 1)
}
