package handlers

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/bookbazaar/backend/models"
	"github.com/bookbazaar/backend/service"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

type MockBookStore struct {
	mock.Mock
}

func (m *MockBookStore) InsertBook(ctx context.Context, book *models.Book) error {
	args := m.Called(book)
	return args.Error(0)
}

func (m *MockBookStore) AllBooks(ctx context.Context) ([]models.Book, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookStore) BooksBySeller(ctx context.Context, email string) ([]models.Book, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookStore) BookByName(ctx context.Context, name string) (*models.Book, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookStore) BookByReferenceID(ctx context.Context, referenceID string) (*models.Book, error) {
	args := m.Called(referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookStore) DeleteBookByReferenceID(ctx context.Context, referenceID string) error {
	args := m.Called(referenceID)
	return args.Error(0)
}

type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) CartEntryExists(ctx context.Context, email, referenceID string) (bool, error) {
	args := m.Called(email, referenceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartStore) AddCartEntry(ctx context.Context, entry *models.CartEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockCartStore) CartByEmail(ctx context.Context, email string) ([]models.CartEntry, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CartEntry), args.Error(1)
}

func (m *MockCartStore) RemoveCartEntry(ctx context.Context, email, referenceID string) (bool, error) {
	args := m.Called(email, referenceID)
	return args.Bool(0), args.Error(1)
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, folder, originalFilename string, body io.Reader, contentType string) (string, string, error) {
	args := m.Called(folder, originalFilename, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockBlobStore) DeleteAll(ctx context.Context, keys []string) service.DeleteReport {
	args := m.Called(keys)
	return args.Get(0).(service.DeleteReport)
}
