package store

import (
	"context"
	"log"
	"time"

	"github.com/bookbazaar/backend/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserStore, BookStore and CartStore are the narrow views the handlers
// depend on, so tests can substitute doubles for a real document store.
type UserStore interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

type BookStore interface {
	InsertBook(ctx context.Context, book *models.Book) error
	AllBooks(ctx context.Context) ([]models.Book, error)
	BooksBySeller(ctx context.Context, email string) ([]models.Book, error)
	BookByName(ctx context.Context, name string) (*models.Book, error)
	BookByReferenceID(ctx context.Context, referenceID string) (*models.Book, error)
	DeleteBookByReferenceID(ctx context.Context, referenceID string) error
}

type CartStore interface {
	CartEntryExists(ctx context.Context, email, referenceID string) (bool, error)
	AddCartEntry(ctx context.Context, entry *models.CartEntry) error
	CartByEmail(ctx context.Context, email string) ([]models.CartEntry, error)
	RemoveCartEntry(ctx context.Context, email, referenceID string) (bool, error)
}

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

var (
	_ UserStore = (*DB)(nil)
	_ BookStore = (*DB)(nil)
	_ CartStore = (*DB)(nil)
)

func NewMongoDB(ctx context.Context, uri, dbName string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	log.Println("Connected to MongoDB")
	return &DB{
		Client:   client,
		Database: client.Database(dbName),
	}, nil
}

func (db *DB) Users() *mongo.Collection {
	return db.Database.Collection("users")
}

func (db *DB) Books() *mongo.Collection {
	return db.Database.Collection("books_collection")
}

func (db *DB) Cart() *mongo.Collection {
	return db.Database.Collection("cart")
}

func (db *DB) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return db.Client.Disconnect(ctx)
}
