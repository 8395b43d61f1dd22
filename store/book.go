package store

import (
	"context"

	"github.com/bookbazaar/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertBook(ctx context.Context, book *models.Book) error {
	res, err := db.Books().InsertOne(ctx, book)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		book.ID = id
	}
	return nil
}

func (db *DB) AllBooks(ctx context.Context) ([]models.Book, error) {
	return db.findBooks(ctx, bson.M{})
}

func (db *DB) BooksBySeller(ctx context.Context, email string) ([]models.Book, error) {
	return db.findBooks(ctx, bson.M{"email": email})
}

func (db *DB) findBooks(ctx context.Context, filter bson.M) ([]models.Book, error) {
	cur, err := db.Books().Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var books []models.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (db *DB) BookByName(ctx context.Context, name string) (*models.Book, error) {
	return db.findBook(ctx, bson.M{"book_name": name})
}

func (db *DB) BookByReferenceID(ctx context.Context, referenceID string) (*models.Book, error) {
	return db.findBook(ctx, bson.M{"reference_id": referenceID})
}

func (db *DB) findBook(ctx context.Context, filter bson.M) (*models.Book, error) {
	var book models.Book
	err := db.Books().FindOne(ctx, filter).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (db *DB) DeleteBookByReferenceID(ctx context.Context, referenceID string) error {
	_, err := db.Books().DeleteOne(ctx, bson.M{"reference_id": referenceID})
	return err
}
