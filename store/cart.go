package store

import (
	"context"

	"github.com/bookbazaar/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) CartEntryExists(ctx context.Context, email, referenceID string) (bool, error) {
	n, err := db.Cart().CountDocuments(ctx, bson.M{"email": email, "reference_id": referenceID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (db *DB) AddCartEntry(ctx context.Context, entry *models.CartEntry) error {
	res, err := db.Cart().InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		entry.ID = id
	}
	return nil
}

func (db *DB) CartByEmail(ctx context.Context, email string) ([]models.CartEntry, error) {
	cur, err := db.Cart().Find(ctx, bson.M{"email": email}, options.Find().SetSort(bson.M{"addedAt": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var entries []models.CartEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// RemoveCartEntry deletes the entry and reports whether one existed.
func (db *DB) RemoveCartEntry(ctx context.Context, email, referenceID string) (bool, error) {
	res, err := db.Cart().DeleteOne(ctx, bson.M{"email": email, "reference_id": referenceID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
