package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartEntry is a denormalized snapshot of a book at add-to-cart time.
// If the listing later changes, the cart keeps showing the snapshot; that
// staleness is accepted, not a bug. Unique on (email, reference_id).
type CartEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email       string             `bson:"email" json:"email"`
	ReferenceID string             `bson:"reference_id" json:"reference_id"`
	BookName    string             `bson:"book_name" json:"book_name"`
	AuthorName  string             `bson:"author_name" json:"author_name"`
	FinalPrice  float64            `bson:"final_price" json:"final_price"`
	BookImages  []string           `bson:"book_images" json:"book_images"`
	AddedAt     time.Time          `bson:"addedAt" json:"addedAt"`
}
