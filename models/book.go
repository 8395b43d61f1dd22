package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book is a confirmed listing. FinalPrice is always set before insertion:
// a listing only exists once the seller has run the valuation pipeline and
// confirmed the price it produced.
type Book struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReferenceID     string             `bson:"reference_id" json:"reference_id"`
	Email           string             `bson:"email" json:"email"` // seller
	PublicationYear int                `bson:"publication_year" json:"publication_year"`
	CostPrice       float64            `bson:"cost_price" json:"cost_price"`
	BookName        string             `bson:"book_name" json:"book_name"`
	BookDescription string             `bson:"book_description" json:"book_description"`
	AuthorName      string             `bson:"author_name" json:"author_name"`
	FinalPrice      float64            `bson:"final_price" json:"final_price"`
	BookImages      []string           `bson:"book_images" json:"book_images"` // hosted URLs, upload order
	ImageKeys       []string           `bson:"image_keys" json:"-"`            // blob keys, released on delete
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
