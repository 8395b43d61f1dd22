package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role constants for marketplace users.
const (
	RoleSeller = "seller"
	RoleBuyer  = "buyer"
)

var ValidRoles = []string{RoleSeller, RoleBuyer}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"` // bcrypt hash
	Role      string             `bson:"role" json:"role"`  // seller or buyer
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
