package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is a storefront account. Password holds the bcrypt hash.
type User struct {
	ID        bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Email     string        `json:"email" bson:"email"`
	Password  string        `json:"-" bson:"password"`
	FullName  string        `json:"full_name" bson:"full_name,omitempty"`
	Role      string        `json:"role" bson:"role"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
