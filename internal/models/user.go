package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// User is a registered account. Password and RefreshToken never appear in
// JSON output; sanitized reads additionally exclude them at the projection
// level so they are empty even in memory.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	FullName     string             `bson:"full_name" json:"fullName"`
	Avatar       string             `bson:"avatar" json:"avatar"`
	CoverImage   string             `bson:"cover_image,omitempty" json:"coverImage,omitempty"`
	Password     string             `bson:"password,omitempty" json:"-"`
	RefreshToken string             `bson:"refresh_token,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// PasswordMatches compares a plaintext password against the stored hash.
func (u *User) PasswordMatches(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
