package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AshwinGadhvi/VideoTube/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository is the credential store. Password hashing happens on save,
// inside the store layer, so callers always hand it plaintext.
type UserRepository interface {
	// Create inserts a new user, hashing the password first.
	Create(ctx context.Context, u *models.User) error

	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	// FindPublicByID loads a user with the password and refresh-token
	// fields excluded from the projection.
	FindPublicByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)

	// SetRefreshToken overwrites the single stored refresh token. It is a
	// one-field update that bypasses any document-level validation.
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error

	// ClearRefreshToken removes the refresh-token field entirely.
	ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error

	// SetPassword hashes and stores a new password.
	SetPassword(ctx context.Context, id primitive.ObjectID, plain string) error
}
