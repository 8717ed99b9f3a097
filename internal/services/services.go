package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AshwinGadhvi/VideoTube/internal/models"
	"github.com/AshwinGadhvi/VideoTube/internal/token"
)

// RegisterInput is everything register needs after multipart extraction.
// Avatar/cover paths point at files already saved to the local temp dir.
type RegisterInput struct {
	Username       string
	FullName       string
	Email          string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// LoginInput carries at least one identifier plus the password.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// AuthService holds the session flows. Failures come back as *utils.ApiError
// so the HTTP boundary can translate them without inspecting causes.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, in LoginInput) (*models.User, token.Pair, error)
	Logout(ctx context.Context, userID primitive.ObjectID) error
	Refresh(ctx context.Context, presented string) (token.Pair, error)
	CurrentUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error
}
