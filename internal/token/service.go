package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/AshwinGadhvi/VideoTube/internal/models"
	"github.com/AshwinGadhvi/VideoTube/internal/repository"
	"github.com/AshwinGadhvi/VideoTube/internal/utils"
)

var ErrInvalidToken = errors.New("invalid token")

// Pair is one access/refresh token issuance.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AccessClaims carries the user identity on short-lived access tokens.
type AccessClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

// RefreshClaims carries only the user id.
type RefreshClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Service signs and verifies the two token types with distinct secrets and
// lifetimes, and persists the single per-user refresh token on issuance.
type Service struct {
	users         repository.UserRepository
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	log           *zap.SugaredLogger
}

func NewService(
	users repository.UserRepository,
	accessSecret, refreshSecret string,
	accessTTL, refreshTTL time.Duration,
	log *zap.SugaredLogger,
) *Service {
	return &Service{
		users:         users,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		log:           log,
	}
}

// AccessToken signs a short-lived token over the user's identity claims.
func (s *Service) AccessToken(u *models.User) (string, error) {
	now := time.Now()
	claims := &AccessClaims{
		UserID:   u.ID.Hex(),
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
}

// RefreshToken signs a longer-lived token over the user id only.
func (s *Service) RefreshToken(u *models.User) (string, error) {
	now := time.Now()
	claims := &RefreshClaims{
		UserID: u.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			// jti makes every rotation produce a distinct token even
			// within the same second
			ID:        uuid.NewString(),
			Subject:   u.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
}

// IssuePair loads the user, signs both tokens and persists the refresh
// token onto the user record, rotating out whatever was stored before.
// Every failure along the way collapses into one stable internal error;
// the cause is logged here and never reaches the client.
func (s *Service) IssuePair(ctx context.Context, userID primitive.ObjectID) (Pair, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Pair{}, s.issueFailed("load user", userID, err)
	}

	access, err := s.AccessToken(u)
	if err != nil {
		return Pair{}, s.issueFailed("sign access token", userID, err)
	}
	refresh, err := s.RefreshToken(u)
	if err != nil {
		return Pair{}, s.issueFailed("sign refresh token", userID, err)
	}

	if err := s.users.SetRefreshToken(ctx, userID, refresh); err != nil {
		return Pair{}, s.issueFailed("persist refresh token", userID, err)
	}

	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) issueFailed(step string, userID primitive.ObjectID, cause error) *utils.ApiError {
	s.log.Errorw("token pair issuance failed",
		"step", step,
		"user_id", userID.Hex(),
		"error", cause,
	)
	return utils.NewApiError(500, "Something went wrong while generating access and refresh tokens")
}

// VerifyRefresh checks signature and expiry against the refresh secret.
// Expired and tampered tokens are not distinguished.
func (s *Service) VerifyRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.refreshSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyAccess checks an access token and returns its claims. Used by the
// auth middleware for protected routes.
func (s *Service) VerifyAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.accessSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
