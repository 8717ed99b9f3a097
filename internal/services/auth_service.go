package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/AshwinGadhvi/VideoTube/internal/models"
	"github.com/AshwinGadhvi/VideoTube/internal/repository"
	"github.com/AshwinGadhvi/VideoTube/internal/token"
	"github.com/AshwinGadhvi/VideoTube/internal/uploader"
	"github.com/AshwinGadhvi/VideoTube/internal/utils"
)

type authService struct {
	users  repository.UserRepository
	tokens *token.Service
	files  uploader.Uploader
	log    *zap.SugaredLogger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *token.Service,
	files uploader.Uploader,
	log *zap.SugaredLogger,
) AuthService {
	return &authService{users: users, tokens: tokens, files: files, log: log}
}

// Register creates a new account. Checks run in order: field presence,
// duplicate username/email, avatar presence, avatar upload. The username is
// stored lowercased; a failed cover-image upload degrades to no cover.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	fullName := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)
	password := strings.TrimSpace(in.Password)

	if username == "" || fullName == "" || email == "" || password == "" {
		return nil, utils.NewApiError(400, "All fields are required")
	}
	username = strings.ToLower(username)

	existing, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, s.internal("check existing user", err)
	}
	if existing != nil {
		return nil, utils.NewApiError(409, "User with email or username already exists")
	}

	if in.AvatarPath == "" {
		return nil, utils.NewApiError(400, "Avatar file is required")
	}

	avatar, err := s.files.Upload(ctx, in.AvatarPath)
	if err != nil || avatar == nil {
		if err != nil {
			s.log.Warnw("avatar upload failed", "error", err)
		}
		return nil, utils.NewApiError(400, "Avatar file is required")
	}

	coverURL := ""
	if cover, err := s.files.Upload(ctx, in.CoverImagePath); err == nil && cover != nil {
		coverURL = cover.URL
	} else if err != nil {
		s.log.Warnw("cover image upload failed", "error", err)
	}

	u := &models.User{
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Avatar:     avatar.URL,
		CoverImage: coverURL,
		Password:   password, // hashed by the store on save
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, s.internal("create user", err)
	}

	created, err := s.users.FindPublicByID(ctx, u.ID)
	if err != nil {
		return nil, utils.NewApiError(500, "Something went wrong while registering the user")
	}
	return created, nil
}

// Login verifies credentials and issues a fresh token pair, rotating the
// stored refresh token.
func (s *authService) Login(ctx context.Context, in LoginInput) (*models.User, token.Pair, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.TrimSpace(in.Email)

	if username == "" && email == "" {
		return nil, token.Pair{}, utils.NewApiError(400, "Username or email is required")
	}

	u, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, token.Pair{}, utils.NewApiError(404, "User does not exist")
	}
	if err != nil {
		return nil, token.Pair{}, s.internal("find user", err)
	}

	if !u.PasswordMatches(in.Password) {
		return nil, token.Pair{}, utils.NewApiError(401, "Invalid user credentials")
	}

	pair, err := s.tokens.IssuePair(ctx, u.ID)
	if err != nil {
		return nil, token.Pair{}, err
	}

	loggedIn, err := s.users.FindPublicByID(ctx, u.ID)
	if err != nil {
		return nil, token.Pair{}, s.internal("reload user", err)
	}
	return loggedIn, pair, nil
}

// Logout removes the stored refresh token. Removing an already-absent
// field is a no-op, so calling logout twice is fine.
func (s *authService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		return s.internal("clear refresh token", err)
	}
	return nil
}

// Refresh exchanges a presented refresh token for a new pair. The token
// must verify cryptographically AND match the value currently stored on
// the user record; a verified-but-mismatched token means it was already
// rotated out.
func (s *authService) Refresh(ctx context.Context, presented string) (token.Pair, error) {
	claims, err := s.tokens.VerifyRefresh(presented)
	if err != nil {
		msg := "Invalid refresh token"
		if em := err.Error(); em != "" {
			msg = em
		}
		return token.Pair{}, utils.NewApiError(401, msg)
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return token.Pair{}, utils.NewApiError(401, "Invalid refresh token")
	}

	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return token.Pair{}, utils.NewApiError(401, "Invalid refresh token")
	}
	if err != nil {
		return token.Pair{}, s.internal("find user", err)
	}

	if u.RefreshToken != presented {
		return token.Pair{}, utils.NewApiError(401, "Refresh token is expired or used")
	}

	return s.tokens.IssuePair(ctx, u.ID)
}

func (s *authService) CurrentUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	u, err := s.users.FindPublicByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, utils.NewApiError(404, "User does not exist")
	}
	if err != nil {
		return nil, s.internal("find user", err)
	}
	return u, nil
}

// ChangePassword verifies the old password before storing the new one.
func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return utils.NewApiError(400, "New password is required")
	}

	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return utils.NewApiError(404, "User does not exist")
	}
	if err != nil {
		return s.internal("find user", err)
	}

	if !u.PasswordMatches(oldPassword) {
		return utils.NewApiError(400, "Invalid old password")
	}

	if err := s.users.SetPassword(ctx, userID, newPassword); err != nil {
		return s.internal("set password", err)
	}
	return nil
}

func (s *authService) internal(step string, err error) *utils.ApiError {
	s.log.Errorw("auth service failure", "step", step, "error", err)
	return utils.NewApiError(500, "Internal server error")
}
