package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/AshwinGadhvi/VideoTube/internal/models"
	"github.com/AshwinGadhvi/VideoTube/internal/repository"
	"github.com/AshwinGadhvi/VideoTube/internal/token"
	"github.com/AshwinGadhvi/VideoTube/internal/uploader"
	"github.com/AshwinGadhvi/VideoTube/internal/utils"
)

type memUserRepo struct {
	users   map[primitive.ObjectID]*models.User
	creates int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (m *memUserRepo) Create(ctx context.Context, u *models.User) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	u.ID = primitive.NewObjectID()
	m.users[u.ID] = u
	m.creates++
	return nil
}

func (m *memUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindPublicByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Password = ""
	u.RefreshToken = ""
	return u, nil
}

func (m *memUserRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	for _, u := range m.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUserRepo) SetRefreshToken(ctx context.Context, id primitive.ObjectID, tok string) error {
	u, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.RefreshToken = tok
	return nil
}

func (m *memUserRepo) ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error {
	if u, ok := m.users[id]; ok {
		u.RefreshToken = ""
	}
	return nil
}

func (m *memUserRepo) SetPassword(ctx context.Context, id primitive.ObjectID, plain string) error {
	u, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// memUploader maps local paths to hosted URLs; paths in failPaths error.
type memUploader struct {
	failPaths map[string]bool
}

func (m *memUploader) Upload(ctx context.Context, localPath string) (*uploader.Result, error) {
	if localPath == "" {
		return nil, nil
	}
	if m.failPaths[localPath] {
		return nil, errors.New("upstream rejected the file")
	}
	return &uploader.Result{URL: "https://cdn.example.com/" + localPath}, nil
}

func newTestAuth(t *testing.T) (*memUserRepo, *memUploader, AuthService) {
	t.Helper()
	repo := newMemUserRepo()
	files := &memUploader{failPaths: map[string]bool{}}
	tokens := token.NewService(repo, "access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour, zap.NewNop().Sugar())
	return repo, files, NewAuthService(repo, tokens, files, zap.NewNop().Sugar())
}

func validRegister() RegisterInput {
	return RegisterInput{
		Username:       "Monica",
		FullName:       "Monica Geller",
		Email:          "monica@example.com",
		Password:       "secret123",
		AvatarPath:     "avatar.png",
		CoverImagePath: "cover.png",
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var apiErr *utils.ApiError
	require.True(t, errors.As(err, &apiErr), "expected *utils.ApiError, got %v", err)
	return apiErr.StatusCode
}

func TestRegisterBlankFields(t *testing.T) {
	cases := map[string]func(*RegisterInput){
		"username": func(in *RegisterInput) { in.Username = "   " },
		"fullName": func(in *RegisterInput) { in.FullName = "" },
		"email":    func(in *RegisterInput) { in.Email = "  " },
		"password": func(in *RegisterInput) { in.Password = "" },
	}
	for name, blank := range cases {
		t.Run(name, func(t *testing.T) {
			repo, _, svc := newTestAuth(t)
			in := validRegister()
			blank(&in)

			_, err := svc.Register(context.Background(), in)
			assert.Equal(t, 400, statusOf(t, err))
			assert.Zero(t, repo.creates, "no store mutation on invalid input")
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	repo, _, svc := newTestAuth(t)
	_, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	t.Run("same username", func(t *testing.T) {
		in := validRegister()
		in.Email = "other@example.com"
		_, err := svc.Register(context.Background(), in)
		assert.Equal(t, 409, statusOf(t, err))
	})
	t.Run("same email", func(t *testing.T) {
		in := validRegister()
		in.Username = "rachel"
		_, err := svc.Register(context.Background(), in)
		assert.Equal(t, 409, statusOf(t, err))
	})
	assert.Equal(t, 1, repo.creates)
}

func TestRegisterAvatarRequired(t *testing.T) {
	repo, _, svc := newTestAuth(t)
	in := validRegister()
	in.AvatarPath = ""

	_, err := svc.Register(context.Background(), in)
	assert.Equal(t, 400, statusOf(t, err))
	assert.Zero(t, repo.creates)
}

func TestRegisterAvatarUploadFailure(t *testing.T) {
	repo, files, svc := newTestAuth(t)
	files.failPaths["avatar.png"] = true

	_, err := svc.Register(context.Background(), validRegister())
	assert.Equal(t, 400, statusOf(t, err))
	assert.Zero(t, repo.creates)
}

func TestRegisterCoverUploadFailureTolerated(t *testing.T) {
	_, files, svc := newTestAuth(t)
	files.failPaths["cover.png"] = true

	u, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	assert.Empty(t, u.CoverImage)
	assert.NotEmpty(t, u.Avatar)
}

func TestRegisterSanitizedResult(t *testing.T) {
	_, _, svc := newTestAuth(t)

	u, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	assert.Equal(t, "monica", u.Username, "username stored lowercased")
	assert.Empty(t, u.Password)
	assert.Empty(t, u.RefreshToken)
}

func TestLoginRequiresIdentifier(t *testing.T) {
	_, _, svc := newTestAuth(t)
	_, _, err := svc.Login(context.Background(), LoginInput{Password: "secret123"})
	assert.Equal(t, 400, statusOf(t, err))
}

func TestLoginUnknownUser(t *testing.T) {
	_, _, svc := newTestAuth(t)
	_, _, err := svc.Login(context.Background(), LoginInput{Username: "ghost", Password: "secret123"})
	assert.Equal(t, 404, statusOf(t, err))
}

func TestLoginWrongPassword(t *testing.T) {
	_, _, svc := newTestAuth(t)
	_, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), LoginInput{Username: "monica", Password: "wrong"})
	assert.Equal(t, 401, statusOf(t, err))
}

func TestLoginSuccessPersistsRefreshToken(t *testing.T) {
	repo, _, svc := newTestAuth(t)
	created, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	user, pair, err := svc.Login(context.Background(), LoginInput{Email: "monica@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Empty(t, user.Password)
	assert.Empty(t, user.RefreshToken)

	stored, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, stored.RefreshToken)
}

func TestLoginByUppercasedUsername(t *testing.T) {
	_, _, svc := newTestAuth(t)
	_, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), LoginInput{Username: "MONICA", Password: "secret123"})
	require.NoError(t, err)
}

func TestRefreshRotation(t *testing.T) {
	repo, _, svc := newTestAuth(t)
	created, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	_, pair, err := svc.Login(context.Background(), LoginInput{Username: "monica", Password: "secret123"})
	require.NoError(t, err)

	next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	stored, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, next.RefreshToken, stored.RefreshToken)
}

func TestRefreshReuseDetected(t *testing.T) {
	_, _, svc := newTestAuth(t)
	_, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	_, pair, err := svc.Login(context.Background(), LoginInput{Username: "monica", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	// the rotated-out token still verifies but no longer matches the store
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.Error(t, err)
	var apiErr *utils.ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Equal(t, "Refresh token is expired or used", apiErr.Message)
}

func TestRefreshInvalidToken(t *testing.T) {
	_, _, svc := newTestAuth(t)
	_, err := svc.Refresh(context.Background(), "garbage")
	assert.Equal(t, 401, statusOf(t, err))
}

func TestRefreshUnknownUser(t *testing.T) {
	repo, _, svc := newTestAuth(t)
	created, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	_, pair, err := svc.Login(context.Background(), LoginInput{Username: "monica", Password: "secret123"})
	require.NoError(t, err)

	delete(repo.users, created.ID)

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.Equal(t, 401, statusOf(t, err))
}

func TestLogoutClearsTokenAndIsIdempotent(t *testing.T) {
	repo, _, svc := newTestAuth(t)
	created, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	_, _, err = svc.Login(context.Background(), LoginInput{Username: "monica", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), created.ID))
	stored, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.RefreshToken)

	// second logout must not error
	require.NoError(t, svc.Logout(context.Background(), created.ID))
}

func TestChangePassword(t *testing.T) {
	_, _, svc := newTestAuth(t)
	created, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), created.ID, "wrong", "newsecret1")
	assert.Equal(t, 400, statusOf(t, err))

	require.NoError(t, svc.ChangePassword(context.Background(), created.ID, "secret123", "newsecret1"))

	_, _, err = svc.Login(context.Background(), LoginInput{Username: "monica", Password: "secret123"})
	assert.Equal(t, 401, statusOf(t, err))
	_, _, err = svc.Login(context.Background(), LoginInput{Username: "monica", Password: "newsecret1"})
	require.NoError(t, err)
}

func TestCurrentUser(t *testing.T) {
	_, _, svc := newTestAuth(t)
	created, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	u, err := svc.CurrentUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "monica", u.Username)
	assert.Empty(t, u.Password)

	_, err = svc.CurrentUser(context.Background(), primitive.NewObjectID())
	assert.Equal(t, 404, statusOf(t, err))
}
