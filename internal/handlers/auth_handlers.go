package handlers

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AshwinGadhvi/VideoTube/internal/middlewares"
	"github.com/AshwinGadhvi/VideoTube/internal/services"
	"github.com/AshwinGadhvi/VideoTube/internal/token"
	"github.com/AshwinGadhvi/VideoTube/internal/utils"
)

type Handler struct {
	svc      services.AuthService
	tempDir  string
	validate *validator.Validate
}

func NewHandler(svc services.AuthService, tempDir string) *Handler {
	return &Handler{
		svc:      svc,
		tempDir:  tempDir,
		validate: validator.New(),
	}
}

// registerReq carries only presence tags: format checks would answer
// before the service's duplicate and avatar checks get their turn, and
// those run in a fixed order.
type registerReq struct {
	Username string `validate:"required"`
	FullName string `validate:"required"`
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// Register handles multipart sign-up: four form fields plus an avatar file
// (required) and a cover image (optional). Files are staged in the local
// temp dir before they go to the upload service.
func (h *Handler) Register(c *fiber.Ctx) error {
	req := registerReq{
		Username: strings.TrimSpace(c.FormValue("username")),
		FullName: strings.TrimSpace(c.FormValue("fullName")),
		Email:    strings.TrimSpace(c.FormValue("email")),
		Password: strings.TrimSpace(c.FormValue("password")),
	}
	if req.Username == "" || req.FullName == "" || req.Email == "" || req.Password == "" {
		return utils.NewApiError(400, "All fields are required")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.NewApiError(400, "Invalid registration details").
			WithErrors(utils.FormatValidationErrors(err))
	}

	// files are only staged here; presence is checked by the service so
	// the duplicate-user check runs first
	avatarPath := ""
	if avatarFile, err := c.FormFile("avatar"); err == nil && avatarFile != nil {
		p, err := h.saveTemp(c, avatarFile)
		if err != nil {
			return utils.NewApiError(500, "Could not store uploaded file")
		}
		avatarPath = p
	}

	coverPath := ""
	if coverFile, err := c.FormFile("coverImage"); err == nil && coverFile != nil {
		// cover staging failure is tolerated, the account ends up without one
		coverPath, _ = h.saveTemp(c, coverFile)
	}

	user, err := h.svc.Register(c.Context(), services.RegisterInput{
		Username:       req.Username,
		FullName:       req.FullName,
		Email:          req.Email,
		Password:       req.Password,
		AvatarPath:     avatarPath,
		CoverImagePath: coverPath,
	})
	if err != nil {
		return err
	}

	return utils.JSONSuccess(c, 201, user, "User registered successfully")
}

type loginReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login returns the sanitized user and both tokens in the body, and also
// sets them as cookies. Both channels on purpose: browsers use the
// cookies, other clients read the body.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return utils.NewApiError(400, "Invalid request body")
	}

	user, pair, err := h.svc.Login(c.Context(), services.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	setAuthCookies(c, pair)
	return utils.JSONSuccess(c, 200, fiber.Map{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "User logged in successfully")
}

// Logout clears the stored refresh token and both cookies. The caller's
// identity comes from the auth middleware.
func (h *Handler) Logout(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Logout(c.Context(), userID); err != nil {
		return err
	}
	clearAuthCookies(c)
	return utils.JSONSuccess(c, 200, fiber.Map{}, "User logged out")
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh reads the refresh token from the cookie or the body and rotates
// it for a new pair.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	presented := c.Cookies("refreshToken")
	if presented == "" {
		var req refreshReq
		if err := c.BodyParser(&req); err == nil {
			presented = req.RefreshToken
		}
	}
	if presented == "" {
		return utils.NewApiError(401, "Unauthorized request")
	}

	pair, err := h.svc.Refresh(c.Context(), presented)
	if err != nil {
		return err
	}

	setAuthCookies(c, pair)
	return utils.JSONSuccess(c, 200, fiber.Map{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "Access token refreshed")
}

func (h *Handler) CurrentUser(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.CurrentUser(c.Context(), userID)
	if err != nil {
		return err
	}
	return utils.JSONSuccess(c, 200, user, "Current user fetched successfully")
}

type changePasswordReq struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	var req changePasswordReq
	if err := c.BodyParser(&req); err != nil {
		return utils.NewApiError(400, "Invalid request body")
	}
	if err := h.svc.ChangePassword(c.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return utils.JSONSuccess(c, 200, fiber.Map{}, "Password changed successfully")
}

func (h *Handler) saveTemp(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	dst := filepath.Join(h.tempDir, name)
	if err := c.SaveFile(file, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func callerID(c *fiber.Ctx) (primitive.ObjectID, error) {
	userID, ok := c.Locals(middlewares.UserIDKey).(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, utils.NewApiError(401, "Unauthorized request")
	}
	return userID, nil
}

func setAuthCookies(c *fiber.Ctx, pair token.Pair) {
	c.Cookie(&fiber.Cookie{Name: "accessToken", Value: pair.AccessToken, HTTPOnly: true, Secure: true})
	c.Cookie(&fiber.Cookie{Name: "refreshToken", Value: pair.RefreshToken, HTTPOnly: true, Secure: true})
}

func clearAuthCookies(c *fiber.Ctx) {
	c.ClearCookie("accessToken", "refreshToken")
}
