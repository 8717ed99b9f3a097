package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AshwinGadhvi/VideoTube/internal/token"
	"github.com/AshwinGadhvi/VideoTube/internal/utils"
)

// UserIDKey is the Locals key the verified caller id is stored under.
const UserIDKey = "userID"

// RequireAuth verifies the access token from the accessToken cookie or the
// Authorization header and puts the caller's user id into Locals.
func RequireAuth(tokens *token.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies("accessToken")
		if raw == "" {
			auth := c.Get(fiber.HeaderAuthorization)
			raw = strings.TrimPrefix(auth, "Bearer ")
		}
		if raw == "" {
			return utils.NewApiError(401, "Unauthorized request")
		}

		claims, err := tokens.VerifyAccess(raw)
		if err != nil {
			return utils.NewApiError(401, "Invalid access token")
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return utils.NewApiError(401, "Invalid access token")
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}
