package middleware

import (
	"context"
	"siakad_go/config"
	"siakad_go/database"
	"siakad_go/models"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// RoutePolicy is an explicit per-route authorization record. Routes declare
// which roles may call them; Authorize consumes the record. An empty role
// set means any authenticated user.
type RoutePolicy struct {
	Roles []string
}

// AllowRoles builds a policy record from a role list
func AllowRoles(roles ...string) RoutePolicy {
	return RoutePolicy{Roles: roles}
}

// Allows reports whether the policy admits the given role
func (p RoutePolicy) Allows(role string) bool {
	if len(p.Roles) == 0 {
		return true
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// GenerateToken creates a new JWT token for a user
func GenerateToken(user *models.User) (string, error) {
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(config.AppConfig.JWTExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// extractToken pulls the bearer token from the Authorization header or the
// token cookie (the web client carries the token in a cookie).
func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString != authHeader {
			return tokenString
		}
		return ""
	}
	return c.Cookies("token")
}

// JWTMiddleware validates JWT tokens
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization token",
			})
		}

		// Reject tokens invalidated by logout
		if rc := database.GetRedisClient(); rc != nil {
			if exists, err := rc.Exists(context.Background(), "blacklist:jwt:"+tokenString).Result(); err == nil && exists > 0 {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Token has been revoked",
				})
			}
		}

		// Parse and validate token
		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(config.AppConfig.JWTSecret), nil
		})

		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}

		// Verify user still exists and is active; load the profile so
		// ownership checks don't re-query per handler
		var user models.User
		if err := database.DB.Preload("Student").Preload("Lecturer").Preload("Guardian").
			Where("id = ? AND status = ?", claims.UserID, "active").First(&user).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found or inactive",
			})
		}

		// Store user info in context
		c.Locals("user", &user)
		c.Locals("claims", claims)

		return c.Next()
	}
}

// Authorize checks the caller's role against an explicit route policy record
func Authorize(policy RoutePolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing user claims",
			})
		}

		if !policy.Allows(claims.Role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Insufficient permissions",
			})
		}

		return c.Next()
	}
}

// GetCurrentUser returns the current authenticated user
func GetCurrentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "User not found in context")
	}
	return user, nil
}

// GetCurrentClaims returns the current JWT claims
func GetCurrentClaims(c *fiber.Ctx) (*Claims, error) {
	claims, ok := c.Locals("claims").(*Claims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Claims not found in context")
	}
	return claims, nil
}

// CurrentStudent returns the caller's student profile, or a forbidden error
func CurrentStudent(c *fiber.Ctx) (*models.Student, error) {
	user, err := GetCurrentUser(c)
	if err != nil {
		return nil, err
	}
	if user.Student == nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "Caller has no student profile")
	}
	return user.Student, nil
}

// CurrentLecturer returns the caller's lecturer profile, or a forbidden error
func CurrentLecturer(c *fiber.Ctx) (*models.Lecturer, error) {
	user, err := GetCurrentUser(c)
	if err != nil {
		return nil, err
	}
	if user.Lecturer == nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "Caller has no lecturer profile")
	}
	return user.Lecturer, nil
}

// CurrentGuardian returns the caller's guardian profile, or a forbidden error
func CurrentGuardian(c *fiber.Ctx) (*models.Guardian, error) {
	user, err := GetCurrentUser(c)
	if err != nil {
		return nil, err
	}
	if user.Guardian == nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "Caller has no guardian profile")
	}
	return user.Guardian, nil
}
