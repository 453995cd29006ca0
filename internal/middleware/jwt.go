package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/rayan-crm-api/internal/utils"
)

// AccessTokenQuery carries the bearer token for clients that cannot set
// headers, such as browser websockets subscribing to the change feed.
const AccessTokenQuery = "access_token"

// JWTProtected returns a middleware that validates HMAC-signed bearer tokens
// and exposes the operator id and role as the user_id and user_role locals.
func JWTProtected(secret string) fiber.Handler {
	keyFunc := func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}

	return func(c *fiber.Ctx) error {
		tokenString, message := bearerToken(c)
		if message != "" {
			return utils.SendError(c, fiber.StatusUnauthorized, message)
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, keyFunc, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		if operatorID, ok := operatorIDFromClaims(claims); ok {
			c.Locals("user_id", operatorID)
		}
		if role := operatorRoleFromClaims(claims); role != "" {
			c.Locals("user_role", role)
		}

		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, string) {
	authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if authorization == "" {
		if token := strings.TrimSpace(c.Query(AccessTokenQuery)); token != "" {
			return token, ""
		}
		return "", "authorization header missing"
	}

	scheme, token, found := strings.Cut(authorization, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", "invalid authorization header"
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", "invalid token"
	}
	return token, ""
}

func operatorIDFromClaims(claims jwt.MapClaims) (uint, bool) {
	for _, key := range []string{"sub", "user_id", "id"} {
		value, ok := claims[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case float64:
			if v >= 0 {
				return uint(v), true
			}
		case string:
			if parsed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64); err == nil {
				return uint(parsed), true
			}
		}
	}
	return 0, false
}

func operatorRoleFromClaims(claims jwt.MapClaims) string {
	for _, key := range []string{"role", "roles"} {
		switch v := claims[key].(type) {
		case string:
			if role := normalizeRole(v); role != "" {
				return role
			}
		case []interface{}:
			for _, item := range v {
				if str, ok := item.(string); ok {
					if role := normalizeRole(str); role != "" {
						return role
					}
				}
			}
		}
	}
	return ""
}
