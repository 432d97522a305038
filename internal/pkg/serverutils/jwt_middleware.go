package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func JwtMiddleware(ctx *fiber.Ctx) error {
	claims, errRes := parseBearerClaims(ctx)
	if errRes != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(errRes)
	}

	applyClaims(ctx, claims)
	return ctx.Next()
}

// OptionalJwtMiddleware resolves identity when a token is present but lets
// anonymous requests through. Handlers treat a missing user_id as public-only.
func OptionalJwtMiddleware(ctx *fiber.Ctx) error {
	if ctx.Get("Authorization") == "" {
		return ctx.Next()
	}

	claims, errRes := parseBearerClaims(ctx)
	if errRes != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(errRes)
	}

	applyClaims(ctx, claims)
	return ctx.Next()
}

func parseBearerClaims(ctx *fiber.Ctx) (jwt.MapClaims, fiber.Map) {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return nil, fiber.Map{"message": "Missing token"}
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return nil, fiber.Map{"message": "Invalid token"}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.Map{"message": "Invalid claims"}
	}
	return claims, nil
}

func applyClaims(ctx *fiber.Ctx, claims jwt.MapClaims) {
	ctx.Locals("user_id", claims["user_id"])
	if workspaceId, ok := claims["workspace_id"]; ok {
		ctx.Locals("workspace_id", workspaceId)
	}
	if isAdmin, ok := claims["is_admin"].(bool); ok && isAdmin {
		ctx.Locals("is_admin", true)
	}
}
