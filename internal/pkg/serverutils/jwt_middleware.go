package serverutils

import (
	"github.com/Srushti-17/Docolab/internal/access"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// NewJwtMiddleware authenticates every request through the gate. There is no
// anonymous path: client-held "is logged in" state is never trusted, the
// token is re-verified here on each protected call.
func NewJwtMiddleware(gate *access.Gate) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "No token, authorization denied"})
		}

		principal, err := gate.Authenticate(authHeader[7:])
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token is not valid"})
		}

		ctx.Locals(principalKey, principal)
		ctx.Locals("user_id", principal.UserID.String())
		return ctx.Next()
	}
}

// PrincipalFromCtx returns the principal stored by the JWT middleware.
func PrincipalFromCtx(ctx *fiber.Ctx) *access.Principal {
	p, _ := ctx.Locals(principalKey).(*access.Principal)
	return p
}
