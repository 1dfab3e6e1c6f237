package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blood-donation-service/internal/domain"
	apperrors "github.com/spec-kit/blood-donation-service/pkg/util/errorutil"
)

// RequireCapability ensures the caller's role grants the capability.
func RequireCapability(capability domain.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.Actor().Can(capability) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
