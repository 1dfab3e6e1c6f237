package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blood-donation-service/internal/auth"
	"github.com/spec-kit/blood-donation-service/internal/domain"
	apperrors "github.com/spec-kit/blood-donation-service/pkg/util/errorutil"
)

const dateLayout = "2006-01-02"

func currentActor(c *fiber.Ctx) (domain.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return principal.Actor(), nil
}

// pagination reads page (1-based) and page_size.
func pagination(c *fiber.Ctx) (limit, offset int) {
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 20)
	return pageSize, (page - 1) * pageSize
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

func parseBoolQuery(c *fiber.Ctx, key string, defaultVal bool) bool {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func parseFloatQuery(c *fiber.Ctx, key string) (*float64, error) {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid number", map[string]any{key: val})
	}
	return &parsed, nil
}

func parseBloodType(field, raw string) (domain.BloodType, error) {
	bt, err := domain.ParseBloodType(raw)
	if err != nil {
		return "", apperrors.NewValidationError("invalid blood type", map[string]any{field: raw})
	}
	return bt, nil
}

func parseOptionalBloodType(field string, raw *string) (*domain.BloodType, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	bt, err := parseBloodType(field, *raw)
	if err != nil {
		return nil, err
	}
	return &bt, nil
}

func parseDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*raw))
	if err != nil {
		return nil, apperrors.NewValidationError("invalid date, expected YYYY-MM-DD", map[string]any{field: *raw})
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func invalidPayload() error {
	return apperrors.NewValidationError("invalid payload", nil)
}
