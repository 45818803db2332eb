package helper

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// ParseUUIDsCSV: "a,b,c" → []uuid.UUID (empty string → nil)
func ParseUUIDsCSV(s string) ([]uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := uuid.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("invalid uuid: %q", p)
		}
		out = append(out, id)
	}
	return out, nil
}

// ParamUUID reads a path param as UUID, 400 on garbage.
func ParamUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" is not a valid uuid")
	}
	return id, nil
}

// QueryUUID reads an optional UUID query param.
func QueryUUID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, name+" is not a valid uuid")
	}
	return &id, nil
}

// QueryBool reads an optional bool query param ("true/false/1/0").
func QueryBool(c *fiber.Ctx, name string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, name+" must be a boolean")
	}
	return &b, nil
}

// QueryDate reads an optional YYYY-MM-DD query param in loc.
func QueryDate(c *fiber.Ctx, name string, loc *time.Location) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, name+" must be YYYY-MM-DD")
	}
	return &t, nil
}

// LikePattern builds a case-insensitive LIKE pattern for LOWER(col) LIKE ?.
func LikePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}

func StrPtr(s string) *string { return &s }

// TrimPtr trims *s and returns nil for blank.
func TrimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
