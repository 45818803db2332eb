// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the school scope middleware
const (
	LocSchoolTimezone = "school_timezone" // string, e.g. "Asia/Jakarta"
	LocSchoolLoc      = "school_loc"      // *time.Location
)

const DefaultTimezone = "Asia/Jakarta"

// LoadLocation resolves an IANA name, falling back to DefaultTimezone then UTC.
func LoadLocation(name string) *time.Location {
	if s := strings.TrimSpace(name); s != "" {
		if loc, err := time.LoadLocation(s); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// GetSchoolLocation returns the tenant timezone from locals.
func GetSchoolLocation(c *fiber.Ctx) *time.Location {
	if c == nil {
		return time.UTC
	}
	if v := c.Locals(LocSchoolLoc); v != nil {
		if loc, ok := v.(*time.Location); ok && loc != nil {
			return loc
		}
	}
	var name string
	if v, ok := c.Locals(LocSchoolTimezone).(string); ok {
		name = v
	}
	loc := LoadLocation(name)
	c.Locals(LocSchoolLoc, loc)
	return loc
}

func NowInSchool(c *fiber.Ctx) time.Time {
	return time.Now().In(GetSchoolLocation(c))
}

// TodayInSchool is today's date (00:00, UTC-tagged) in the tenant timezone.
func TodayInSchool(c *fiber.Ctx) time.Time {
	return DateOf(NowInSchool(c))
}
