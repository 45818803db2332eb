// file: internals/helpers/dbtime/tod.go
package dbtime

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Tod is a time of day stored as Postgres TIME ("HH:MM:SS").
type Tod struct{ time.Time }

func From(t time.Time) Tod {
	return Tod{Time: time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)}
}

// Parse accepts "HH:MM" or "HH:MM:SS".
func Parse(s string) (Tod, error) {
	var tt Tod
	return tt, tt.parse(s)
}

func MustParse(s string) Tod {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Minutes since midnight.
func (t Tod) Minutes() int { return t.Hour()*60 + t.Minute() }

func (t Tod) String() string { return t.Format("15:04") }

func (t *Tod) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		*t = From(x)
		return nil
	case []byte:
		return t.parse(string(x))
	case string:
		return t.parse(x)
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("tod: unsupported Scan type %T", v)
	}
}

func (t *Tod) parse(s string) error {
	s = strings.TrimSpace(s)
	if len(s) == 5 { // "HH:MM"
		s += ":00"
	}
	// sqlite hands back the full "0000-01-01 08:00:00+00:00" form
	if len(s) > 8 {
		if i := strings.LastIndex(s, " "); i >= 0 && len(s) >= i+9 {
			s = s[i+1 : i+9]
		}
	}
	tt, err := time.Parse("15:04:05", s)
	if err != nil {
		return err
	}
	t.Time = tt
	return nil
}

func (t Tod) Value() (driver.Value, error) {
	return t.Format("15:04:05"), nil
}

func (Tod) GormDataType() string { return "time" }

func (t Tod) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format("15:04"))
}

func (t *Tod) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return t.parse(s)
}
