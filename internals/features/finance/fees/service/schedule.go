package service

import (
	"fmt"
	"time"

	"schoolku_backend/internals/features/finance/fees/model"
	"schoolku_backend/internals/helpers/dbtime"
)

// StepMonths is the gap between consecutive dues; 0 means a single due.
func StepMonths(f model.Frequency) int {
	switch f {
	case model.FrequencyMonthly:
		return 1
	case model.FrequencyTermly:
		return 4
	case model.FrequencyYearly:
		return 12
	}
	return 0
}

// DefaultEndsOn is one year after startsOn, minus a day.
func DefaultEndsOn(startsOn time.Time) time.Time {
	return dbtime.DateOf(startsOn).AddDate(1, 0, -1)
}

// Due is one scheduled date with its period label.
type Due struct {
	Date  time.Time
	Label string
}

// DueDates lists the dues of a structure inside [startsOn, endsOn]. Each date
// sits on dueDay of its month, pulled back to the month's last day. Recurring
// dates before startsOn are skipped; a one-time due that would fall before
// startsOn is moved onto startsOn.
func DueDates(freq model.Frequency, dueDay int, startsOn, endsOn time.Time) []Due {
	startsOn, endsOn = dbtime.DateOf(startsOn), dbtime.DateOf(endsOn)
	if endsOn.Before(startsOn) {
		return nil
	}

	step := StepMonths(freq)
	if step == 0 {
		d := dbtime.ClampedDate(startsOn.Year(), startsOn.Month(), dueDay)
		if d.Before(startsOn) {
			d = startsOn
		}
		if d.After(endsOn) {
			return nil
		}
		return []Due{{Date: d, Label: PeriodLabel(freq, startsOn, d)}}
	}

	var out []Due
	first := dbtime.MonthStart(startsOn)
	for i := 0; ; i++ {
		m := first.AddDate(0, i*step, 0)
		if m.After(endsOn) {
			break
		}
		d := dbtime.ClampedDate(m.Year(), m.Month(), dueDay)
		if d.Before(startsOn) || d.After(endsOn) {
			continue
		}
		out = append(out, Due{Date: d, Label: PeriodLabel(freq, startsOn, d)})
	}
	return out
}

// PeriodLabel names the period a due belongs to.
func PeriodLabel(freq model.Frequency, startsOn, d time.Time) string {
	switch freq {
	case model.FrequencyMonthly:
		return d.Format("January 2006")
	case model.FrequencyTermly:
		months := (d.Year()-startsOn.Year())*12 + int(d.Month()-startsOn.Month())
		return fmt.Sprintf("Term %d (%s)", months/4+1, d.Format("Jan 2006"))
	case model.FrequencyYearly:
		return fmt.Sprintf("%d/%d", d.Year(), d.Year()+1)
	}
	return "One time"
}
