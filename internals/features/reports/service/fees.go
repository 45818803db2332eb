package service

import (
	"sort"
	"time"

	"github.com/google/uuid"

	studentModel "schoolku_backend/internals/features/academics/students/model"
	feeModel "schoolku_backend/internals/features/finance/fees/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
)

type PaymentLine struct {
	PaymentID uuid.UUID `json:"fee_payment_id"`
	DueID     uuid.UUID `json:"student_fee_id"`
	Period    string    `json:"period_label"`
	Amount    int64     `json:"amount"`
	Method    string    `json:"method"`
	PaidAt    time.Time `json:"paid_at"`
}

type StudentFees struct {
	StudentID   uuid.UUID     `json:"student_id"`
	StudentName string        `json:"student_name"`
	SectionID   uuid.UUID     `json:"section_id"`
	Dues        int           `json:"dues"`
	Overdue     int           `json:"overdue"`
	Total       int64         `json:"total"`
	Discount    int64         `json:"discount"`
	Paid        int64         `json:"paid"`
	Pending     int64         `json:"pending"`
	Status      string        `json:"status"`
	Payments    []PaymentLine `json:"payments"`
}

// FeeTotals: CollectionRate = paid / (total - discount) × 100.
type FeeTotals struct {
	Total          int64   `json:"total"`
	Discount       int64   `json:"discount"`
	Paid           int64   `json:"paid"`
	Pending        int64   `json:"pending"`
	CollectionRate float64 `json:"collection_rate"`
}

type StatusCounts struct {
	Paid    int `json:"paid"`
	Pending int `json:"pending"`
	Partial int `json:"partial"`
	Overdue int `json:"overdue"`
}

type CollectionPoint struct {
	Month  string `json:"month"`
	Amount int64  `json:"amount"`
	Count  int    `json:"count"`
}

type FeeReport struct {
	Window    dbtime.Window     `json:"window"`
	Totals    FeeTotals         `json:"totals"`
	Breakdown StatusCounts      `json:"breakdown"`
	Students  []StudentFees     `json:"students"`
	Trend     []CollectionPoint `json:"trend"`
}

func CollectionRate(total, discount, paid int64) float64 {
	return helper.Percent(float64(paid), float64(total-discount))
}

// BuildFeeReport: students come out sorted by name. The trend has one point per
// month of w, bucketed by paid_at in loc; payment history is not windowed.
func BuildFeeReport(
	students []studentModel.StudentModel,
	dues []feeModel.StudentFeeModel,
	payments []feeModel.FeePaymentModel,
	w dbtime.Window,
	today time.Time,
	loc *time.Location,
) FeeReport {
	if loc == nil {
		loc = time.UTC
	}
	r := FeeReport{Window: w}

	byStudent := map[uuid.UUID]*StudentFees{}
	for i := range students {
		byStudent[students[i].StudentID] = &StudentFees{
			StudentID:   students[i].StudentID,
			StudentName: students[i].StudentFullName,
			SectionID:   students[i].StudentSectionID,
			Payments:    []PaymentLine{},
		}
	}
	labels := map[uuid.UUID]string{}
	for i := range dues {
		d := &dues[i]
		s, ok := byStudent[d.StudentFeeStudentID]
		if !ok {
			continue
		}
		labels[d.StudentFeeID] = d.StudentFeePeriodLabel
		pending := d.Pending()
		s.Dues++
		s.Total += d.StudentFeeTotalAmount
		s.Discount += d.StudentFeeDiscount
		s.Paid += d.StudentFeePaidAmount
		s.Pending += pending

		switch d.Status() {
		case feeModel.DueStatusPaid:
			r.Breakdown.Paid++
		case feeModel.DueStatusPartial:
			r.Breakdown.Partial++
		default:
			r.Breakdown.Pending++
		}
		if d.Overdue(today) {
			s.Overdue++
			r.Breakdown.Overdue++
		}
	}

	for m := dbtime.MonthStart(w.From); !m.After(w.To); m = m.AddDate(0, 1, 0) {
		r.Trend = append(r.Trend, CollectionPoint{Month: dbtime.MonthKey(m)})
	}
	months := make(map[string]*CollectionPoint, len(r.Trend))
	for i := range r.Trend {
		months[r.Trend[i].Month] = &r.Trend[i]
	}

	for i := range payments {
		p := &payments[i]
		if s, ok := byStudent[p.FeePaymentStudentID]; ok {
			s.Payments = append(s.Payments, PaymentLine{
				PaymentID: p.FeePaymentID,
				DueID:     p.FeePaymentStudentFeeID,
				Period:    labels[p.FeePaymentStudentFeeID],
				Amount:    p.FeePaymentAmount,
				Method:    string(p.FeePaymentMethod),
				PaidAt:    p.FeePaymentPaidAt,
			})
		}
		local := dbtime.DateOf(p.FeePaymentPaidAt.In(loc))
		if !w.Contains(local) {
			continue
		}
		if pt := months[dbtime.MonthKey(local)]; pt != nil {
			pt.Amount += p.FeePaymentAmount
			pt.Count++
		}
	}

	r.Students = make([]StudentFees, 0, len(byStudent))
	for _, s := range byStudent {
		if s.Dues == 0 {
			continue
		}
		s.Status = string(feeModel.StatusOf(s.Pending, s.Paid))
		sort.Slice(s.Payments, func(i, j int) bool { return s.Payments[i].PaidAt.Before(s.Payments[j].PaidAt) })
		r.Students = append(r.Students, *s)

		r.Totals.Total += s.Total
		r.Totals.Discount += s.Discount
		r.Totals.Paid += s.Paid
		r.Totals.Pending += s.Pending
	}
	sort.Slice(r.Students, func(i, j int) bool {
		if r.Students[i].StudentName != r.Students[j].StudentName {
			return r.Students[i].StudentName < r.Students[j].StudentName
		}
		return r.Students[i].StudentID.String() < r.Students[j].StudentID.String()
	})
	r.Totals.CollectionRate = CollectionRate(r.Totals.Total, r.Totals.Discount, r.Totals.Paid)
	return r
}
