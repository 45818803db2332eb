package service

// Overview is the dashboard headline figures for one school.
type Overview struct {
	Date                      string  `json:"date"`
	ActiveStudents            int64   `json:"active_students"`
	ActiveStaff               int64   `json:"active_staff"`
	Sections                  int64   `json:"sections"`
	BookTitles                int64   `json:"book_titles"`
	BookCopies                int64   `json:"book_copies"`
	OpenLoans                 int64   `json:"open_loans"`
	OverdueLoans              int64   `json:"overdue_loans"`
	TodayAttendanceMarked     int     `json:"today_attendance_marked"`
	TodayAttendancePercentage float64 `json:"today_attendance_percentage"`
	FeesCollectedThisMonth    int64   `json:"fees_collected_this_month"`
	PendingFeesTotal          int64   `json:"pending_fees_total"`
	OverdueDues               int64   `json:"overdue_dues"`
	PendingLeaves             int64   `json:"pending_leaves"`
}
