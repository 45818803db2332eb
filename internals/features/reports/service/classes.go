package service

import (
	"sort"

	"github.com/google/uuid"

	assessmentModel "schoolku_backend/internals/features/academics/assessments/model"
	attModel "schoolku_backend/internals/features/academics/attendance/model"
	attSvc "schoolku_backend/internals/features/academics/attendance/service"
	sectionModel "schoolku_backend/internals/features/academics/sections/model"
	studentModel "schoolku_backend/internals/features/academics/students/model"
	feeModel "schoolku_backend/internals/features/finance/fees/model"
	helper "schoolku_backend/internals/helpers"
)

type ClassRow struct {
	SectionID            uuid.UUID `json:"section_id"`
	Label                string    `json:"label"`
	AcademicYear         string    `json:"academic_year"`
	StudentCount         int       `json:"student_count"`
	AttendanceRecords    int       `json:"attendance_records"`
	AttendancePercentage float64   `json:"attendance_percentage"`
	Assessments          int       `json:"assessments"`
	AssessmentAverage    float64   `json:"assessment_average_percentage"`
	FeeCollectionRate    float64   `json:"fee_collection_rate"`
}

// ClassInputs are the rows a class report is computed from. Students map
// attendance, results and dues onto sections.
type ClassInputs struct {
	Sections    []sectionModel.ClassSectionModel
	Students    []studentModel.StudentModel
	Attendance  []attModel.AttendanceRecordModel
	Assessments []assessmentModel.AssessmentModel
	Results     []assessmentModel.AssessmentResultModel
	Dues        []feeModel.StudentFeeModel
}

type classAcc struct {
	row             ClassRow
	att             attSvc.Counts
	marks, maxMarks float64
	billable, paid  int64
}

// BuildClassReport returns one row per section ordered by label. The
// assessment average is total marks obtained over total marks possible.
func BuildClassReport(in ClassInputs) []ClassRow {
	accs := make(map[uuid.UUID]*classAcc, len(in.Sections))
	for i := range in.Sections {
		s := &in.Sections[i]
		accs[s.ClassSectionID] = &classAcc{row: ClassRow{
			SectionID:    s.ClassSectionID,
			Label:        s.Label(),
			AcademicYear: s.ClassSectionAcademicYear,
		}}
	}

	sectionOf := make(map[uuid.UUID]uuid.UUID, len(in.Students))
	for i := range in.Students {
		st := &in.Students[i]
		sectionOf[st.StudentID] = st.StudentSectionID
		if a := accs[st.StudentSectionID]; a != nil && st.StudentIsActive {
			a.row.StudentCount++
		}
	}

	for i := range in.Attendance {
		rec := &in.Attendance[i]
		if a := accs[rec.AttendanceSectionID]; a != nil {
			a.att.Add(rec.AttendanceStatus)
		}
	}

	totals := make(map[uuid.UUID]float64, len(in.Assessments))
	assessmentSection := make(map[uuid.UUID]uuid.UUID, len(in.Assessments))
	for i := range in.Assessments {
		as := &in.Assessments[i]
		totals[as.AssessmentID] = as.AssessmentTotalMarks
		assessmentSection[as.AssessmentID] = as.AssessmentSectionID
		if a := accs[as.AssessmentSectionID]; a != nil {
			a.row.Assessments++
		}
	}
	for i := range in.Results {
		res := &in.Results[i]
		sec, ok := assessmentSection[res.AssessmentResultAssessmentID]
		if !ok {
			continue
		}
		if a := accs[sec]; a != nil {
			a.marks += res.AssessmentResultMarksObtained
			a.maxMarks += totals[res.AssessmentResultAssessmentID]
		}
	}

	for i := range in.Dues {
		d := &in.Dues[i]
		sec, ok := sectionOf[d.StudentFeeStudentID]
		if !ok {
			continue
		}
		if a := accs[sec]; a != nil {
			a.billable += d.StudentFeeTotalAmount - d.StudentFeeDiscount
			a.paid += d.StudentFeePaidAmount
		}
	}

	out := make([]ClassRow, 0, len(accs))
	for _, a := range accs {
		a.row.AttendanceRecords = a.att.TotalDays
		a.row.AttendancePercentage = a.att.Percentage
		a.row.AssessmentAverage = helper.Percent(a.marks, a.maxMarks)
		a.row.FeeCollectionRate = helper.Percent(float64(a.paid), float64(a.billable))
		out = append(out, a.row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].AcademicYear < out[j].AcademicYear
	})
	return out
}
