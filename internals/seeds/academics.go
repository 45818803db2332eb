package seeds

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	sectionModel "schoolku_backend/internals/features/academics/sections/model"
	studentModel "schoolku_backend/internals/features/academics/students/model"
	"schoolku_backend/internals/helpers/dbtime"
)

type sectionSeed struct {
	School       string `json:"school"`
	ClassName    string `json:"class_name"`
	SectionName  string `json:"section_name"`
	AcademicYear string `json:"academic_year"`
	Capacity     *int   `json:"capacity"`
}

func SeedSectionsFromJSON(ctx context.Context, db *gorm.DB, path string) (int, error) {
	rows, err := readJSON[sectionSeed](path)
	if err != nil {
		return 0, err
	}
	schools := newSchoolIDs(db)
	n := 0
	for _, s := range rows {
		schoolID, err := schools.get(ctx, s.School)
		if err != nil {
			return n, err
		}
		if _, found, err := findSection(ctx, db, schoolID, s.ClassName, s.SectionName, s.AcademicYear); err != nil || found {
			if err != nil {
				return n, err
			}
			continue
		}
		m := sectionModel.ClassSectionModel{
			ClassSectionSchoolID:     schoolID,
			ClassSectionClassName:    s.ClassName,
			ClassSectionName:         s.SectionName,
			ClassSectionAcademicYear: s.AcademicYear,
			ClassSectionCapacity:     s.Capacity,
		}
		if err := db.WithContext(ctx).Create(&m).Error; err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func findSection(ctx context.Context, db *gorm.DB, schoolID uuid.UUID, class, section, year string) (uuid.UUID, bool, error) {
	var ids []uuid.UUID
	if err := db.WithContext(ctx).Model(&sectionModel.ClassSectionModel{}).
		Where("class_section_school_id = ? AND class_section_class_name = ? AND class_section_name = ? AND class_section_academic_year = ?",
			schoolID, class, section, year).
		Limit(1).
		Pluck("class_section_id", &ids).Error; err != nil {
		return uuid.Nil, false, err
	}
	if len(ids) == 0 {
		return uuid.Nil, false, nil
	}
	return ids[0], true, nil
}

type studentSeed struct {
	School       string  `json:"school"`
	ClassName    string  `json:"class_name"`
	SectionName  string  `json:"section_name"`
	AcademicYear string  `json:"academic_year"`
	AdmissionNo  string  `json:"admission_no"`
	FullName     string  `json:"full_name"`
	Gender       string  `json:"gender"`
	DateOfBirth  string  `json:"date_of_birth"`
	GuardianName *string `json:"guardian_name"`
	EnrolledAt   string  `json:"enrolled_at"`
}

func SeedStudentsFromJSON(ctx context.Context, db *gorm.DB, path string) (int, error) {
	rows, err := readJSON[studentSeed](path)
	if err != nil {
		return 0, err
	}
	schools := newSchoolIDs(db)
	n := 0
	for _, s := range rows {
		schoolID, err := schools.get(ctx, s.School)
		if err != nil {
			return n, err
		}
		var exists int64
		if err := db.WithContext(ctx).Model(&studentModel.StudentModel{}).
			Where("student_school_id = ? AND student_admission_no = ?", schoolID, s.AdmissionNo).
			Count(&exists).Error; err != nil {
			return n, err
		}
		if exists > 0 {
			continue
		}
		sectionID, found, err := findSection(ctx, db, schoolID, s.ClassName, s.SectionName, s.AcademicYear)
		if err != nil {
			return n, err
		}
		if !found {
			return n, fmt.Errorf("student %s: section %s - %s (%s) not seeded", s.AdmissionNo, s.ClassName, s.SectionName, s.AcademicYear)
		}
		enrolled, err := dbtime.ParseDate(s.EnrolledAt)
		if err != nil {
			return n, fmt.Errorf("student %s enrolled_at: %w", s.AdmissionNo, err)
		}
		m := studentModel.StudentModel{
			StudentSchoolID:     schoolID,
			StudentSectionID:    sectionID,
			StudentAdmissionNo:  s.AdmissionNo,
			StudentFullName:     s.FullName,
			StudentGender:       studentModel.Gender(s.Gender),
			StudentGuardianName: s.GuardianName,
			StudentEnrolledAt:   enrolled,
			StudentIsActive:     true,
		}
		if s.DateOfBirth != "" {
			dob, err := dbtime.ParseDate(s.DateOfBirth)
			if err != nil {
				return n, fmt.Errorf("student %s date_of_birth: %w", s.AdmissionNo, err)
			}
			m.StudentDateOfBirth = &dob
		}
		if err := db.WithContext(ctx).Create(&m).Error; err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
