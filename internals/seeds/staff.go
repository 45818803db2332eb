package seeds

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	staffModel "schoolku_backend/internals/features/staff/members/model"
	"schoolku_backend/internals/helpers/dbtime"
)

type staffSeed struct {
	School     string  `json:"school"`
	EmployeeNo string  `json:"employee_no"`
	FullName   string  `json:"full_name"`
	Role       string  `json:"role"`
	Department *string `json:"department"`
	Email      *string `json:"email"`
	JoinDate   string  `json:"join_date"`
}

func SeedStaffFromJSON(ctx context.Context, db *gorm.DB, path string) (int, error) {
	rows, err := readJSON[staffSeed](path)
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
		role := staffModel.Role(s.Role)
		if !role.Valid() {
			return n, fmt.Errorf("staff %s: unknown role %q", s.EmployeeNo, s.Role)
		}
		var exists int64
		if err := db.WithContext(ctx).Model(&staffModel.StaffModel{}).
			Where("staff_school_id = ? AND staff_employee_no = ?", schoolID, s.EmployeeNo).
			Count(&exists).Error; err != nil {
			return n, err
		}
		if exists > 0 {
			continue
		}
		joined, err := dbtime.ParseDate(s.JoinDate)
		if err != nil {
			return n, fmt.Errorf("staff %s join_date: %w", s.EmployeeNo, err)
		}
		m := staffModel.StaffModel{
			StaffSchoolID:   schoolID,
			StaffEmployeeNo: s.EmployeeNo,
			StaffFullName:   s.FullName,
			StaffRole:       role,
			StaffDepartment: s.Department,
			StaffEmail:      s.Email,
			StaffJoinDate:   joined,
			StaffIsActive:   true,
		}
		if err := db.WithContext(ctx).Create(&m).Error; err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
