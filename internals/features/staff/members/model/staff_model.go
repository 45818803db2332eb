package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleTeacher    Role = "teacher"
	RoleAdmin      Role = "admin"
	RoleAccountant Role = "accountant"
	RoleLibrarian  Role = "librarian"
	RoleSupport    Role = "support"
)

func (r Role) Valid() bool {
	switch r {
	case RoleTeacher, RoleAdmin, RoleAccountant, RoleLibrarian, RoleSupport:
		return true
	}
	return false
}

type StaffModel struct {
	StaffID         uuid.UUID `gorm:"column:staff_id;type:uuid;primaryKey" json:"staff_id"`
	StaffSchoolID   uuid.UUID `gorm:"column:staff_school_id;type:uuid;not null;index:idx_staff_school;uniqueIndex:uq_staff_employee_no_live,where:staff_deleted_at IS NULL" json:"staff_school_id"`
	StaffEmployeeNo string    `gorm:"column:staff_employee_no;type:varchar(40);not null;uniqueIndex:uq_staff_employee_no_live,where:staff_deleted_at IS NULL" json:"staff_employee_no"`

	StaffFullName   string    `gorm:"column:staff_full_name;type:varchar(150);not null" json:"staff_full_name"`
	StaffRole       Role      `gorm:"column:staff_role;type:varchar(20);not null;index" json:"staff_role"`
	StaffDepartment *string   `gorm:"column:staff_department;type:varchar(80)" json:"staff_department,omitempty"`
	StaffEmail      *string   `gorm:"column:staff_email;type:varchar(150)" json:"staff_email,omitempty"`
	StaffPhone      *string   `gorm:"column:staff_phone;type:varchar(30)" json:"staff_phone,omitempty"`
	StaffJoinDate   time.Time `gorm:"column:staff_join_date;type:date;not null" json:"staff_join_date"`
	StaffIsActive   bool      `gorm:"column:staff_is_active;not null" json:"staff_is_active"`

	StaffCreatedAt time.Time      `gorm:"column:staff_created_at;not null;autoCreateTime" json:"staff_created_at"`
	StaffUpdatedAt time.Time      `gorm:"column:staff_updated_at;not null;autoUpdateTime" json:"staff_updated_at"`
	StaffDeletedAt gorm.DeletedAt `gorm:"column:staff_deleted_at;index" json:"-"`
}

func (StaffModel) TableName() string { return "staff" }

func (m *StaffModel) BeforeCreate(tx *gorm.DB) error {
	if m.StaffID == uuid.Nil {
		m.StaffID = uuid.New()
	}
	return nil
}
