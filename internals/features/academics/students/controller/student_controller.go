package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	sectionModel "schoolku_backend/internals/features/academics/sections/model"
	"schoolku_backend/internals/features/academics/students/dto"
	"schoolku_backend/internals/features/academics/students/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
	scope "schoolku_backend/internals/middlewares/features"
)

var (
	ErrSectionNotFound  = errors.New("section not found")
	ErrSectionFull      = errors.New("section is at capacity")
	ErrAdmissionNoTaken = errors.New("admission number already used")
)

type StudentController struct{ DB *gorm.DB }

func NewStudentController(db *gorm.DB) *StudentController { return &StudentController{DB: db} }

// POST /students
func (h *StudentController) Create(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}

	m := req.ToModel(schoolID, dbtime.TodayInSchool(c))
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := checkEnrollment(tx, m, nil); err != nil {
			return err
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return writeStudentError(c, err, "failed to create student")
	}
	return helper.JsonCreated(c, "student created", dto.FromModel(m))
}

// GET /students
func (h *StudentController) List(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "full_name", "asc", helper.AdminOpts)

	var q dto.ListStudentQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}

	tx := h.DB.WithContext(c.UserContext()).
		Model(&model.StudentModel{}).
		Where("student_school_id = ?", schoolID)

	sectionID, err := helper.QueryUUID(c, "section_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if sectionID != nil {
		tx = tx.Where("student_section_id = ?", *sectionID)
	}
	isActive, err := helper.QueryBool(c, "is_active")
	if err != nil {
		return helper.FromError(c, err)
	}
	if isActive != nil {
		tx = tx.Where("student_is_active = ?", *isActive)
	}
	if s := strings.TrimSpace(q.Q); s != "" {
		like := helper.LikePattern(s)
		tx = tx.Where("(LOWER(student_full_name) LIKE ? OR LOWER(student_admission_no) LIKE ?)", like, like)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count students")
	}

	order := p.OrderExpr(map[string]string{
		"full_name":    "student_full_name",
		"admission_no": "student_admission_no",
		"enrolled_at":  "student_enrolled_at",
		"created_at":   "student_created_at",
	}, "full_name")

	var rows []model.StudentModel
	if err := tx.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch students")
	}

	// batch section labels
	labels, err := sectionLabels(h.DB.WithContext(c.UserContext()), rows)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch sections")
	}

	out := make([]dto.StudentResponse, 0, len(rows))
	for i := range rows {
		r := dto.FromModel(&rows[i])
		r.StudentSectionLabel = labels[rows[i].StudentSectionID]
		out = append(out, r)
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

// GET /students/:id
func (h *StudentController) Get(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	labels, err := sectionLabels(h.DB.WithContext(c.UserContext()), []model.StudentModel{*m})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch section")
	}
	r := dto.FromModel(m)
	r.StudentSectionLabel = labels[m.StudentSectionID]
	return helper.JsonOK(c, "ok", r)
}

// PATCH /students/:id
func (h *StudentController) Update(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}
	req.ApplyToModel(m)

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := checkEnrollment(tx, m, &m.StudentID); err != nil {
			return err
		}
		return tx.Save(m).Error
	})
	if err != nil {
		return writeStudentError(c, err, "failed to update student")
	}
	return helper.JsonUpdated(c, "student updated", dto.FromModel(m))
}

// DELETE /students/:id
func (h *StudentController) Delete(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := h.DB.WithContext(c.UserContext()).Delete(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete student")
	}
	return helper.JsonDeleted(c, "student deleted", fiber.Map{"student_id": m.StudentID})
}

func (h *StudentController) load(c *fiber.Ctx) (*model.StudentModel, error) {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.StudentModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("student_school_id = ? AND student_id = ?", schoolID, id).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// checkEnrollment enforces admission_no uniqueness and section capacity.
// Only active students take a seat.
func checkEnrollment(tx *gorm.DB, m *model.StudentModel, except *uuid.UUID) error {
	var n int64
	q := tx.Model(&model.StudentModel{}).
		Where("student_school_id = ? AND student_admission_no = ?", m.StudentSchoolID, m.StudentAdmissionNo)
	if except != nil {
		q = q.Where("student_id <> ?", *except)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrAdmissionNoTaken
	}

	var sec sectionModel.ClassSectionModel
	err := tx.Where("class_section_school_id = ? AND class_section_id = ?", m.StudentSchoolID, m.StudentSectionID).
		First(&sec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSectionNotFound
	}
	if err != nil {
		return err
	}
	if sec.ClassSectionCapacity == nil || !m.StudentIsActive {
		return nil
	}

	q = tx.Model(&model.StudentModel{}).
		Where("student_school_id = ? AND student_section_id = ? AND student_is_active = ?", m.StudentSchoolID, m.StudentSectionID, true)
	if except != nil {
		q = q.Where("student_id <> ?", *except)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n >= int64(*sec.ClassSectionCapacity) {
		return ErrSectionFull
	}
	return nil
}

func sectionLabels(db *gorm.DB, rows []model.StudentModel) (map[uuid.UUID]string, error) {
	out := map[uuid.UUID]string{}
	if len(rows) == 0 {
		return out, nil
	}
	seen := map[uuid.UUID]struct{}{}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.StudentSectionID]; ok {
			continue
		}
		seen[r.StudentSectionID] = struct{}{}
		ids = append(ids, r.StudentSectionID)
	}
	var secs []sectionModel.ClassSectionModel
	if err := db.Where("class_section_id IN ?", ids).Find(&secs).Error; err != nil {
		return nil, err
	}
	for i := range secs {
		out[secs[i].ClassSectionID] = secs[i].Label()
	}
	return out, nil
}

func writeStudentError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, ErrSectionNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrSectionFull), errors.Is(err, ErrAdmissionNoTaken):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
	}
}
