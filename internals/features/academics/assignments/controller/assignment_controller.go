package controller

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/academics/assignments/dto"
	"schoolku_backend/internals/features/academics/assignments/model"
	"schoolku_backend/internals/features/academics/assignments/service"
	sectionCtl "schoolku_backend/internals/features/academics/sections/controller"
	studentModel "schoolku_backend/internals/features/academics/students/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
	scope "schoolku_backend/internals/middlewares/features"
)

type AssignmentController struct{ DB *gorm.DB }

func NewAssignmentController(db *gorm.DB) *AssignmentController {
	return &AssignmentController{DB: db}
}

func dueBeforeAssigned() map[string][]string {
	return map[string][]string{"assignment_due_date": {"must not be before assignment_assigned_date"}}
}

// POST /assignments
func (h *AssignmentController) Create(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.CreateAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}
	m, err := req.ToModel(schoolID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if m.AssignmentDueDate.Before(m.AssignmentAssignedDate) {
		return helper.JsonValidationError(c, dueBeforeAssigned())
	}
	if err := sectionCtl.EnsureSection(h.DB.WithContext(c.UserContext()), schoolID, m.AssignmentSectionID); err != nil {
		return helper.FromError(c, err)
	}

	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create assignment")
	}
	return helper.JsonCreated(c, "assignment created", dto.FromModel(m, dbtime.TodayInSchool(c)))
}

// GET /assignments
func (h *AssignmentController) List(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "due_date", "desc", helper.AdminOpts)

	var q dto.ListAssignmentQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	sectionID, err := helper.QueryUUID(c, "section_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	today := dbtime.TodayInSchool(c)

	tx := h.DB.WithContext(c.UserContext()).
		Model(&model.AssignmentModel{}).
		Where("assignment_school_id = ?", schoolID)
	if sectionID != nil {
		tx = tx.Where("assignment_section_id = ?", *sectionID)
	}
	if s := strings.TrimSpace(q.Subject); s != "" {
		tx = tx.Where("LOWER(assignment_subject) = ?", strings.ToLower(s))
	}
	switch strings.ToLower(strings.TrimSpace(q.Status)) {
	case "":
	case service.StatusUpcoming:
		tx = tx.Where("assignment_assigned_date > ?", today)
	case service.StatusOpen:
		tx = tx.Where("assignment_assigned_date <= ? AND assignment_due_date >= ?", today, today)
	case service.StatusClosed:
		tx = tx.Where("assignment_due_date < ?", today)
	default:
		return helper.JsonError(c, fiber.StatusBadRequest, "status must be one of upcoming, open, closed")
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count assignments")
	}

	order := p.OrderExpr(map[string]string{
		"due_date":      "assignment_due_date",
		"assigned_date": "assignment_assigned_date",
		"title":         "assignment_title",
		"created_at":    "assignment_created_at",
	}, "due_date")

	var rows []model.AssignmentModel
	if err := tx.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch assignments")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].AssignmentID)
	}
	counts := map[uuid.UUID]int64{}
	if len(ids) > 0 {
		var agg []struct {
			AssignmentID uuid.UUID
			N            int64
		}
		if err := h.DB.WithContext(c.UserContext()).
			Model(&model.AssignmentSubmissionModel{}).
			Select("submission_assignment_id AS assignment_id, COUNT(*) AS n").
			Where("submission_assignment_id IN ?", ids).
			Group("submission_assignment_id").
			Scan(&agg).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count submissions")
		}
		for _, a := range agg {
			counts[a.AssignmentID] = a.N
		}
	}

	out := make([]dto.AssignmentResponse, 0, len(rows))
	for i := range rows {
		r := dto.FromModel(&rows[i], today)
		n := counts[rows[i].AssignmentID]
		r.AssignmentSubmissionCount = &n
		out = append(out, r)
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

// GET /assignments/:id
func (h *AssignmentController) Get(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m, dbtime.TodayInSchool(c)))
}

// PATCH /assignments/:id
func (h *AssignmentController) Update(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.UpdateAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}
	if err := req.ApplyToModel(m); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if m.AssignmentDueDate.Before(m.AssignmentAssignedDate) {
		return helper.JsonValidationError(c, dueBeforeAssigned())
	}

	if err := h.DB.WithContext(c.UserContext()).Save(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update assignment")
	}
	return helper.JsonUpdated(c, "assignment updated", dto.FromModel(m, dbtime.TodayInSchool(c)))
}

// DELETE /assignments/:id
func (h *AssignmentController) Delete(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := h.DB.WithContext(c.UserContext()).Delete(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete assignment")
	}
	return helper.JsonDeleted(c, "assignment deleted", fiber.Map{"assignment_id": m.AssignmentID})
}

// POST /assignments/:id/submissions
func (h *AssignmentController) Submit(c *fiber.Ctx) error {
	a, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}

	var member int64
	if err := h.DB.WithContext(c.UserContext()).
		Model(&studentModel.StudentModel{}).
		Where("student_school_id = ? AND student_section_id = ? AND student_id = ?", a.AssignmentSchoolID, a.AssignmentSectionID, req.StudentID).
		Count(&member).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to check student")
	}
	if member == 0 {
		return helper.JsonValidationError(c, map[string][]string{"student_id": {"student is not in this section"}})
	}

	at := dbtime.NowInSchool(c)
	if req.SubmittedAt != nil {
		at = *req.SubmittedAt
	}
	late := service.IsLate(at, a.AssignmentDueDate, dbtime.GetSchoolLocation(c))

	var sub model.AssignmentSubmissionModel
	created := false
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("submission_assignment_id = ? AND submission_student_id = ?", a.AssignmentID, req.StudentID).
			First(&sub).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			sub = model.AssignmentSubmissionModel{
				SubmissionSchoolID:     a.AssignmentSchoolID,
				SubmissionAssignmentID: a.AssignmentID,
				SubmissionStudentID:    req.StudentID,
			}
		case err != nil:
			return err
		}
		// a resubmission clears any earlier grade
		sub.SubmissionSubmittedAt = at
		sub.SubmissionLink = helper.TrimPtr(req.Link)
		sub.SubmissionIsLate = late
		sub.SubmissionScore = nil
		sub.SubmissionFeedback = nil
		sub.SubmissionGradedAt = nil
		return tx.Save(&sub).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save submission")
	}
	if created {
		return helper.JsonCreated(c, "submission received", dto.FromSubmission(&sub))
	}
	return helper.JsonUpdated(c, "submission updated", dto.FromSubmission(&sub))
}

// PATCH /assignments/:id/submissions/:submission_id/grade
func (h *AssignmentController) Grade(c *fiber.Ctx) error {
	a, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	subID, err := helper.ParamUUID(c, "submission_id")
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.GradeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}
	if req.Score > a.AssignmentTotalMarks {
		return helper.JsonValidationError(c, map[string][]string{
			"score": {fmt.Sprintf("must be at most %.2f", a.AssignmentTotalMarks)},
		})
	}

	var sub model.AssignmentSubmissionModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("submission_assignment_id = ? AND submission_id = ?", a.AssignmentID, subID).
		First(&sub).Error; err != nil {
		return helper.FromError(c, err)
	}

	now := time.Now()
	score := req.Score
	sub.SubmissionScore = &score
	sub.SubmissionFeedback = helper.TrimPtr(req.Feedback)
	sub.SubmissionGradedAt = &now
	if err := h.DB.WithContext(c.UserContext()).Save(&sub).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to grade submission")
	}
	return helper.JsonUpdated(c, "submission graded", dto.FromSubmission(&sub))
}

// GET /assignments/:id/submissions
func (h *AssignmentController) ListSubmissions(c *fiber.Ctx) error {
	a, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "submitted_at", "asc", helper.AdminOpts)

	tx := h.DB.WithContext(c.UserContext()).
		Model(&model.AssignmentSubmissionModel{}).
		Where("submission_assignment_id = ?", a.AssignmentID)

	late, err := helper.QueryBool(c, "is_late")
	if err != nil {
		return helper.FromError(c, err)
	}
	if late != nil {
		tx = tx.Where("submission_is_late = ?", *late)
	}
	graded, err := helper.QueryBool(c, "graded")
	if err != nil {
		return helper.FromError(c, err)
	}
	if graded != nil {
		if *graded {
			tx = tx.Where("submission_score IS NOT NULL")
		} else {
			tx = tx.Where("submission_score IS NULL")
		}
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count submissions")
	}
	order := p.OrderExpr(map[string]string{
		"submitted_at": "submission_submitted_at",
		"score":        "submission_score",
	}, "submitted_at")

	var rows []model.AssignmentSubmissionModel
	if err := tx.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch submissions")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].SubmissionStudentID)
	}
	names := map[uuid.UUID]string{}
	if len(ids) > 0 {
		var studs []studentModel.StudentModel
		if err := h.DB.WithContext(c.UserContext()).Unscoped().
			Select("student_id", "student_full_name").
			Where("student_id IN ?", ids).
			Find(&studs).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch students")
		}
		for _, s := range studs {
			names[s.StudentID] = s.StudentFullName
		}
	}

	out := make([]dto.SubmissionResponse, 0, len(rows))
	for i := range rows {
		r := dto.FromSubmission(&rows[i])
		r.SubmissionStudentName = names[rows[i].SubmissionStudentID]
		out = append(out, r)
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

func (h *AssignmentController) load(c *fiber.Ctx) (*model.AssignmentModel, error) {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.AssignmentModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("assignment_school_id = ? AND assignment_id = ?", schoolID, id).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
