package controller

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolku_backend/internals/features/academics/assessments/dto"
	"schoolku_backend/internals/features/academics/assessments/model"
	"schoolku_backend/internals/features/academics/assessments/service"
	sectionCtl "schoolku_backend/internals/features/academics/sections/controller"
	studentModel "schoolku_backend/internals/features/academics/students/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
	scope "schoolku_backend/internals/middlewares/features"
)

type AssessmentController struct{ DB *gorm.DB }

func NewAssessmentController(db *gorm.DB) *AssessmentController {
	return &AssessmentController{DB: db}
}

// POST /assessments
func (h *AssessmentController) Create(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.CreateAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}

	if err := sectionCtl.EnsureSection(h.DB.WithContext(c.UserContext()), schoolID, req.SectionID); err != nil {
		return helper.FromError(c, err)
	}

	m, err := req.ToModel(schoolID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid assessment_date")
	}
	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create assessment")
	}
	return helper.JsonCreated(c, "assessment created", dto.FromModel(m))
}

// GET /assessments
func (h *AssessmentController) List(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "date", "desc", helper.AdminOpts)

	var q dto.ListAssessmentQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	sectionID, err := helper.QueryUUID(c, "section_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	from, err := helper.QueryDate(c, "date_from", nil)
	if err != nil {
		return helper.FromError(c, err)
	}
	to, err := helper.QueryDate(c, "date_to", nil)
	if err != nil {
		return helper.FromError(c, err)
	}

	tx := h.DB.WithContext(c.UserContext()).
		Model(&model.AssessmentModel{}).
		Where("assessment_school_id = ?", schoolID)
	if sectionID != nil {
		tx = tx.Where("assessment_section_id = ?", *sectionID)
	}
	if s := strings.TrimSpace(q.Subject); s != "" {
		tx = tx.Where("LOWER(assessment_subject) = ?", strings.ToLower(s))
	}
	if s := strings.TrimSpace(q.Kind); s != "" {
		tx = tx.Where("assessment_kind = ?", s)
	}
	if from != nil {
		tx = tx.Where("assessment_date >= ?", dbtime.DateOf(*from))
	}
	if to != nil {
		tx = tx.Where("assessment_date <= ?", dbtime.DateOf(*to))
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count assessments")
	}

	order := p.OrderExpr(map[string]string{
		"date":       "assessment_date",
		"subject":    "assessment_subject",
		"title":      "assessment_title",
		"created_at": "assessment_created_at",
	}, "date")

	var rows []model.AssessmentModel
	if err := tx.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch assessments")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].AssessmentID)
	}
	counts := map[uuid.UUID]int64{}
	if len(ids) > 0 {
		var agg []struct {
			AssessmentID uuid.UUID
			N            int64
		}
		if err := h.DB.WithContext(c.UserContext()).
			Model(&model.AssessmentResultModel{}).
			Select("assessment_result_assessment_id AS assessment_id, COUNT(*) AS n").
			Where("assessment_result_assessment_id IN ?", ids).
			Group("assessment_result_assessment_id").
			Scan(&agg).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count results")
		}
		for _, a := range agg {
			counts[a.AssessmentID] = a.N
		}
	}

	out := make([]dto.AssessmentResponse, 0, len(rows))
	for i := range rows {
		r := dto.FromModel(&rows[i])
		n := counts[rows[i].AssessmentID]
		r.AssessmentResultCount = &n
		out = append(out, r)
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

// GET /assessments/:id
func (h *AssessmentController) Get(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m))
}

// PATCH /assessments/:id
func (h *AssessmentController) Update(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.UpdateAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}
	if err := req.ApplyToModel(m); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid assessment_date")
	}
	if m.AssessmentPassingMarks > m.AssessmentTotalMarks {
		return helper.JsonValidationError(c, map[string][]string{
			"assessment_passing_marks": {"must not exceed assessment_total_marks"},
		})
	}

	if req.TotalMarks != nil {
		var highest *float64
		if err := h.DB.WithContext(c.UserContext()).
			Model(&model.AssessmentResultModel{}).
			Select("MAX(assessment_result_marks_obtained)").
			Where("assessment_result_assessment_id = ?", m.AssessmentID).
			Scan(&highest).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to check results")
		}
		if highest != nil && *highest > m.AssessmentTotalMarks {
			return helper.JsonError(c, fiber.StatusConflict,
				fmt.Sprintf("total marks cannot be lower than an existing result (%.2f)", *highest))
		}
	}

	if err := h.DB.WithContext(c.UserContext()).Save(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update assessment")
	}
	return helper.JsonUpdated(c, "assessment updated", dto.FromModel(m))
}

// DELETE /assessments/:id
func (h *AssessmentController) Delete(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := h.DB.WithContext(c.UserContext()).Delete(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete assessment")
	}
	return helper.JsonDeleted(c, "assessment deleted", fiber.Map{"assessment_id": m.AssessmentID})
}

// PUT /assessments/:id/results
func (h *AssessmentController) UpsertResults(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.UpsertResultsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}

	// 1) marks range + duplicates
	fieldErrs := map[string][]string{}
	seen := map[uuid.UUID]int{}
	ids := make([]uuid.UUID, 0, len(req.Results))
	for i, it := range req.Results {
		if it.MarksObtained > m.AssessmentTotalMarks {
			key := fmt.Sprintf("results[%d].marks_obtained", i)
			fieldErrs[key] = append(fieldErrs[key], fmt.Sprintf("must be at most %.2f", m.AssessmentTotalMarks))
		}
		if j, dup := seen[it.StudentID]; dup {
			key := fmt.Sprintf("results[%d].student_id", i)
			fieldErrs[key] = append(fieldErrs[key], fmt.Sprintf("duplicates results[%d]", j))
			continue
		}
		seen[it.StudentID] = i
		ids = append(ids, it.StudentID)
	}

	// 2) membership
	var members []uuid.UUID
	if err := h.DB.WithContext(c.UserContext()).
		Model(&studentModel.StudentModel{}).
		Where("student_school_id = ? AND student_section_id = ? AND student_id IN ?", m.AssessmentSchoolID, m.AssessmentSectionID, ids).
		Pluck("student_id", &members).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to check students")
	}
	inSection := make(map[uuid.UUID]bool, len(members))
	for _, id := range members {
		inSection[id] = true
	}
	for i, it := range req.Results {
		if !inSection[it.StudentID] {
			key := fmt.Sprintf("results[%d].student_id", i)
			fieldErrs[key] = append(fieldErrs[key], "student is not in this section")
		}
	}
	if len(fieldErrs) > 0 {
		return helper.JsonValidationError(c, fieldErrs)
	}

	// 3) upsert
	rows := make([]model.AssessmentResultModel, 0, len(req.Results))
	for _, it := range req.Results {
		rows = append(rows, model.AssessmentResultModel{
			AssessmentResultSchoolID:      m.AssessmentSchoolID,
			AssessmentResultAssessmentID:  m.AssessmentID,
			AssessmentResultStudentID:     it.StudentID,
			AssessmentResultMarksObtained: it.MarksObtained,
			AssessmentResultRemarks:       helper.TrimPtr(it.Remarks),
		})
	}
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "assessment_result_assessment_id"},
				{Name: "assessment_result_student_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"assessment_result_marks_obtained",
				"assessment_result_remarks",
				"assessment_result_updated_at",
			}),
		}).Create(&rows).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save results")
	}

	out, err := h.results(c, m)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch results")
	}
	return helper.JsonOK(c, "results saved", out)
}

// GET /assessments/:id/results
func (h *AssessmentController) ListResults(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := h.results(c, m)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch results")
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /assessments/:id/summary
func (h *AssessmentController) Summary(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var marks []float64
	if err := h.DB.WithContext(c.UserContext()).
		Model(&model.AssessmentResultModel{}).
		Where("assessment_result_assessment_id = ?", m.AssessmentID).
		Pluck("assessment_result_marks_obtained", &marks).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch results")
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"assessment": dto.FromModel(m),
		"summary":    service.Summarize(m.AssessmentTotalMarks, m.AssessmentPassingMarks, marks),
	})
}

func (h *AssessmentController) results(c *fiber.Ctx, m *model.AssessmentModel) ([]dto.ResultResponse, error) {
	var rows []model.AssessmentResultModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("assessment_result_assessment_id = ?", m.AssessmentID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].AssessmentResultStudentID)
	}
	names := map[uuid.UUID]string{}
	if len(ids) > 0 {
		var studs []studentModel.StudentModel
		if err := h.DB.WithContext(c.UserContext()).
			Unscoped().
			Select("student_id", "student_full_name").
			Where("student_id IN ?", ids).
			Find(&studs).Error; err != nil {
			return nil, err
		}
		for _, s := range studs {
			names[s.StudentID] = s.StudentFullName
		}
	}

	out := make([]dto.ResultResponse, 0, len(rows))
	for _, r := range rows {
		pct := helper.Percent(r.AssessmentResultMarksObtained, m.AssessmentTotalMarks)
		out = append(out, dto.ResultResponse{
			AssessmentResultID:            r.AssessmentResultID,
			AssessmentResultStudentID:     r.AssessmentResultStudentID,
			AssessmentResultStudentName:   names[r.AssessmentResultStudentID],
			AssessmentResultMarksObtained: r.AssessmentResultMarksObtained,
			AssessmentResultPercentage:    pct,
			AssessmentResultGrade:         service.Grade(pct),
			AssessmentResultPassed:        r.AssessmentResultMarksObtained >= m.AssessmentPassingMarks,
			AssessmentResultRemarks:       r.AssessmentResultRemarks,
			AssessmentResultUpdatedAt:     r.AssessmentResultUpdatedAt,
		})
	}
	sortByName(out)
	return out, nil
}

func (h *AssessmentController) load(c *fiber.Ctx) (*model.AssessmentModel, error) {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.AssessmentModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("assessment_school_id = ? AND assessment_id = ?", schoolID, id).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func sortByName(rs []dto.ResultResponse) {
	sort.SliceStable(rs, func(i, j int) bool {
		return strings.ToLower(rs[i].AssessmentResultStudentName) < strings.ToLower(rs[j].AssessmentResultStudentName)
	})
}
