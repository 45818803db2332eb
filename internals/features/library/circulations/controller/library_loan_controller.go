package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	studentModel "schoolku_backend/internals/features/academics/students/model"
	bookModel "schoolku_backend/internals/features/library/books/model"
	"schoolku_backend/internals/features/library/circulations/dto"
	"schoolku_backend/internals/features/library/circulations/model"
	"schoolku_backend/internals/features/library/circulations/service"
	staffModel "schoolku_backend/internals/features/staff/members/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
	scope "schoolku_backend/internals/middlewares/features"
)

type LoanController struct {
	DB     *gorm.DB
	Policy service.Policy
}

func NewLoanController(db *gorm.DB, p service.Policy) *LoanController {
	return &LoanController{DB: db, Policy: p.WithDefaults()}
}

// POST /library/loans
func (h *LoanController) Issue(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.IssueRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}
	today := dbtime.TodayInSchool(c)
	m := req.ToModel(schoolID, today, h.Policy)
	if m.LibraryLoanDueAt.Before(m.LibraryLoanIssuedAt) {
		return helper.JsonValidationError(c, map[string][]string{
			"library_loan_due_at": {"must be on or after library_loan_issued_at"},
		})
	}

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := ensureBorrower(tx, schoolID, m.LibraryLoanBorrowerType, m.LibraryLoanBorrowerID); err != nil {
			return err
		}
		var open int64
		if err := tx.Model(&model.LibraryLoanModel{}).
			Where("library_loan_school_id = ? AND library_loan_borrower_type = ? AND library_loan_borrower_id = ?",
				schoolID, m.LibraryLoanBorrowerType, m.LibraryLoanBorrowerID).
			Where("library_loan_returned_at IS NULL").
			Count(&open).Error; err != nil {
			return err
		}
		if open >= int64(h.Policy.MaxLoans) {
			return service.ErrLoanLimit
		}

		var n int64
		if err := tx.Model(&bookModel.LibraryBookModel{}).
			Where("library_book_school_id = ? AND library_book_id = ?", schoolID, m.LibraryLoanBookID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return service.ErrBookNotFound
		}
		// conditional decrement keeps available >= 0 under concurrent issues
		res := tx.Model(&bookModel.LibraryBookModel{}).
			Where("library_book_id = ? AND library_book_available_copies > 0", m.LibraryLoanBookID).
			UpdateColumns(map[string]any{
				"library_book_available_copies": gorm.Expr("library_book_available_copies - 1"),
				"library_book_updated_at":       time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return service.ErrNoCopies
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return writeLoanError(c, err, "failed to issue book")
	}

	out, err := h.responses(c, []model.LibraryLoanModel{*m}, today)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch loan details")
	}
	return helper.JsonCreated(c, "book issued", out[0])
}

// POST /library/loans/:id/return
func (h *LoanController) Return(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.ReturnRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}
	if m.LibraryLoanReturnedAt != nil {
		return helper.JsonError(c, fiber.StatusConflict, service.ErrAlreadyReturned.Error())
	}

	today := dbtime.TodayInSchool(c)
	returned := today
	if req.ReturnedAt != nil {
		if d, err := dbtime.ParseDate(*req.ReturnedAt); err == nil {
			returned = d
		}
	}
	if returned.Before(m.LibraryLoanIssuedAt) {
		return helper.JsonValidationError(c, map[string][]string{
			"library_loan_returned_at": {"must be on or after library_loan_issued_at"},
		})
	}
	fine := h.Policy.Fine(m.LibraryLoanDueAt, returned)

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.LibraryLoanModel{}).
			Where("library_loan_id = ? AND library_loan_returned_at IS NULL", m.LibraryLoanID).
			Updates(map[string]any{
				"library_loan_returned_at": returned,
				"library_loan_fine":        fine,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return service.ErrAlreadyReturned
		}
		return tx.Model(&bookModel.LibraryBookModel{}).Unscoped().
			Where("library_book_id = ? AND library_book_available_copies < library_book_total_copies", m.LibraryLoanBookID).
			UpdateColumns(map[string]any{
				"library_book_available_copies": gorm.Expr("library_book_available_copies + 1"),
				"library_book_updated_at":       time.Now(),
			}).Error
	})
	if err != nil {
		return writeLoanError(c, err, "failed to return book")
	}
	m.LibraryLoanReturnedAt = &returned
	m.LibraryLoanFine = fine

	out, err := h.responses(c, []model.LibraryLoanModel{*m}, today)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch loan details")
	}
	return helper.JsonUpdated(c, "book returned", out[0])
}

// GET /library/loans
func (h *LoanController) List(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "issued_at", "desc", helper.AdminOpts)
	today := dbtime.TodayInSchool(c)

	tx := h.DB.WithContext(c.UserContext()).
		Model(&model.LibraryLoanModel{}).
		Where("library_loan_school_id = ?", schoolID)

	if s := strings.TrimSpace(c.Query("status")); s != "" {
		switch model.LoanStatus(s) {
		case model.LoanReturned:
			tx = tx.Where("library_loan_returned_at IS NOT NULL")
		case model.LoanOverdue:
			tx = tx.Where("library_loan_returned_at IS NULL AND library_loan_due_at < ?", today)
		case model.LoanIssued:
			tx = tx.Where("library_loan_returned_at IS NULL AND library_loan_due_at >= ?", today)
		default:
			return helper.JsonError(c, fiber.StatusBadRequest, "status must be one of issued, overdue, returned")
		}
	}
	if bt := strings.TrimSpace(c.Query("borrower_type")); bt != "" {
		if bt != string(model.BorrowerStudent) && bt != string(model.BorrowerStaff) {
			return helper.JsonError(c, fiber.StatusBadRequest, "borrower_type must be student or staff")
		}
		tx = tx.Where("library_loan_borrower_type = ?", bt)
	}
	for _, f := range []struct{ param, column string }{
		{"borrower_id", "library_loan_borrower_id"},
		{"book_id", "library_loan_book_id"},
	} {
		id, err := helper.QueryUUID(c, f.param)
		if err != nil {
			return helper.FromError(c, err)
		}
		if id != nil {
			tx = tx.Where(f.column+" = ?", *id)
		}
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count loans")
	}
	order := p.OrderExpr(map[string]string{
		"issued_at":   "library_loan_issued_at",
		"due_at":      "library_loan_due_at",
		"returned_at": "library_loan_returned_at",
	}, "issued_at")

	var rows []model.LibraryLoanModel
	if err := tx.Order(order).Order("library_loan_created_at DESC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch loans")
	}
	out, err := h.responses(c, rows, today)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch loan details")
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

// GET /library/loans/:id
func (h *LoanController) Get(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := h.responses(c, []model.LibraryLoanModel{*m}, dbtime.TodayInSchool(c))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch loan details")
	}
	return helper.JsonOK(c, "ok", out[0])
}

func (h *LoanController) load(c *fiber.Ctx) (*model.LibraryLoanModel, error) {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.LibraryLoanModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("library_loan_school_id = ? AND library_loan_id = ?", schoolID, id).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// responses batch-loads book titles and borrower names.
func (h *LoanController) responses(c *fiber.Ctx, rows []model.LibraryLoanModel, today time.Time) ([]dto.LoanResponse, error) {
	out := make([]dto.LoanResponse, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	db := h.DB.WithContext(c.UserContext()).Unscoped().Session(&gorm.Session{})

	var bookIDs, studentIDs, staffIDs []uuid.UUID
	for _, r := range rows {
		bookIDs = append(bookIDs, r.LibraryLoanBookID)
		if r.LibraryLoanBorrowerType == model.BorrowerStaff {
			staffIDs = append(staffIDs, r.LibraryLoanBorrowerID)
		} else {
			studentIDs = append(studentIDs, r.LibraryLoanBorrowerID)
		}
	}

	titles := map[uuid.UUID]string{}
	var books []bookModel.LibraryBookModel
	if err := db.Select("library_book_id", "library_book_title").
		Where("library_book_id IN ?", bookIDs).Find(&books).Error; err != nil {
		return nil, err
	}
	for _, b := range books {
		titles[b.LibraryBookID] = b.LibraryBookTitle
	}

	names := map[uuid.UUID]string{}
	if len(studentIDs) > 0 {
		var studs []studentModel.StudentModel
		if err := db.Select("student_id", "student_full_name").
			Where("student_id IN ?", studentIDs).Find(&studs).Error; err != nil {
			return nil, err
		}
		for _, s := range studs {
			names[s.StudentID] = s.StudentFullName
		}
	}
	if len(staffIDs) > 0 {
		var staff []staffModel.StaffModel
		if err := db.Select("staff_id", "staff_full_name").
			Where("staff_id IN ?", staffIDs).Find(&staff).Error; err != nil {
			return nil, err
		}
		for _, s := range staff {
			names[s.StaffID] = s.StaffFullName
		}
	}

	for i := range rows {
		r := dto.FromModel(&rows[i], today, h.Policy)
		r.LibraryLoanBookTitle = titles[rows[i].LibraryLoanBookID]
		r.LibraryLoanBorrowerName = names[rows[i].LibraryLoanBorrowerID]
		out = append(out, r)
	}
	return out, nil
}

// ensureBorrower checks the borrower is an active student or staff member of
// the school and locks that row, so issues for one borrower run one at a time
// and the open-loan count that follows stays accurate.
func ensureBorrower(tx *gorm.DB, schoolID uuid.UUID, kind model.BorrowerType, id uuid.UUID) error {
	locked := tx.Clauses(clause.Locking{Strength: "UPDATE"})
	var err error
	switch kind {
	case model.BorrowerStaff:
		var m staffModel.StaffModel
		err = locked.Select("staff_id").
			Where("staff_school_id = ? AND staff_id = ? AND staff_is_active = ?", schoolID, id, true).
			Take(&m).Error
	default:
		var m studentModel.StudentModel
		err = locked.Select("student_id").
			Where("student_school_id = ? AND student_id = ? AND student_is_active = ?", schoolID, id, true).
			Take(&m).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return service.ErrBorrowerNotFound
	}
	return err
}

func writeLoanError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrBorrowerNotFound), errors.Is(err, service.ErrBookNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNoCopies), errors.Is(err, service.ErrLoanLimit), errors.Is(err, service.ErrAlreadyReturned):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
	}
}
