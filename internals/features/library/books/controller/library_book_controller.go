package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolku_backend/internals/features/library/books/dto"
	"schoolku_backend/internals/features/library/books/model"
	helper "schoolku_backend/internals/helpers"
	scope "schoolku_backend/internals/middlewares/features"
)

var (
	ErrISBNTaken    = errors.New("isbn already registered")
	ErrBelowIssued  = errors.New("total copies cannot be lower than the copies on loan")
	ErrBookHasLoans = errors.New("book still has copies on loan")
)

type BookController struct{ DB *gorm.DB }

func NewBookController(db *gorm.DB) *BookController { return &BookController{DB: db} }

// POST /library/books
func (h *BookController) Create(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.CreateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}

	m := req.ToModel(schoolID)
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := ensureISBNFree(tx, m, nil); err != nil {
			return err
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return writeBookError(c, err, "failed to create book")
	}
	return helper.JsonCreated(c, "book created", dto.FromModel(m))
}

// GET /library/books
func (h *BookController) List(c *fiber.Ctx) error {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "title", "asc", helper.AdminOpts)

	var q dto.ListBookQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}

	tx := h.DB.WithContext(c.UserContext()).
		Model(&model.LibraryBookModel{}).
		Where("library_book_school_id = ?", schoolID)

	if s := strings.TrimSpace(q.Q); s != "" {
		like := helper.LikePattern(s)
		tx = tx.Where("(LOWER(library_book_title) LIKE ? OR LOWER(library_book_author) LIKE ? OR LOWER(library_book_isbn) LIKE ?)", like, like, like)
	}
	if cat := strings.TrimSpace(q.Category); cat != "" {
		tx = tx.Where("library_book_category = ?", strings.ToLower(cat))
	}
	availableOnly, err := helper.QueryBool(c, "available_only")
	if err != nil {
		return helper.FromError(c, err)
	}
	if availableOnly != nil && *availableOnly {
		tx = tx.Where("library_book_available_copies > 0")
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count books")
	}
	order := p.OrderExpr(map[string]string{
		"title":      "library_book_title",
		"author":     "library_book_author",
		"available":  "library_book_available_copies",
		"created_at": "library_book_created_at",
	}, "title")

	var rows []model.LibraryBookModel
	if err := tx.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch books")
	}
	out := make([]dto.BookResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

// GET /library/books/:id
func (h *BookController) Get(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m))
}

// PATCH /library/books/:id
//
// A new total keeps the copies on loan and moves available by the difference.
func (h *BookController) Update(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.UpdateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if handled, err := helper.ValidateStruct(c, req); handled {
		return err
	}

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		// re-read the counts under lock; circulation moves them concurrently
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(m, "library_book_id = ?", m.LibraryBookID).Error; err != nil {
			return err
		}
		req.ApplyToModel(m)
		if req.TotalCopies != nil {
			issued := m.Issued()
			if *req.TotalCopies < issued {
				return ErrBelowIssued
			}
			m.LibraryBookTotalCopies = *req.TotalCopies
			m.LibraryBookAvailableCopies = *req.TotalCopies - issued
		}
		if err := ensureISBNFree(tx, m, &m.LibraryBookID); err != nil {
			return err
		}
		return tx.Save(m).Error
	})
	if err != nil {
		return writeBookError(c, err, "failed to update book")
	}
	return helper.JsonUpdated(c, "book updated", dto.FromModel(m))
}

// DELETE /library/books/:id
func (h *BookController) Delete(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if m.Issued() > 0 {
		return helper.JsonError(c, fiber.StatusConflict, ErrBookHasLoans.Error())
	}
	if err := h.DB.WithContext(c.UserContext()).Delete(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete book")
	}
	return helper.JsonDeleted(c, "book deleted", fiber.Map{"library_book_id": m.LibraryBookID})
}

func (h *BookController) load(c *fiber.Ctx) (*model.LibraryBookModel, error) {
	schoolID, err := scope.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.LibraryBookModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("library_book_school_id = ? AND library_book_id = ?", schoolID, id).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func ensureISBNFree(tx *gorm.DB, m *model.LibraryBookModel, except *uuid.UUID) error {
	if m.LibraryBookISBN == nil {
		return nil
	}
	var n int64
	q := tx.Model(&model.LibraryBookModel{}).
		Where("library_book_school_id = ? AND library_book_isbn = ?", m.LibraryBookSchoolID, *m.LibraryBookISBN)
	if except != nil {
		q = q.Where("library_book_id <> ?", *except)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrISBNTaken
	}
	return nil
}

func writeBookError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, ErrISBNTaken), errors.Is(err, ErrBelowIssued):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "book not found")
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
	}
}
