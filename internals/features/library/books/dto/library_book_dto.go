package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/library/books/model"
	helper "schoolku_backend/internals/helpers"
)

type CreateBookRequest struct {
	Title           string  `json:"library_book_title" form:"library_book_title" validate:"required,min=1,max=200"`
	Author          string  `json:"library_book_author" form:"library_book_author" validate:"required,max=150"`
	ISBN            *string `json:"library_book_isbn" form:"library_book_isbn" validate:"omitempty,max=20"`
	Category        *string `json:"library_book_category" form:"library_book_category" validate:"omitempty,max=80"`
	Publisher       *string `json:"library_book_publisher" form:"library_book_publisher" validate:"omitempty,max=150"`
	TotalCopies     int     `json:"library_book_total_copies" form:"library_book_total_copies" validate:"required,min=1"`
	AvailableCopies *int    `json:"library_book_available_copies" form:"library_book_available_copies" validate:"omitempty,min=0,ltefield=TotalCopies"`
}

// ToModel: available defaults to total.
func (r CreateBookRequest) ToModel(schoolID uuid.UUID) *model.LibraryBookModel {
	m := &model.LibraryBookModel{
		LibraryBookSchoolID:        schoolID,
		LibraryBookTitle:           strings.TrimSpace(r.Title),
		LibraryBookAuthor:          strings.TrimSpace(r.Author),
		LibraryBookISBN:            NormalizeISBN(r.ISBN),
		LibraryBookCategory:        lowerPtr(r.Category),
		LibraryBookPublisher:       helper.TrimPtr(r.Publisher),
		LibraryBookTotalCopies:     r.TotalCopies,
		LibraryBookAvailableCopies: r.TotalCopies,
	}
	if r.AvailableCopies != nil {
		m.LibraryBookAvailableCopies = *r.AvailableCopies
	}
	return m
}

type UpdateBookRequest struct {
	Title       *string `json:"library_book_title" form:"library_book_title" validate:"omitempty,min=1,max=200"`
	Author      *string `json:"library_book_author" form:"library_book_author" validate:"omitempty,max=150"`
	ISBN        *string `json:"library_book_isbn" form:"library_book_isbn" validate:"omitempty,max=20"`
	Category    *string `json:"library_book_category" form:"library_book_category" validate:"omitempty,max=80"`
	Publisher   *string `json:"library_book_publisher" form:"library_book_publisher" validate:"omitempty,max=150"`
	TotalCopies *int    `json:"library_book_total_copies" form:"library_book_total_copies" validate:"omitempty,min=1"`
}

// ApplyToModel leaves the copy counts to the controller.
func (r UpdateBookRequest) ApplyToModel(m *model.LibraryBookModel) {
	if r.Title != nil {
		m.LibraryBookTitle = strings.TrimSpace(*r.Title)
	}
	if r.Author != nil {
		m.LibraryBookAuthor = strings.TrimSpace(*r.Author)
	}
	if r.ISBN != nil {
		m.LibraryBookISBN = NormalizeISBN(r.ISBN)
	}
	if r.Category != nil {
		m.LibraryBookCategory = lowerPtr(r.Category)
	}
	if r.Publisher != nil {
		m.LibraryBookPublisher = helper.TrimPtr(r.Publisher)
	}
}

type ListBookQuery struct {
	Q        string `query:"q"`
	Category string `query:"category"`
}

type BookResponse struct {
	LibraryBookID              uuid.UUID `json:"library_book_id"`
	LibraryBookTitle           string    `json:"library_book_title"`
	LibraryBookAuthor          string    `json:"library_book_author"`
	LibraryBookISBN            *string   `json:"library_book_isbn,omitempty"`
	LibraryBookCategory        *string   `json:"library_book_category,omitempty"`
	LibraryBookPublisher       *string   `json:"library_book_publisher,omitempty"`
	LibraryBookTotalCopies     int       `json:"library_book_total_copies"`
	LibraryBookAvailableCopies int       `json:"library_book_available_copies"`
	LibraryBookIssuedCopies    int       `json:"library_book_issued_copies"`
	LibraryBookCreatedAt       time.Time `json:"library_book_created_at"`
	LibraryBookUpdatedAt       time.Time `json:"library_book_updated_at"`
}

func FromModel(m *model.LibraryBookModel) BookResponse {
	return BookResponse{
		LibraryBookID:              m.LibraryBookID,
		LibraryBookTitle:           m.LibraryBookTitle,
		LibraryBookAuthor:          m.LibraryBookAuthor,
		LibraryBookISBN:            m.LibraryBookISBN,
		LibraryBookCategory:        m.LibraryBookCategory,
		LibraryBookPublisher:       m.LibraryBookPublisher,
		LibraryBookTotalCopies:     m.LibraryBookTotalCopies,
		LibraryBookAvailableCopies: m.LibraryBookAvailableCopies,
		LibraryBookIssuedCopies:    m.Issued(),
		LibraryBookCreatedAt:       m.LibraryBookCreatedAt,
		LibraryBookUpdatedAt:       m.LibraryBookUpdatedAt,
	}
}

// NormalizeISBN drops spaces and hyphens; blank becomes nil.
func NormalizeISBN(s *string) *string {
	v := helper.TrimPtr(s)
	if v == nil {
		return nil
	}
	out := strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(*v))
	if out == "" {
		return nil
	}
	return &out
}

func lowerPtr(s *string) *string {
	v := helper.TrimPtr(s)
	if v == nil {
		return nil
	}
	l := strings.ToLower(*v)
	return &l
}
