package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LibraryBookModel keeps 0 <= available <= total; total - available copies are out on loan.
type LibraryBookModel struct {
	LibraryBookID       uuid.UUID `gorm:"column:library_book_id;type:uuid;primaryKey" json:"library_book_id"`
	LibraryBookSchoolID uuid.UUID `gorm:"column:library_book_school_id;type:uuid;not null;index:idx_library_books_school;uniqueIndex:uq_library_books_isbn_live,where:library_book_deleted_at IS NULL AND library_book_isbn IS NOT NULL" json:"library_book_school_id"`

	LibraryBookTitle     string  `gorm:"column:library_book_title;type:varchar(200);not null" json:"library_book_title"`
	LibraryBookAuthor    string  `gorm:"column:library_book_author;type:varchar(150);not null" json:"library_book_author"`
	LibraryBookISBN      *string `gorm:"column:library_book_isbn;type:varchar(20);uniqueIndex:uq_library_books_isbn_live,where:library_book_deleted_at IS NULL AND library_book_isbn IS NOT NULL" json:"library_book_isbn,omitempty"`
	LibraryBookCategory  *string `gorm:"column:library_book_category;type:varchar(80);index" json:"library_book_category,omitempty"`
	LibraryBookPublisher *string `gorm:"column:library_book_publisher;type:varchar(150)" json:"library_book_publisher,omitempty"`

	LibraryBookTotalCopies     int `gorm:"column:library_book_total_copies;not null" json:"library_book_total_copies"`
	LibraryBookAvailableCopies int `gorm:"column:library_book_available_copies;not null" json:"library_book_available_copies"`

	LibraryBookCreatedAt time.Time      `gorm:"column:library_book_created_at;not null;autoCreateTime" json:"library_book_created_at"`
	LibraryBookUpdatedAt time.Time      `gorm:"column:library_book_updated_at;not null;autoUpdateTime" json:"library_book_updated_at"`
	LibraryBookDeletedAt gorm.DeletedAt `gorm:"column:library_book_deleted_at;index" json:"-"`
}

func (LibraryBookModel) TableName() string { return "library_books" }

func (m *LibraryBookModel) BeforeCreate(tx *gorm.DB) error {
	if m.LibraryBookID == uuid.Nil {
		m.LibraryBookID = uuid.New()
	}
	return nil
}

// Issued is the number of copies currently on loan.
func (m *LibraryBookModel) Issued() int {
	return m.LibraryBookTotalCopies - m.LibraryBookAvailableCopies
}
