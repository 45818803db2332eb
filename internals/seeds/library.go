package seeds

import (
	"context"

	"gorm.io/gorm"

	bookDTO "schoolku_backend/internals/features/library/books/dto"
	bookModel "schoolku_backend/internals/features/library/books/model"
)

type bookSeed struct {
	School      string  `json:"school"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	ISBN        *string `json:"isbn"`
	Category    *string `json:"category"`
	Publisher   *string `json:"publisher"`
	TotalCopies int     `json:"total_copies"`
}

func SeedBooksFromJSON(ctx context.Context, db *gorm.DB, path string) (int, error) {
	rows, err := readJSON[bookSeed](path)
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
		isbn := bookDTO.NormalizeISBN(s.ISBN)
		q := db.WithContext(ctx).Model(&bookModel.LibraryBookModel{}).Where("library_book_school_id = ?", schoolID)
		if isbn != nil {
			q = q.Where("library_book_isbn = ?", *isbn)
		} else {
			q = q.Where("library_book_title = ? AND library_book_author = ?", s.Title, s.Author)
		}
		var exists int64
		if err := q.Count(&exists).Error; err != nil {
			return n, err
		}
		if exists > 0 {
			continue
		}
		m := bookModel.LibraryBookModel{
			LibraryBookSchoolID:        schoolID,
			LibraryBookTitle:           s.Title,
			LibraryBookAuthor:          s.Author,
			LibraryBookISBN:            isbn,
			LibraryBookCategory:        s.Category,
			LibraryBookPublisher:       s.Publisher,
			LibraryBookTotalCopies:     s.TotalCopies,
			LibraryBookAvailableCopies: s.TotalCopies,
		}
		if err := db.WithContext(ctx).Create(&m).Error; err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
