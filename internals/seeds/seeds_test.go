package seeds_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	database "schoolku_backend/internals/databases"
	"schoolku_backend/internals/databases/dbtest"
	studentModel "schoolku_backend/internals/features/academics/students/model"
	feeModel "schoolku_backend/internals/features/finance/fees/model"
	bookModel "schoolku_backend/internals/features/library/books/model"
	"schoolku_backend/internals/seeds"
)

func TestRunAllSeeds_Idempotent(t *testing.T) {
	db := dbtest.Open(t, database.Models()...)
	ctx := context.Background()

	require.NoError(t, seeds.RunAllSeeds(ctx, db, "data"))

	var students, books, dues int64
	require.NoError(t, db.Model(&studentModel.StudentModel{}).Count(&students).Error)
	require.NoError(t, db.Model(&bookModel.LibraryBookModel{}).Count(&books).Error)
	require.NoError(t, db.Model(&feeModel.StudentFeeModel{}).Count(&dues).Error)
	assert.EqualValues(t, 5, students)
	assert.EqualValues(t, 3, books)
	// 12 monthly + 3 termly dues per student
	assert.EqualValues(t, 5*15, dues)

	require.NoError(t, seeds.RunAllSeeds(ctx, db, "data"))
	var again int64
	require.NoError(t, db.Model(&feeModel.StudentFeeModel{}).Count(&again).Error)
	assert.Equal(t, dues, again)
}
