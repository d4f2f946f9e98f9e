package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sundial/internal/domain"
	"sundial/internal/errors"
	"sundial/internal/validation"
)

func entryForm(start, end string) validation.EntryForm {
	return validation.EntryForm{StartDateTime: start, EndDateTime: end}
}

func TestEntryService_SaveEntry_ComputesDuration(t *testing.T) {
	services, _ := setupServices(t)
	ctx := context.Background()

	form := entryForm("2024-01-01T10:00:00", "2024-01-02T13:45:30")
	form.Notes = "long haul"

	entry, err := services.EntryService.SaveEntry(ctx, 1, 0, form)
	require.NoError(t, err)

	assert.Greater(t, entry.ID, int64(0))
	assert.Equal(t, int64(1665), entry.DurationMinutes)
	assert.Equal(t, "long haul", entry.Notes)
	assert.True(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC).Equal(entry.StartDateTime))
}

func TestEntryService_SaveEntry_DefaultsToUncategorized(t *testing.T) {
	services, _ := setupServices(t)
	ctx := context.Background()

	root, err := services.CategoryService.EnsureRootCategory(ctx, 1)
	require.NoError(t, err)

	entry, err := services.EntryService.SaveEntry(ctx, 1, 0, entryForm("2024-01-01T10:00:00", "2024-01-01T11:00:00"))
	require.NoError(t, err)

	assert.Equal(t, root.ID, entry.CategoryID)
	assert.Equal(t, domain.RootCategoryName, entry.CategoryName)
	assert.Equal(t, domain.DefaultColor, entry.CategoryColor)
}

func TestEntryService_SaveEntry_CreatesRootLazily(t *testing.T) {
	services, repo := setupServices(t)
	ctx := context.Background()

	first, err := services.EntryService.SaveEntry(ctx, 3, 0, entryForm("2024-01-01T10:00:00", "2024-01-01T11:00:00"))
	require.NoError(t, err)
	second, err := services.EntryService.SaveEntry(ctx, 3, 0, entryForm("2024-01-01T12:00:00", "2024-01-01T13:00:00"))
	require.NoError(t, err)

	assert.Equal(t, first.CategoryID, second.CategoryID)
	assert.Equal(t, domain.RootCategoryName, first.CategoryName)

	count, err := repo.CountCategories(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEntryService_SaveEntry_NewCategoryShorthand(t *testing.T) {
	services, repo := setupServices(t)
	ctx := context.Background()

	work := mustCreateCategory(t, services.CategoryService, 1, validation.CategoryForm{Name: "Work"})
	before, err := repo.CountCategories(ctx, 1)
	require.NoError(t, err)

	form := entryForm("2024-01-01T10:00:00", "2024-01-01T10:30:00")
	form.CategoryRef = work.ID
	form.NewCategoryName = "Code review"
	form.Color = "112233"

	first, err := services.EntryService.SaveEntry(ctx, 1, 0, form)
	require.NoError(t, err)
	assert.Equal(t, "Code review", first.CategoryName)
	assert.Equal(t, "112233", first.CategoryColor)

	created, err := services.CategoryService.GetCategory(ctx, 1, first.CategoryID)
	require.NoError(t, err)
	require.NotNil(t, created.ParentID)
	assert.Equal(t, work.ID, *created.ParentID)
	assert.False(t, created.IsTask)

	second, err := services.EntryService.SaveEntry(ctx, 1, 0, form)
	require.NoError(t, err)
	assert.Equal(t, first.CategoryID, second.CategoryID)

	after, err := repo.CountCategories(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, before+1, after, "exactly one category is created")
}

func TestEntryService_SaveEntry_NewRootCategory(t *testing.T) {
	services, _ := setupServices(t)
	ctx := context.Background()

	form := entryForm("2024-01-01T10:00:00", "2024-01-01T10:30:00")
	form.NewCategoryName = "Gardening"

	entry, err := services.EntryService.SaveEntry(ctx, 1, 0, form)
	require.NoError(t, err)

	category, err := services.CategoryService.GetCategory(ctx, 1, entry.CategoryID)
	require.NoError(t, err)
	assert.Nil(t, category.ParentID)
	assert.Equal(t, domain.DefaultColor, category.Color)
}

func TestEntryService_SaveEntry_ExistingCategory(t *testing.T) {
	services, _ := setupServices(t)
	ctx := context.Background()

	work := mustCreateCategory(t, services.CategoryService, 1, validation.CategoryForm{Name: "Work", Color: "abcdef"})

	form := entryForm("2024-01-01 09:00", "2024-01-01 17:00")
	form.CategoryRef = work.ID

	entry, err := services.EntryService.SaveEntry(ctx, 1, 0, form)
	require.NoError(t, err)
	assert.Equal(t, work.ID, entry.CategoryID)
	assert.Equal(t, "abcdef", entry.CategoryColor)
	assert.Equal(t, int64(480), entry.DurationMinutes)
}

func TestEntryService_SaveEntry_Update(t *testing.T) {
	services, _ := setupServices(t)
	ctx := context.Background()

	created, err := services.EntryService.SaveEntry(ctx, 1, 0, entryForm("2024-01-01T10:00:00", "2024-01-01T11:00:00"))
	require.NoError(t, err)

	form := entryForm("2024-01-01T10:00:00", "2024-01-01T10:20:59")
	form.Notes = "shorter"
	updated, err := services.EntryService.SaveEntry(ctx, 1, created.ID, form)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, int64(20), updated.DurationMinutes)

	stored, err := services.EntryService.GetEntry(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "shorter", stored.Notes)
	assert.Equal(t, int64(20), stored.DurationMinutes)
	assert.Equal(t, domain.RootCategoryName, stored.CategoryName)
}

func TestEntryService_SaveEntry_Concurrent(t *testing.T) {
	services, repo := setupServices(t)
	ctx := context.Background()

	const writers = 20
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			form := entryForm(
				fmt.Sprintf("2024-01-01T10:%02d:00", i),
				fmt.Sprintf("2024-01-01T11:%02d:00", i),
			)
			form.NewCategoryName = "Work"
			_, errs[i] = services.EntryService.SaveEntry(ctx, 1, 0, form)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "writer %d", i)
	}

	work, err := repo.FindCategoriesNamed(ctx, 1, "Work")
	require.NoError(t, err)
	assert.Len(t, work, 1)

	entries, err := services.EntryService.ListEntries(ctx, 1, domain.SearchOptions{})
	require.NoError(t, err)
	assert.Len(t, entries, writers)
}

func TestEntryService_SaveEntry_Errors(t *testing.T) {
	services, _ := setupServices(t)
	ctx := context.Background()

	theirs := mustCreateCategory(t, services.CategoryService, 2, validation.CategoryForm{Name: "Theirs"})
	theirEntry, err := services.EntryService.SaveEntry(ctx, 2, 0, entryForm("2024-01-01T10:00:00", "2024-01-01T11:00:00"))
	require.NoError(t, err)

	valid := entryForm("2024-01-01T10:00:00", "2024-01-01T11:00:00")

	tests := []struct {
		name      string
		ownerID   int64
		entryID   int64
		form      validation.EntryForm
		errorType errors.ErrorType
		field     string
	}{
		{"no identity", 0, 0, valid, errors.ErrorTypeAuthentication, ""},
		{"end before start", 1, 0, entryForm("2024-01-01T11:00:00", "2024-01-01T10:00:00"), errors.ErrorTypeValidation, "endDateTime"},
		{"end equals start", 1, 0, entryForm("2024-01-01T11:00:00", "2024-01-01T11:00:00"), errors.ErrorTypeValidation, "endDateTime"},
		{"unparseable start", 1, 0, entryForm("tomorrow", "2024-01-01T11:00:00"), errors.ErrorTypeValidation, "startDateTime"},
		{"other user's category", 1, 0, validation.EntryForm{CategoryRef: theirs.ID, StartDateTime: valid.StartDateTime, EndDateTime: valid.EndDateTime}, errors.ErrorTypeValidation, "categoryRef"},
		{"bad new category name", 1, 0, validation.EntryForm{NewCategoryName: "a/b", StartDateTime: valid.StartDateTime, EndDateTime: valid.EndDateTime}, errors.ErrorTypeValidation, "newCategoryName"},
		{"other user's entry", 1, theirEntry.ID, valid, errors.ErrorTypeNotFound, ""},
		{"missing entry", 1, 999, valid, errors.ErrorTypeNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.EntryService.SaveEntry(ctx, tt.ownerID, tt.entryID, tt.form)
			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, tt.errorType), "got %v", err)

			if tt.field != "" {
				appErr, _ := errors.AsAppError(err)
				ve, ok := appErr.Cause.(*validation.ValidationError)
				require.True(t, ok)
				assert.Contains(t, ve.Messages(), tt.field)
			}
		})
	}
}

func TestEntryService_FailedSaveLeavesNoCategory(t *testing.T) {
	services, repo := setupServices(t)
	ctx := context.Background()

	form := entryForm("2024-01-01T10:00:00", "2024-01-01T11:00:00")
	form.NewCategoryName = "Orphan"

	_, err := services.EntryService.SaveEntry(ctx, 1, 42, form)
	require.Error(t, err)

	count, err := repo.CountCategories(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestEntryService_ListEntries(t *testing.T) {
	services, _ := setupServices(t)
	ctx := context.Background()

	work := mustCreateCategory(t, services.CategoryService, 1, validation.CategoryForm{Name: "Work"})

	withWork := func(start, end string) validation.EntryForm {
		f := entryForm(start, end)
		f.CategoryRef = work.ID
		return f
	}

	for _, form := range []validation.EntryForm{
		withWork("2024-01-03T09:00:00", "2024-01-03T10:00:00"),
		entryForm("2024-01-01T09:00:00", "2024-01-01T10:00:00"),
		withWork("2024-01-02T09:00:00", "2024-01-02T09:45:00"),
	} {
		_, err := services.EntryService.SaveEntry(ctx, 1, 0, form)
		require.NoError(t, err)
	}
	_, err := services.EntryService.SaveEntry(ctx, 2, 0, entryForm("2024-01-02T09:00:00", "2024-01-02T10:00:00"))
	require.NoError(t, err)

	all, err := services.EntryService.ListEntries(ctx, 1, domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domain.RootCategoryName, all[0].CategoryName)
	assert.Equal(t, "Work", all[1].CategoryName)
	assert.Equal(t, int64(45), all[1].DurationMinutes)

	from := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	filtered, err := services.EntryService.ListEntries(ctx, 1, domain.SearchOptions{StartTime: &from, CategoryID: &work.ID})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	limited, err := services.EntryService.ListEntries(ctx, 1, domain.SearchOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = services.EntryService.ListEntries(ctx, 0, domain.SearchOptions{})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeAuthentication))
}

func TestEntryService_GetEntry(t *testing.T) {
	services, _ := setupServices(t)
	ctx := context.Background()

	saved, err := services.EntryService.SaveEntry(ctx, 1, 0, entryForm("2024-01-01T10:00:00", "2024-01-01T11:00:00"))
	require.NoError(t, err)

	found, err := services.EntryService.GetEntry(ctx, 1, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.CategoryName, found.CategoryName)

	_, err = services.EntryService.GetEntry(ctx, 2, saved.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	_, err = services.EntryService.GetEntry(ctx, 0, saved.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeAuthentication))
}
