package services

import (
	"context"
	"strconv"
	"strings"

	"sundial/internal/config"
	"sundial/internal/domain"
	"sundial/internal/errors"
	"sundial/internal/logging"
	"sundial/internal/repository/sqlite"
	"sundial/internal/validation"
)

// entryServiceImpl implements the EntryService interface
type entryServiceImpl struct {
	repo       sqlite.Repository
	categories *categoryServiceImpl
	mapper     *domain.Mapper
	validator  *validation.EntryValidator
}

// NewEntryService creates a new EntryService instance
func NewEntryService(repo sqlite.Repository, cfg *config.Config) EntryService {
	return newEntryService(repo, cfg, newCategoryService(repo, cfg))
}

func newEntryService(repo sqlite.Repository, cfg *config.Config, categories *categoryServiceImpl) *entryServiceImpl {
	return &entryServiceImpl{
		repo:       repo,
		categories: categories,
		mapper:     domain.NewMapper(),
		validator:  validation.NewEntryValidatorWithConfig(cfg, repo),
	}
}

// SaveEntry creates a log entry when entryID is 0 and updates the owner's
// entry entryID otherwise. The returned entry carries its category's name and color.
func (s *entryServiceImpl) SaveEntry(ctx context.Context, ownerID, entryID int64, form validation.EntryForm) (*domain.LogEntry, error) {
	if err := requireOwner(ownerID, "save log entry"); err != nil {
		return nil, err
	}
	if entryID < 0 {
		return nil, errors.NewNotFoundError("log entry", strconv.FormatInt(entryID, 10))
	}

	if err := s.validator.ValidateEntryForm(ctx, ownerID, form); err != nil {
		if validation.IsValidationError(err) {
			return nil, errors.NewValidationError("invalid log entry", err)
		}
		return nil, err
	}

	interval, err := intervalFromForm(form)
	if err != nil {
		return nil, err
	}

	var saved *domain.LogEntry
	err = s.repo.WithTx(ctx, func(repo sqlite.Repository) error {
		var existing *domain.LogEntry
		if entryID > 0 {
			row, err := repo.FindEntry(ctx, ownerID, entryID)
			if err != nil {
				return err
			}
			found := s.mapper.LogEntry.FromDatabase(*row)
			existing = &found
		}

		category, err := s.resolveCategory(ctx, s.categories.bind(repo), ownerID, form)
		if err != nil {
			return err
		}

		var entry domain.LogEntry
		if existing == nil {
			entry = domain.NewLogEntry(ownerID, category.ID, interval, form.Notes)
		} else {
			entry = existing.Reschedule(interval)
			entry.CategoryID = category.ID
			entry.Notes = form.Notes
		}
		row := s.mapper.LogEntry.ToDatabase(entry)
		if entryID == 0 {
			err = repo.CreateEntry(ctx, &row)
		} else {
			err = repo.UpdateEntry(ctx, &row)
		}
		if err != nil {
			return err
		}

		result := s.mapper.LogEntry.FromDatabase(row).WithCategory(*category)
		saved = &result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// resolveCategory picks the entry's category: a new or reused child named
// NewCategoryName, else CategoryRef, else the owner's Uncategorized root.
func (s *entryServiceImpl) resolveCategory(ctx context.Context, categories *categoryServiceImpl, ownerID int64, form validation.EntryForm) (*domain.Category, error) {
	if name := strings.TrimSpace(form.NewCategoryName); name != "" {
		var parentID *int64
		if form.CategoryRef != 0 {
			parentID = &form.CategoryRef
		}
		category, created, err := categories.findOrCreate(ctx, ownerID, parentID, name, form.Color)
		if err != nil {
			return nil, err
		}
		logging.Debugf("entry category %q resolved to %d (created=%t)\n", name, category.ID, created)
		return category, nil
	}

	if form.CategoryRef != 0 {
		return categories.getCategory(ctx, ownerID, form.CategoryRef)
	}

	return categories.ensureRoot(ctx, ownerID)
}

// GetEntry retrieves one of the owner's log entries with its category details
func (s *entryServiceImpl) GetEntry(ctx context.Context, ownerID, id int64) (*domain.LogEntry, error) {
	if err := requireOwner(ownerID, "view log entry"); err != nil {
		return nil, err
	}

	row, err := s.repo.FindEntry(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	entry := s.mapper.LogEntry.FromDatabase(*row)

	category, err := s.categories.getCategory(ctx, ownerID, entry.CategoryID)
	if err != nil {
		return nil, err
	}
	entry = entry.WithCategory(*category)
	return &entry, nil
}

// ListEntries returns the owner's entries matching opts, oldest first
func (s *entryServiceImpl) ListEntries(ctx context.Context, ownerID int64, opts domain.SearchOptions) ([]*domain.LogEntry, error) {
	if err := requireOwner(ownerID, "list log entries"); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListEntries(ctx, ownerID, s.mapper.SearchOptions.ToDatabase(opts))
	if err != nil {
		return nil, err
	}

	categoryRows, err := s.repo.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Category, len(categoryRows))
	for _, c := range s.mapper.Category.FromDatabaseSlice(categoryRows) {
		byID[c.ID] = c
	}

	entries := make([]*domain.LogEntry, 0, len(rows))
	for _, row := range rows {
		entry := s.mapper.LogEntry.FromDatabase(*row)
		if category, ok := byID[entry.CategoryID]; ok {
			entry = entry.WithCategory(category)
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}

// intervalFromForm parses the already validated timestamps of form
func intervalFromForm(form validation.EntryForm) (domain.Interval, error) {
	start, err := validation.ParseDateTime(form.StartDateTime)
	if err != nil {
		return domain.Interval{}, errors.NewValidationError("invalid start date-time", err)
	}
	end, err := validation.ParseDateTime(form.EndDateTime)
	if err != nil {
		return domain.Interval{}, errors.NewValidationError("invalid end date-time", err)
	}
	interval, err := domain.NewInterval(start, end)
	if err != nil {
		return domain.Interval{}, errors.NewValidationError("invalid entry interval", err)
	}
	return interval, nil
}
