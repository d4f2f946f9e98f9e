package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sundial/internal/config"
	"sundial/internal/domain"
	"sundial/internal/errors"
	"sundial/internal/logging"
	"sundial/internal/repository/sqlite"
	"sundial/internal/validation"
)

// categoryServiceImpl implements the CategoryService interface
type categoryServiceImpl struct {
	repo      sqlite.Repository
	cfg       *config.Config
	mapper    *domain.Mapper
	validator *validation.CategoryValidator
}

// NewCategoryService creates a new CategoryService instance
func NewCategoryService(repo sqlite.Repository, cfg *config.Config) CategoryService {
	return newCategoryService(repo, cfg)
}

func newCategoryService(repo sqlite.Repository, cfg *config.Config) *categoryServiceImpl {
	return &categoryServiceImpl{
		repo:      repo,
		cfg:       cfg,
		mapper:    domain.NewMapper(),
		validator: validation.NewCategoryValidatorWithConfig(cfg),
	}
}

// bind returns a copy of the service working against repo, usually a transaction
func (s *categoryServiceImpl) bind(repo sqlite.Repository) *categoryServiceImpl {
	bound := *s
	bound.repo = repo
	return &bound
}

// CreateOrUpdateCategory creates a category when categoryID is 0 and updates
// the owner's category categoryID otherwise.
func (s *categoryServiceImpl) CreateOrUpdateCategory(ctx context.Context, ownerID, categoryID int64, form validation.CategoryForm) (*domain.Category, error) {
	if err := requireOwner(ownerID, "save category"); err != nil {
		return nil, err
	}
	if categoryID < 0 {
		return nil, errors.NewNotFoundError("category", strconv.FormatInt(categoryID, 10))
	}
	if err := s.validator.ValidateCategoryForm(form); err != nil {
		return nil, errors.NewValidationError("invalid category", err)
	}

	var saved *domain.Category
	err := s.repo.WithTx(ctx, func(repo sqlite.Repository) error {
		tx := s.bind(repo)
		var err error
		if categoryID == 0 {
			saved, err = tx.createCategory(ctx, ownerID, form)
		} else {
			saved, err = tx.updateCategory(ctx, ownerID, categoryID, form)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *categoryServiceImpl) createCategory(ctx context.Context, ownerID int64, form validation.CategoryForm) (*domain.Category, error) {
	name := strings.TrimSpace(form.Name)

	parentID, err := s.resolveParent(ctx, ownerID, form.ParentRef)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, ownerID, parentID, name, 0); err != nil {
		return nil, err
	}

	category := domain.Category{
		OwnerID:     ownerID,
		ParentID:    parentID,
		Name:        name,
		Color:       colorOrDefault(form.Color, domain.DefaultColor),
		IsTask:      form.IsTask,
		IsCompleted: form.IsCompleted,
		Rating:      form.StarRating,
		Deadline:    deadlineFromForm(form),
	}.Normalize()
	if err := guardDefaultRoot(nil, category); err != nil {
		return nil, err
	}

	row := s.mapper.Category.ToDatabase(category)
	if err := s.repo.CreateCategory(ctx, &row); err != nil {
		return nil, err
	}

	created := s.mapper.Category.FromDatabase(row)
	return &created, nil
}

func (s *categoryServiceImpl) updateCategory(ctx context.Context, ownerID, categoryID int64, form validation.CategoryForm) (*domain.Category, error) {
	row, err := s.repo.FindCategory(ctx, ownerID, categoryID)
	if err != nil {
		return nil, err
	}
	current := s.mapper.Category.FromDatabase(*row)
	name := strings.TrimSpace(form.Name)

	parentID, err := s.resolveParent(ctx, ownerID, form.ParentRef)
	if err != nil {
		return nil, err
	}

	updated := current
	updated.ParentID = parentID
	updated.Name = name
	updated.Color = colorOrDefault(form.Color, current.Color)
	updated.IsTask = form.IsTask
	updated.IsCompleted = form.IsCompleted
	updated.Rating = form.StarRating
	updated.Deadline = deadlineFromForm(form)
	updated = updated.Normalize()
	if err := guardDefaultRoot(&current, updated); err != nil {
		return nil, err
	}

	parentChanged := !current.SameParent(parentID)
	if parentChanged && parentID != nil {
		cycle, err := s.checkForCycle(ctx, ownerID, categoryID, *parentID)
		if err != nil {
			return nil, err
		}
		if cycle {
			return nil, errors.NewCycleError(categoryID, *parentID)
		}
	}

	if parentChanged || name != current.Name {
		if err := s.ensureUniqueName(ctx, ownerID, parentID, name, categoryID); err != nil {
			return nil, err
		}
	}

	dbCategory := s.mapper.Category.ToDatabase(updated)
	dbCategory.CreatedAt = row.CreatedAt
	if err := s.repo.UpdateCategory(ctx, &dbCategory); err != nil {
		return nil, err
	}
	return &updated, nil
}

// guardDefaultRoot keeps the Uncategorized root a plain root category.
// current is nil when next is being created.
func guardDefaultRoot(current *domain.Category, next domain.Category) error {
	ve := validation.NewValidationError()
	if current != nil && current.IsDefaultRoot() {
		if next.ParentID != nil {
			ve.AddError("parentRef", validation.ErrorTypeInvalidValue,
				domain.RootCategoryName+" must stay a root category", *next.ParentID)
		}
		if next.Name != domain.RootCategoryName {
			ve.AddError("name", validation.ErrorTypeInvalidValue,
				domain.RootCategoryName+" cannot be renamed", next.Name)
		}
	}
	if next.IsDefaultRoot() && next.IsTask {
		ve.AddError("isTask", validation.ErrorTypeInvalidValue,
			domain.RootCategoryName+" cannot be a task", next.IsTask)
	}
	if ve.HasErrors() {
		return errors.NewValidationError("invalid category", ve)
	}
	return nil
}

// CheckForCycle reports whether making candidateParentID the parent of
// categoryID would make categoryID its own ancestor.
func (s *categoryServiceImpl) CheckForCycle(ctx context.Context, ownerID, categoryID, candidateParentID int64) (bool, error) {
	if err := requireOwner(ownerID, "check category cycle"); err != nil {
		return false, err
	}
	return s.checkForCycle(ctx, ownerID, categoryID, candidateParentID)
}

// checkForCycle walks up from the candidate parent. The walk visits at most
// as many categories as the owner has; going further means the stored tree
// already contains a loop.
func (s *categoryServiceImpl) checkForCycle(ctx context.Context, ownerID, categoryID, candidateParentID int64) (bool, error) {
	bound, err := s.repo.CountCategories(ctx, ownerID)
	if err != nil {
		return false, err
	}

	current := candidateParentID
	for steps := int64(0); steps <= bound; steps++ {
		if current == categoryID {
			return true, nil
		}
		parent, err := s.repo.FindCategoryParent(ctx, ownerID, current)
		if err != nil {
			return false, err
		}
		if parent == nil {
			return false, nil
		}
		current = *parent
	}

	return false, errors.NewIntegrityError(
		fmt.Sprintf("ancestor walk from category %d exceeded %d steps", candidateParentID, bound),
		ownerID,
	).WithContext("category_id", categoryID)
}

// EnsureRootCategory returns the owner's Uncategorized root, creating it on first use.
func (s *categoryServiceImpl) EnsureRootCategory(ctx context.Context, ownerID int64) (*domain.Category, error) {
	if err := requireOwner(ownerID, "set up categories"); err != nil {
		return nil, err
	}

	var root *domain.Category
	err := s.repo.WithTx(ctx, func(repo sqlite.Repository) error {
		var err error
		root, err = s.bind(repo).ensureRoot(ctx, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (s *categoryServiceImpl) ensureRoot(ctx context.Context, ownerID int64) (*domain.Category, error) {
	root, created, err := s.findOrCreate(ctx, ownerID, nil, domain.RootCategoryName, domain.DefaultColor)
	if err != nil {
		return nil, err
	}
	if created {
		logging.Debugf("created %s root %d for owner %d\n", domain.RootCategoryName, root.ID, ownerID)
	}
	return root, nil
}

// FindOrCreateCategory returns the owner's category called name under parentID,
// creating it as a plain category when absent. The bool reports creation.
func (s *categoryServiceImpl) FindOrCreateCategory(ctx context.Context, ownerID int64, parentID *int64, name, color string) (*domain.Category, bool, error) {
	if err := requireOwner(ownerID, "save category"); err != nil {
		return nil, false, err
	}
	validationError := s.validator.ValidateName("name", name)
	validationError.Merge(s.validator.ValidateColor(color))
	if err := validationError.ErrOrNil(); err != nil {
		return nil, false, errors.NewValidationError("invalid category", err)
	}

	var (
		category *domain.Category
		created  bool
	)
	err := s.repo.WithTx(ctx, func(repo sqlite.Repository) error {
		var err error
		category, created, err = s.bind(repo).findOrCreate(ctx, ownerID, parentID, strings.TrimSpace(name), color)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return category, created, nil
}

func (s *categoryServiceImpl) findOrCreate(ctx context.Context, ownerID int64, parentID *int64, name, color string) (*domain.Category, bool, error) {
	if parentID != nil {
		exists, err := s.repo.CategoryExists(ctx, ownerID, *parentID)
		if err != nil {
			return nil, false, err
		}
		if !exists {
			return nil, false, errors.NewNotFoundError("category", strconv.FormatInt(*parentID, 10))
		}
	}

	existing, err := s.repo.FindCategoryByName(ctx, ownerID, parentID, name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		category := s.mapper.Category.FromDatabase(*existing)
		return &category, false, nil
	}

	row := s.mapper.Category.ToDatabase(domain.Category{
		OwnerID:  ownerID,
		ParentID: parentID,
		Name:     name,
		Color:    colorOrDefault(color, domain.DefaultColor),
	})
	if err := s.repo.CreateCategory(ctx, &row); err != nil {
		return nil, false, err
	}
	category := s.mapper.Category.FromDatabase(row)
	return &category, true, nil
}

// GetCategory retrieves one of the owner's categories
func (s *categoryServiceImpl) GetCategory(ctx context.Context, ownerID, id int64) (*domain.Category, error) {
	if err := requireOwner(ownerID, "view category"); err != nil {
		return nil, err
	}
	return s.getCategory(ctx, ownerID, id)
}

func (s *categoryServiceImpl) getCategory(ctx context.Context, ownerID, id int64) (*domain.Category, error) {
	row, err := s.repo.FindCategory(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	category := s.mapper.Category.FromDatabase(*row)
	return &category, nil
}

// ListCategories returns the owner's categories ordered by name
func (s *categoryServiceImpl) ListCategories(ctx context.Context, ownerID int64) ([]domain.Category, error) {
	if err := requireOwner(ownerID, "list categories"); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.mapper.Category.FromDatabaseSlice(rows), nil
}

// CategoryTree returns the owner's categories as a forest ordered by name
func (s *categoryServiceImpl) CategoryTree(ctx context.Context, ownerID int64) ([]*domain.CategoryNode, error) {
	categories, err := s.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return domain.BuildForest(categories), nil
}

// resolveParent turns a parent reference into a parent id. The reference is
// either a numeric id or a name matching exactly one of the owner's categories.
func (s *categoryServiceImpl) resolveParent(ctx context.Context, ownerID int64, ref string) (*int64, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || ref == "0" {
		return nil, nil
	}

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		exists := false
		if id > 0 {
			if exists, err = s.repo.CategoryExists(ctx, ownerID, id); err != nil {
				return nil, err
			}
		}
		if !exists {
			return nil, parentRefError(ref, "parentRef does not refer to one of your categories")
		}
		return &id, nil
	}

	matches, err := s.repo.FindCategoriesNamed(ctx, ownerID, ref)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, parentRefError(ref, fmt.Sprintf("no category named %q", ref))
	case 1:
		id := matches[0].ID
		return &id, nil
	default:
		return nil, parentRefError(ref, fmt.Sprintf("%d categories are named %q, use an id", len(matches), ref))
	}
}

func (s *categoryServiceImpl) ensureUniqueName(ctx context.Context, ownerID int64, parentID *int64, name string, excludeID int64) error {
	taken, err := s.repo.ExistsWithName(ctx, ownerID, parentID, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return errors.NewDuplicateNameError(name)
	}
	return nil
}

func parentRefError(ref, message string) error {
	ve := validation.NewValidationError()
	ve.AddError("parentRef", validation.ErrorTypeInvalidRef, message, ref)
	return errors.NewValidationError("invalid parent", ve)
}

func colorOrDefault(color, fallback string) string {
	if color == "" {
		return fallback
	}
	return color
}

// deadlineFromForm returns the submitted deadline when the task asks for one
func deadlineFromForm(form validation.CategoryForm) *time.Time {
	if !form.IsTask || !form.DeadlineFlag {
		return nil
	}
	deadline, err := validation.ParseDateTime(form.Deadline)
	if err != nil {
		return nil
	}
	return &deadline
}
