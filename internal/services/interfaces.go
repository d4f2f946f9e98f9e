package services

import (
	"context"

	"sundial/internal/config"
	"sundial/internal/domain"
	"sundial/internal/errors"
	"sundial/internal/repository/sqlite"
	"sundial/internal/validation"
)

// CategoryService maintains each user's category forest
type CategoryService interface {
	// Category writes
	CreateOrUpdateCategory(ctx context.Context, ownerID, categoryID int64, form validation.CategoryForm) (*domain.Category, error)
	EnsureRootCategory(ctx context.Context, ownerID int64) (*domain.Category, error)
	FindOrCreateCategory(ctx context.Context, ownerID int64, parentID *int64, name, color string) (*domain.Category, bool, error)

	// Tree integrity
	CheckForCycle(ctx context.Context, ownerID, categoryID, candidateParentID int64) (bool, error)

	// Category reads
	GetCategory(ctx context.Context, ownerID, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context, ownerID int64) ([]domain.Category, error)
	CategoryTree(ctx context.Context, ownerID int64) ([]*domain.CategoryNode, error)
}

// EntryService handles log entry persistence and category resolution
type EntryService interface {
	SaveEntry(ctx context.Context, ownerID, entryID int64, form validation.EntryForm) (*domain.LogEntry, error)
	GetEntry(ctx context.Context, ownerID, id int64) (*domain.LogEntry, error)
	ListEntries(ctx context.Context, ownerID int64, opts domain.SearchOptions) ([]*domain.LogEntry, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	CategoryService CategoryService
	EntryService    EntryService
}

// NewServiceContainer wires every service to repo. cfg may be nil for defaults.
func NewServiceContainer(repo sqlite.Repository, cfg *config.Config) *ServiceContainer {
	categories := newCategoryService(repo, cfg)
	return &ServiceContainer{
		CategoryService: categories,
		EntryService:    newEntryService(repo, cfg, categories),
	}
}

// requireOwner refuses to run operation without a user identity
func requireOwner(ownerID int64, operation string) error {
	if ownerID <= 0 {
		return errors.NewAuthenticationError(operation)
	}
	return nil
}
