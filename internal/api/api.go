package api

import (
	"context"
	"log/slog"

	"sundial/internal/domain"
	"sundial/internal/errors"
	"sundial/internal/services"
	"sundial/internal/validation"
)

// API is the operation boundary used by the HTTP layer and the CLI.
// The acting user is read from ctx (see WithOwner); every failure is
// reported inside the returned Result.
type API interface {
	// Account setup
	Setup(ctx context.Context) Result

	// Category operations
	SaveCategory(ctx context.Context, categoryID int64, form validation.CategoryForm) Result
	GetCategory(ctx context.Context, id int64) Result
	ListCategories(ctx context.Context) Result
	CategoryTree(ctx context.Context) Result

	// Log entry operations
	SaveEntry(ctx context.Context, entryID int64, form validation.EntryForm) Result
	GetEntry(ctx context.Context, id int64) Result
	ListEntries(ctx context.Context, opts domain.SearchOptions) Result
}

type apiImpl struct {
	categories services.CategoryService
	entries    services.EntryService
	logger     *slog.Logger
}

// New creates a new API instance over the services in container
func New(container *services.ServiceContainer, logger *slog.Logger) API {
	if logger == nil {
		logger = slog.Default()
	}
	return &apiImpl{
		categories: container.CategoryService,
		entries:    container.EntryService,
		logger:     logger,
	}
}

// owner resolves the acting user or returns the unauthenticated result
func (a *apiImpl) owner(ctx context.Context, operation string, input interface{}) (int64, *Result) {
	ownerID, ok := OwnerFromContext(ctx)
	if !ok {
		result := a.fail(operation, errors.NewAuthenticationError(operation), input)
		return 0, &result
	}
	return ownerID, nil
}

// fail converts err and logs it when it is not the user's fault
func (a *apiImpl) fail(operation string, err error, input interface{}) Result {
	if errors.ShouldLogError(err) {
		a.logger.Error("operation failed", slog.String("operation", operation), slog.String("error", err.Error()))
	} else {
		a.logger.Debug("operation rejected", slog.String("operation", operation), slog.String("error", err.Error()))
	}
	return FromError(err, input)
}

func (a *apiImpl) Setup(ctx context.Context) Result {
	ownerID, denied := a.owner(ctx, "setup", nil)
	if denied != nil {
		return *denied
	}

	root, err := a.categories.EnsureRootCategory(ctx, ownerID)
	if err != nil {
		return a.fail("setup", err, nil)
	}
	return OK(NewCategoryView(*root))
}

func (a *apiImpl) SaveCategory(ctx context.Context, categoryID int64, form validation.CategoryForm) Result {
	ownerID, denied := a.owner(ctx, "save category", form)
	if denied != nil {
		return *denied
	}

	category, err := a.categories.CreateOrUpdateCategory(ctx, ownerID, categoryID, form)
	if err != nil {
		return a.fail("save category", err, form)
	}
	a.logger.Info("category saved", slog.Int64("owner", ownerID), slog.Int64("category", category.ID))
	return OK(NewCategoryView(*category))
}

func (a *apiImpl) GetCategory(ctx context.Context, id int64) Result {
	ownerID, denied := a.owner(ctx, "view category", nil)
	if denied != nil {
		return *denied
	}

	category, err := a.categories.GetCategory(ctx, ownerID, id)
	if err != nil {
		return a.fail("view category", err, nil)
	}
	return OK(NewCategoryView(*category))
}

func (a *apiImpl) ListCategories(ctx context.Context) Result {
	ownerID, denied := a.owner(ctx, "list categories", nil)
	if denied != nil {
		return *denied
	}

	categories, err := a.categories.ListCategories(ctx, ownerID)
	if err != nil {
		return a.fail("list categories", err, nil)
	}
	return OK(NewCategoryViews(categories))
}

func (a *apiImpl) CategoryTree(ctx context.Context) Result {
	ownerID, denied := a.owner(ctx, "view category tree", nil)
	if denied != nil {
		return *denied
	}

	roots, err := a.categories.CategoryTree(ctx, ownerID)
	if err != nil {
		return a.fail("view category tree", err, nil)
	}
	return OK(NewCategoryForest(roots))
}

func (a *apiImpl) SaveEntry(ctx context.Context, entryID int64, form validation.EntryForm) Result {
	ownerID, denied := a.owner(ctx, "save log entry", form)
	if denied != nil {
		return *denied
	}

	entry, err := a.entries.SaveEntry(ctx, ownerID, entryID, form)
	if err != nil {
		return a.fail("save log entry", err, form)
	}
	a.logger.Info("log entry saved",
		slog.Int64("owner", ownerID),
		slog.Int64("entry", entry.ID),
		slog.Int64("category", entry.CategoryID),
		slog.Int64("minutes", entry.DurationMinutes),
	)
	return OK(NewEntryView(*entry))
}

func (a *apiImpl) GetEntry(ctx context.Context, id int64) Result {
	ownerID, denied := a.owner(ctx, "view log entry", nil)
	if denied != nil {
		return *denied
	}

	entry, err := a.entries.GetEntry(ctx, ownerID, id)
	if err != nil {
		return a.fail("view log entry", err, nil)
	}
	return OK(NewEntryView(*entry))
}

func (a *apiImpl) ListEntries(ctx context.Context, opts domain.SearchOptions) Result {
	ownerID, denied := a.owner(ctx, "list log entries", nil)
	if denied != nil {
		return *denied
	}

	entries, err := a.entries.ListEntries(ctx, ownerID, opts)
	if err != nil {
		return a.fail("list log entries", err, nil)
	}
	return OK(NewEntryViews(entries))
}
