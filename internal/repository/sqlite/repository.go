package sqlite

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sundial/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// SearchOptions contains all possible search parameters for log entries
type SearchOptions struct {
	StartTime  *time.Time
	EndTime    *time.Time
	CategoryID *int64
	Limit      int
}

// Repository defines the persistence operations used by the services.
// Every lookup is scoped to an owner.
type Repository interface {
	// Category reads
	FindCategory(ctx context.Context, ownerID, id int64) (*Category, error)
	FindCategoryByName(ctx context.Context, ownerID int64, parentID *int64, name string) (*Category, error)
	FindCategoriesNamed(ctx context.Context, ownerID int64, name string) ([]*Category, error)
	FindCategoryParent(ctx context.Context, ownerID, id int64) (*int64, error)
	CategoryExists(ctx context.Context, ownerID, id int64) (bool, error)
	ExistsWithName(ctx context.Context, ownerID int64, parentID *int64, name string, excludeID int64) (bool, error)
	CountCategories(ctx context.Context, ownerID int64) (int64, error)
	ListCategories(ctx context.Context, ownerID int64) ([]*Category, error)

	// Category writes
	CreateCategory(ctx context.Context, category *Category) error
	UpdateCategory(ctx context.Context, category *Category) error

	// Log entries
	FindEntry(ctx context.Context, ownerID, id int64) (*LogEntry, error)
	ListEntries(ctx context.Context, ownerID int64, opts SearchOptions) ([]*LogEntry, error)
	CreateEntry(ctx context.Context, entry *LogEntry) error
	UpdateEntry(ctx context.Context, entry *LogEntry) error

	// WithTx runs fn against a repository bound to a single transaction
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	// Utility
	Close() error
}

// Options tunes how the database is opened
type Options struct {
	Verbose      bool
	QueryTimeout time.Duration
	MaxOpenConns int
}

// GormRepository implements Repository on gorm over a modernc SQLite connection
type GormRepository struct {
	db      *gorm.DB
	sqlDB   *sql.DB
	timeout time.Duration
}

// New creates a new SQLite repository instance with default options
func New(dbPath string) (*GormRepository, error) {
	return NewWithOptions(dbPath, Options{})
}

// NewWithOptions opens dbPath, applies pending migrations and wraps the
// connection in gorm.
func NewWithOptions(dbPath string, opts Options) (*GormRepository, error) {
	sqlDB, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, HandleDatabaseError("open database", err)
	}

	// every connection to :memory: is a separate database
	if isMemoryDSN(dbPath) {
		sqlDB.SetMaxOpenConns(1)
	} else {
		if opts.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		}
	}

	if err := migrations.RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, HandleDatabaseError("run migrations", err)
	}

	gormLogger := logger.Default.LogMode(logger.Silent)
	if opts.Verbose {
		gormLogger = logger.New(
			log.New(os.Stderr, "", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		)
	}

	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		sqlDB.Close()
		return nil, HandleDatabaseError("open gorm session", err)
	}

	return &GormRepository{db: db, sqlDB: sqlDB, timeout: opts.QueryTimeout}, nil
}

// fileDSNParams are applied by the driver to every pooled connection.
// Transactions take the write lock at BEGIN.
const fileDSNParams = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

func dsn(dbPath string) string {
	if isMemoryDSN(dbPath) {
		return dbPath
	}
	if strings.Contains(dbPath, "?") {
		return dbPath + "&" + fileDSNParams
	}
	return dbPath + "?" + fileDSNParams
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// Close closes the database connection
func (r *GormRepository) Close() error {
	if r.sqlDB == nil {
		return nil
	}
	return r.sqlDB.Close()
}

// session binds ctx (and the configured query timeout) to a gorm session
func (r *GormRepository) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if r.timeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, r.timeout)
		return r.db.WithContext(ctx), cancel
	}
	return r.db.WithContext(ctx), func() {}
}

// WithTx runs fn inside a transaction; fn's error rolls it back
func (r *GormRepository) WithTx(ctx context.Context, fn func(repo Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx, timeout: r.timeout})
	})
}

// FindCategory retrieves a category by ID, scoped to its owner
func (r *GormRepository) FindCategory(ctx context.Context, ownerID, id int64) (*Category, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var category Category
	if err := db.Scopes(scopeOwner(ownerID)).First(&category, id).Error; err != nil {
		return nil, HandleNoRowsError(err, "category", id)
	}
	return &category, nil
}

// FindCategoryByName looks up a sibling by exact name. It returns nil, nil when absent.
func (r *GormRepository) FindCategoryByName(ctx context.Context, ownerID int64, parentID *int64, name string) (*Category, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var found []*Category
	err := db.Scopes(scopeOwner(ownerID), scopeParent(parentID)).
		Where("name = ?", name).
		Order("id ASC").
		Limit(1).
		Find(&found).Error
	if err != nil {
		return nil, HandleDatabaseError("find category by name", err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

// FindCategoriesNamed returns every category of the owner with the given name, at any depth
func (r *GormRepository) FindCategoriesNamed(ctx context.Context, ownerID int64, name string) ([]*Category, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var found []*Category
	if err := db.Scopes(scopeOwner(ownerID)).Where("name = ?", name).Order("id ASC").Find(&found).Error; err != nil {
		return nil, HandleDatabaseError("find categories by name", err)
	}
	return found, nil
}

// FindCategoryParent returns the parent id of a category, nil for roots
func (r *GormRepository) FindCategoryParent(ctx context.Context, ownerID, id int64) (*int64, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var category Category
	if err := db.Select("id", "parent_id").Scopes(scopeOwner(ownerID)).First(&category, id).Error; err != nil {
		return nil, HandleNoRowsError(err, "category", id)
	}
	return category.ParentID, nil
}

// CategoryExists reports whether id names one of the owner's categories
func (r *GormRepository) CategoryExists(ctx context.Context, ownerID, id int64) (bool, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var count int64
	if err := db.Model(&Category{}).Scopes(scopeOwner(ownerID)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, HandleDatabaseError("check category", err)
	}
	return count > 0, nil
}

// ExistsWithName reports whether a sibling other than excludeID already uses name
func (r *GormRepository) ExistsWithName(ctx context.Context, ownerID int64, parentID *int64, name string, excludeID int64) (bool, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	query := db.Model(&Category{}).Scopes(scopeOwner(ownerID), scopeParent(parentID)).Where("name = ?", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, HandleDatabaseError("check category name", err)
	}
	return count > 0, nil
}

// CountCategories returns how many categories the owner has
func (r *GormRepository) CountCategories(ctx context.Context, ownerID int64) (int64, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var count int64
	if err := db.Model(&Category{}).Scopes(scopeOwner(ownerID)).Count(&count).Error; err != nil {
		return 0, HandleDatabaseError("count categories", err)
	}
	return count, nil
}

// ListCategories retrieves all of the owner's categories ordered by name
func (r *GormRepository) ListCategories(ctx context.Context, ownerID int64) ([]*Category, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var categories []*Category
	if err := db.Scopes(scopeOwner(ownerID)).Order("name ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, HandleDatabaseError("list categories", err)
	}
	return categories, nil
}

// CreateCategory inserts a category and sets its ID
func (r *GormRepository) CreateCategory(ctx context.Context, category *Category) error {
	db, cancel := r.session(ctx)
	defer cancel()

	if err := db.Create(category).Error; err != nil {
		return HandleDatabaseError("create category", err)
	}
	return nil
}

// UpdateCategory writes every mutable column of an existing category
func (r *GormRepository) UpdateCategory(ctx context.Context, category *Category) error {
	db, cancel := r.session(ctx)
	defer cancel()

	category.UpdatedAt = time.Now()
	result := db.Model(category).
		Scopes(scopeOwner(category.OwnerID)).
		Select("parent_id", "name", "color", "is_task", "is_completed", "rating", "deadline", "updated_at").
		Updates(category)
	return ValidateRowsAffected(result, "category", category.ID)
}

// FindEntry retrieves a log entry by ID, scoped to its owner
func (r *GormRepository) FindEntry(ctx context.Context, ownerID, id int64) (*LogEntry, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var entry LogEntry
	if err := db.Scopes(scopeOwner(ownerID)).First(&entry, id).Error; err != nil {
		return nil, HandleNoRowsError(err, "log entry", id)
	}
	return &entry, nil
}

// ListEntries searches the owner's log entries, oldest first
func (r *GormRepository) ListEntries(ctx context.Context, ownerID int64, opts SearchOptions) ([]*LogEntry, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	query := db.Scopes(scopeOwner(ownerID))
	if opts.StartTime != nil {
		query = query.Where("start_date_time >= ?", *opts.StartTime)
	}
	if opts.EndTime != nil {
		query = query.Where("start_date_time <= ?", *opts.EndTime)
	}
	if opts.CategoryID != nil {
		query = query.Where("category_id = ?", *opts.CategoryID)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	var entries []*LogEntry
	if err := query.Order("start_date_time ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, HandleDatabaseError("list log entries", err)
	}
	return entries, nil
}

// CreateEntry inserts a log entry and sets its ID
func (r *GormRepository) CreateEntry(ctx context.Context, entry *LogEntry) error {
	db, cancel := r.session(ctx)
	defer cancel()

	if err := db.Create(entry).Error; err != nil {
		return HandleDatabaseError("create log entry", err)
	}
	return nil
}

// UpdateEntry writes every mutable column of an existing log entry
func (r *GormRepository) UpdateEntry(ctx context.Context, entry *LogEntry) error {
	db, cancel := r.session(ctx)
	defer cancel()

	entry.UpdatedAt = time.Now()
	result := db.Model(entry).
		Scopes(scopeOwner(entry.OwnerID)).
		Select("category_id", "start_date_time", "end_date_time", "duration_minutes", "notes", "updated_at").
		Updates(entry)
	return ValidateRowsAffected(result, "log entry", entry.ID)
}
