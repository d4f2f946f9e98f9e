package sqlite

import (
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"sundial/internal/errors"
)

// HandleDatabaseError converts database errors to structured app errors
func HandleDatabaseError(operation string, err error) error {
	return errors.NewDatabaseError(operation, err)
}

// HandleNoRowsError turns gorm.ErrRecordNotFound into a NotFound app error
// and any other failure into a database error.
func HandleNoRowsError(err error, entityType string, id int64) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.NewNotFoundError(entityType, fmt.Sprintf("%d", id))
	}
	return HandleDatabaseError("find "+entityType, err)
}

// ValidateRowsAffected checks that a write touched at least one row
func ValidateRowsAffected(result *gorm.DB, entityType string, id int64) error {
	if result.Error != nil {
		return HandleDatabaseError("update "+entityType, result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError(entityType, fmt.Sprintf("%d", id))
	}
	return nil
}

// scopeParent restricts a query to the children of parentID, or to roots when nil
func scopeParent(parentID *int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if parentID == nil {
			return db.Where("parent_id IS NULL")
		}
		return db.Where("parent_id = ?", *parentID)
	}
}

// scopeOwner restricts a query to rows owned by ownerID
func scopeOwner(ownerID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}
