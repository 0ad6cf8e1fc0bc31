package db

import (
	"context"

	"gorm.io/gorm"
)

// Identified is implemented by models that know their own primary key.
type Identified interface {
	PrimaryKey() uint
}

// QueryRows runs a read statement and scans every resulting row into T.
// It never returns a nil slice on success so that empty results encode as [].
func QueryRows[T any](ctx context.Context, db *gorm.DB, query string, args ...any) ([]T, error) {
	rows := make([]T, 0)
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// InsertRow inserts row and returns the identifier assigned by the store.
func InsertRow[T Identified](ctx context.Context, db *gorm.DB, row T) (uint, error) {
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		return 0, err
	}
	return row.PrimaryKey(), nil
}
