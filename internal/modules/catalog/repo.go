package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("catalog: product not found")

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) ShirtByID(ctx context.Context, id uint) (Shirt, error) {
	return ShirtByID(ctx, r.db, id)
}

func (r *Repo) PhotoPackageByID(ctx context.Context, id uint) (PhotoPackage, error) {
	return PhotoPackageByID(ctx, r.db, id)
}

// Tx-scoped variants so callers holding a transaction (webhook processing)
// read catalog rows through the same connection.
func ShirtByID(ctx context.Context, tx *gorm.DB, id uint) (Shirt, error) {
	var s Shirt
	if err := tx.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Shirt{}, ErrNotFound
		}
		return Shirt{}, err
	}
	return s, nil
}

func PhotoPackageByID(ctx context.Context, tx *gorm.DB, id uint) (PhotoPackage, error) {
	var p PhotoPackage
	if err := tx.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PhotoPackage{}, ErrNotFound
		}
		return PhotoPackage{}, err
	}
	return p, nil
}
