package store

import (
	"context"

	"github.com/artpar/katla/internal/core/domain"
)

// =============================================================================
// Store Interface
// =============================================================================

// Store defines the persistence interface for catalogue entities.
// Records are returned by value. Updates submit a whole replacement record.
// An excludeID of 0 excludes nothing, since stored ids start at 1.
type Store interface {
	// Hive operations
	ListHives(ctx context.Context) ([]domain.Hive, error)
	GetHive(ctx context.Context, id int) (domain.Hive, error)
	HiveCodeExists(ctx context.Context, code string, excludeID int) (bool, error)
	CreateHive(ctx context.Context, hive *domain.Hive) error
	ReplaceHive(ctx context.Context, hive domain.Hive) error
	// DeleteHive also removes the hive's sections.
	DeleteHive(ctx context.Context, id int) error
	CountSectionsByHive(ctx context.Context) (map[int]int, error)
	CountHiveSections(ctx context.Context, hiveID int) (int, error)

	// Hive section operations
	ListHiveSections(ctx context.Context, filter SectionFilter) ([]domain.HiveSection, error)
	GetHiveSection(ctx context.Context, id int) (domain.HiveSection, error)
	HiveSectionCodeExists(ctx context.Context, code string, excludeID int) (bool, error)
	CreateHiveSection(ctx context.Context, section *domain.HiveSection) error
	ReplaceHiveSection(ctx context.Context, section domain.HiveSection) error
	DeleteHiveSection(ctx context.Context, id int) error

	// Catalogue product operations
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (domain.Product, error)
	ProductCodeExists(ctx context.Context, code string, excludeID int) (bool, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	ReplaceProduct(ctx context.Context, product domain.Product) error
	DeleteProduct(ctx context.Context, id int) error

	// Transaction support
	WithTx(ctx context.Context, fn func(Store) error) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

// =============================================================================
// Options
// =============================================================================

// SectionFilter narrows a section listing. A nil HiveID lists every section.
type SectionFilter struct {
	HiveID *int
}

// ForHive returns a filter matching sections owned by hiveID.
func ForHive(hiveID int) SectionFilter {
	return SectionFilter{HiveID: &hiveID}
}
