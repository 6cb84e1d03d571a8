package mapping

import "time"

// =============================================================================
// Request Shapes
// =============================================================================

// UpdateHiveRequest carries the writable fields of a hive. It is used for both
// create and update.
type UpdateHiveRequest struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Address string `json:"address"`
}

// UpdateHiveSectionRequest carries the writable fields of a hive section.
type UpdateHiveSectionRequest struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	HiveID int    `json:"hive_id"`
}

// UpdateProductRequest carries the writable fields of a catalogue product.
type UpdateProductRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// =============================================================================
// Response Shapes
// =============================================================================

// HiveListItem is the summary shape returned when listing hives.
type HiveListItem struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Code             string    `json:"code"`
	IsDeleted        bool      `json:"is_deleted"`
	LastUpdated      time.Time `json:"last_updated"`
	HiveSectionCount int       `json:"hive_section_count"`
}

// HiveDetails is the full hive shape.
type HiveDetails struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Address     string    `json:"address"`
	IsDeleted   bool      `json:"is_deleted"`
	LastUpdated time.Time `json:"last_updated"`
}

// HiveSectionListItem is the summary shape returned when listing sections.
type HiveSectionListItem struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	HiveID      int       `json:"hive_id"`
	IsDeleted   bool      `json:"is_deleted"`
	LastUpdated time.Time `json:"last_updated"`
}

// HiveSectionDetails is the full section shape.
type HiveSectionDetails struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	HiveID      int       `json:"hive_id"`
	IsDeleted   bool      `json:"is_deleted"`
	LastUpdated time.Time `json:"last_updated"`
}

// ProductListItem is the summary shape returned when listing products.
type ProductListItem struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	IsDeleted   bool      `json:"is_deleted"`
	LastUpdated time.Time `json:"last_updated"`
}

// ProductDetails is the full product shape.
type ProductDetails struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	IsDeleted   bool      `json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}
