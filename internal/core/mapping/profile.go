// Package mapping converts between persisted catalogue records and the
// request/response shapes used by services and the API.
//
// A Profile is built once at startup and passed to every service that needs it.
// It holds no mutable state, so it is safe for concurrent use. Every method
// returns a new value; records handed in are never modified.
package mapping

import (
	"time"

	"github.com/artpar/katla/internal/core/domain"
)

// Profile is an immutable mapping configuration.
type Profile struct {
	now func() time.Time
}

// NewProfile creates a mapping profile. now supplies the timestamp written to
// audit fields; nil means time.Now.
func NewProfile(now func() time.Time) *Profile {
	if now == nil {
		now = time.Now
	}
	return &Profile{now: now}
}

func (p *Profile) timestamp() time.Time {
	return p.now().UTC().Truncate(time.Second)
}

func (p *Profile) created(userID int) domain.Audit {
	ts := p.timestamp()
	return domain.Audit{
		CreatedBy:     userID,
		LastUpdatedBy: userID,
		CreatedAt:     ts,
		LastUpdated:   ts,
	}
}

func (p *Profile) touched(a domain.Audit, userID int) domain.Audit {
	a.LastUpdatedBy = userID
	a.LastUpdated = p.timestamp()
	return a
}

// =============================================================================
// Hives
// =============================================================================

// HiveListItem maps a hive and its section count to the list shape.
func (p *Profile) HiveListItem(h domain.Hive, sectionCount int) HiveListItem {
	return HiveListItem{
		ID:               h.ID,
		Name:             h.Name,
		Code:             h.Code,
		IsDeleted:        h.IsDeleted,
		LastUpdated:      h.LastUpdated,
		HiveSectionCount: sectionCount,
	}
}

// HiveDetails maps a hive to the details shape.
func (p *Profile) HiveDetails(h domain.Hive) HiveDetails {
	return HiveDetails{
		ID:          h.ID,
		Name:        h.Name,
		Code:        h.Code,
		Address:     h.Address,
		IsDeleted:   h.IsDeleted,
		LastUpdated: h.LastUpdated,
	}
}

// NewHive builds an active, not yet persisted hive from a request.
func (p *Profile) NewHive(req UpdateHiveRequest, userID int) domain.Hive {
	return domain.Hive{
		Name:    req.Name,
		Code:    req.Code,
		Address: req.Address,
		Audit:   p.created(userID),
	}
}

// UpdatedHive returns a copy of existing with the request fields applied.
func (p *Profile) UpdatedHive(existing domain.Hive, req UpdateHiveRequest, userID int) domain.Hive {
	updated := existing
	updated.Name = req.Name
	updated.Code = req.Code
	updated.Address = req.Address
	updated.Audit = p.touched(existing.Audit, userID)
	return updated
}

// HiveWithStatus returns a copy of existing with the deleted flag set.
func (p *Profile) HiveWithStatus(existing domain.Hive, deleted bool, userID int) domain.Hive {
	updated := existing
	updated.IsDeleted = deleted
	updated.Audit = p.touched(existing.Audit, userID)
	return updated
}

// =============================================================================
// Hive Sections
// =============================================================================

// HiveSectionListItem maps a section to the list shape.
func (p *Profile) HiveSectionListItem(s domain.HiveSection) HiveSectionListItem {
	return HiveSectionListItem{
		ID:          s.ID,
		Name:        s.Name,
		Code:        s.Code,
		HiveID:      s.HiveID,
		IsDeleted:   s.IsDeleted,
		LastUpdated: s.LastUpdated,
	}
}

// HiveSectionDetails maps a section to the details shape.
func (p *Profile) HiveSectionDetails(s domain.HiveSection) HiveSectionDetails {
	return HiveSectionDetails{
		ID:          s.ID,
		Name:        s.Name,
		Code:        s.Code,
		HiveID:      s.HiveID,
		IsDeleted:   s.IsDeleted,
		LastUpdated: s.LastUpdated,
	}
}

// NewHiveSection builds an active, not yet persisted section from a request.
func (p *Profile) NewHiveSection(req UpdateHiveSectionRequest, userID int) domain.HiveSection {
	return domain.HiveSection{
		Name:   req.Name,
		Code:   req.Code,
		HiveID: req.HiveID,
		Audit:  p.created(userID),
	}
}

// UpdatedHiveSection returns a copy of existing with the request fields applied.
func (p *Profile) UpdatedHiveSection(existing domain.HiveSection, req UpdateHiveSectionRequest, userID int) domain.HiveSection {
	updated := existing
	updated.Name = req.Name
	updated.Code = req.Code
	updated.HiveID = req.HiveID
	updated.Audit = p.touched(existing.Audit, userID)
	return updated
}

// HiveSectionWithStatus returns a copy of existing with the deleted flag set.
func (p *Profile) HiveSectionWithStatus(existing domain.HiveSection, deleted bool, userID int) domain.HiveSection {
	updated := existing
	updated.IsDeleted = deleted
	updated.Audit = p.touched(existing.Audit, userID)
	return updated
}

// =============================================================================
// Products
// =============================================================================

// ProductListItem maps a product to the list shape.
func (p *Profile) ProductListItem(pr domain.Product) ProductListItem {
	return ProductListItem{
		ID:          pr.ID,
		Name:        pr.Name,
		Code:        pr.Code,
		IsDeleted:   pr.IsDeleted,
		LastUpdated: pr.LastUpdated,
	}
}

// ProductDetails maps a product to the details shape.
func (p *Profile) ProductDetails(pr domain.Product) ProductDetails {
	return ProductDetails{
		ID:          pr.ID,
		Name:        pr.Name,
		Code:        pr.Code,
		IsDeleted:   pr.IsDeleted,
		CreatedAt:   pr.CreatedAt,
		LastUpdated: pr.LastUpdated,
	}
}

// NewProduct builds an active, not yet persisted product from a request.
func (p *Profile) NewProduct(req UpdateProductRequest, userID int) domain.Product {
	return domain.Product{
		Name:  req.Name,
		Code:  req.Code,
		Audit: p.created(userID),
	}
}

// UpdatedProduct returns a copy of existing with the request fields applied.
func (p *Profile) UpdatedProduct(existing domain.Product, req UpdateProductRequest, userID int) domain.Product {
	updated := existing
	updated.Name = req.Name
	updated.Code = req.Code
	updated.Audit = p.touched(existing.Audit, userID)
	return updated
}

// ProductWithStatus returns a copy of existing with the deleted flag set.
func (p *Profile) ProductWithStatus(existing domain.Product, deleted bool, userID int) domain.Product {
	updated := existing
	updated.IsDeleted = deleted
	updated.Audit = p.touched(existing.Audit, userID)
	return updated
}
