package management

import (
	"context"
	"log/slog"

	"github.com/artpar/katla/internal/core/domain"
	"github.com/artpar/katla/internal/core/mapping"
	"github.com/artpar/katla/internal/core/validation"
	"github.com/artpar/katla/internal/shell/store"
)

// HiveSectionService manages hive sections.
type HiveSectionService struct {
	deps
}

// NewHiveSectionService creates a hive section service. It fails with
// ErrNilStore when s is nil.
func NewHiveSectionService(s store.Store, m *mapping.Profile, user UserContext, logger *slog.Logger) (*HiveSectionService, error) {
	d, err := newDeps(s, m, user, logger)
	if err != nil {
		return nil, err
	}
	return &HiveSectionService{deps: d}, nil
}

// ListHiveSections returns sections ordered by id. A non-nil hiveID limits the
// result to sections owned by that hive; an unknown hive yields an empty list.
func (s *HiveSectionService) ListHiveSections(ctx context.Context, hiveID *int) ([]mapping.HiveSectionListItem, error) {
	sections, err := s.store.ListHiveSections(ctx, store.SectionFilter{HiveID: hiveID})
	if err != nil {
		return nil, translate("ListHiveSections", EntityHiveSection, 0, err)
	}

	items := make([]mapping.HiveSectionListItem, 0, len(sections))
	for _, section := range sections {
		items = append(items, s.mapper.HiveSectionListItem(section))
	}
	return items, nil
}

// GetHiveSection returns the section with id.
func (s *HiveSectionService) GetHiveSection(ctx context.Context, id int) (mapping.HiveSectionDetails, error) {
	section, err := s.store.GetHiveSection(ctx, id)
	if err != nil {
		return mapping.HiveSectionDetails{}, s.reject(ctx, translate("GetHiveSection", EntityHiveSection, id, err))
	}
	return s.mapper.HiveSectionDetails(section), nil
}

// CreateHiveSection creates an active section in an existing hive.
func (s *HiveSectionService) CreateHiveSection(ctx context.Context, req mapping.UpdateHiveSectionRequest) (mapping.HiveSectionDetails, error) {
	const op = "CreateHiveSection"

	var created domain.HiveSection
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		if err := requireHive(ctx, tx, op, req.HiveID); err != nil {
			return err
		}

		exists, err := tx.HiveSectionCodeExists(ctx, req.Code, 0)
		if err != nil {
			return err
		}
		if exists {
			return codeConflict(op, EntityHiveSection, 0, req.Code)
		}

		section := s.mapper.NewHiveSection(req, s.user.UserID(ctx))
		if err := tx.CreateHiveSection(ctx, &section); err != nil {
			if isForeignKey(err) {
				return referenceNotFound(op, EntityHive, FieldHiveID, req.HiveID)
			}
			return err
		}
		created = section
		return nil
	})
	if err != nil {
		return mapping.HiveSectionDetails{}, s.reject(ctx, translate(op, EntityHiveSection, 0, err))
	}

	s.logger.InfoContext(ctx, "hive section created",
		"entity", EntityHiveSection,
		"id", created.ID,
		"code", created.Code,
		"hive_id", created.HiveID,
	)
	return s.mapper.HiveSectionDetails(created), nil
}

// UpdateHiveSection replaces the name, code and owning hive of section id.
func (s *HiveSectionService) UpdateHiveSection(ctx context.Context, id int, req mapping.UpdateHiveSectionRequest) (mapping.HiveSectionDetails, error) {
	const op = "UpdateHiveSection"

	var updated domain.HiveSection
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetHiveSection(ctx, id)
		if err != nil {
			return err
		}

		if err := requireHive(ctx, tx, op, req.HiveID); err != nil {
			return err
		}

		exists, err := tx.HiveSectionCodeExists(ctx, req.Code, id)
		if err != nil {
			return err
		}
		if exists {
			return codeConflict(op, EntityHiveSection, id, req.Code)
		}

		updated = s.mapper.UpdatedHiveSection(existing, req, s.user.UserID(ctx))
		if err := tx.ReplaceHiveSection(ctx, updated); err != nil {
			if isForeignKey(err) {
				return referenceNotFound(op, EntityHive, FieldHiveID, req.HiveID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return mapping.HiveSectionDetails{}, s.reject(ctx, translate(op, EntityHiveSection, id, err))
	}

	s.logger.InfoContext(ctx, "hive section updated",
		"entity", EntityHiveSection,
		"id", id,
		"code", updated.Code,
		"hive_id", updated.HiveID,
	)
	return s.mapper.HiveSectionDetails(updated), nil
}

// SetHiveSectionStatus sets the deleted flag of section id.
func (s *HiveSectionService) SetHiveSectionStatus(ctx context.Context, id int, deleted bool) error {
	const op = "SetHiveSectionStatus"

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetHiveSection(ctx, id)
		if err != nil {
			return err
		}
		return tx.ReplaceHiveSection(ctx, s.mapper.HiveSectionWithStatus(existing, deleted, s.user.UserID(ctx)))
	})
	if err != nil {
		return s.reject(ctx, translate(op, EntityHiveSection, id, err))
	}

	s.logger.InfoContext(ctx, "hive section status set", "entity", EntityHiveSection, "id", id, "state", domain.StateOf(deleted))
	return nil
}

// DeleteHiveSection purges section id. The section must be soft-deleted.
func (s *HiveSectionService) DeleteHiveSection(ctx context.Context, id int) error {
	const op = "DeleteHiveSection"

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetHiveSection(ctx, id)
		if err != nil {
			return err
		}
		if allowed, reason := validation.CanPurge(existing.IsDeleted); !allowed {
			return conflict(op, EntityHiveSection, id, FieldStatus, reason)
		}
		return tx.DeleteHiveSection(ctx, id)
	})
	if err != nil {
		return s.reject(ctx, translate(op, EntityHiveSection, id, err))
	}

	s.logger.InfoContext(ctx, "hive section purged", "entity", EntityHiveSection, "id", id)
	return nil
}

// requireHive returns a NotFound error naming the hive when hiveID does not resolve.
// A soft-deleted hive still resolves.
func requireHive(ctx context.Context, tx store.Store, op string, hiveID int) error {
	if _, err := tx.GetHive(ctx, hiveID); err != nil {
		if isNotFound(err) {
			return referenceNotFound(op, EntityHive, FieldHiveID, hiveID)
		}
		return err
	}
	return nil
}
