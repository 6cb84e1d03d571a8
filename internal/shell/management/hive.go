package management

import (
	"context"
	"log/slog"

	"github.com/artpar/katla/internal/core/domain"
	"github.com/artpar/katla/internal/core/mapping"
	"github.com/artpar/katla/internal/core/validation"
	"github.com/artpar/katla/internal/shell/store"
)

// HiveService manages hives.
type HiveService struct {
	deps
}

// NewHiveService creates a hive service. A nil user means anonymous and a nil
// logger means slog.Default().
func NewHiveService(s store.Store, m *mapping.Profile, user UserContext, logger *slog.Logger) (*HiveService, error) {
	d, err := newDeps(s, m, user, logger)
	if err != nil {
		return nil, err
	}
	return &HiveService{deps: d}, nil
}

// ListHives returns every hive, deleted or not, ordered by id.
func (s *HiveService) ListHives(ctx context.Context) ([]mapping.HiveListItem, error) {
	hives, err := s.store.ListHives(ctx)
	if err != nil {
		return nil, translate("ListHives", EntityHive, 0, err)
	}
	counts, err := s.store.CountSectionsByHive(ctx)
	if err != nil {
		return nil, translate("ListHives", EntityHive, 0, err)
	}

	items := make([]mapping.HiveListItem, 0, len(hives))
	for _, h := range hives {
		items = append(items, s.mapper.HiveListItem(h, counts[h.ID]))
	}
	return items, nil
}

// GetHive returns the hive with id.
func (s *HiveService) GetHive(ctx context.Context, id int) (mapping.HiveDetails, error) {
	hive, err := s.store.GetHive(ctx, id)
	if err != nil {
		return mapping.HiveDetails{}, s.reject(ctx, translate("GetHive", EntityHive, id, err))
	}
	return s.mapper.HiveDetails(hive), nil
}

// ListHiveSections returns the sections owned by hive id, ordered by id.
func (s *HiveService) ListHiveSections(ctx context.Context, id int) ([]mapping.HiveSectionListItem, error) {
	if _, err := s.store.GetHive(ctx, id); err != nil {
		return nil, s.reject(ctx, translate("ListHiveSections", EntityHive, id, err))
	}

	sections, err := s.store.ListHiveSections(ctx, store.ForHive(id))
	if err != nil {
		return nil, translate("ListHiveSections", EntityHiveSection, 0, err)
	}

	items := make([]mapping.HiveSectionListItem, 0, len(sections))
	for _, section := range sections {
		items = append(items, s.mapper.HiveSectionListItem(section))
	}
	return items, nil
}

// CreateHive creates an active hive. The code must not be used by any hive,
// deleted or not.
func (s *HiveService) CreateHive(ctx context.Context, req mapping.UpdateHiveRequest) (mapping.HiveDetails, error) {
	const op = "CreateHive"

	var created domain.Hive
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		exists, err := tx.HiveCodeExists(ctx, req.Code, 0)
		if err != nil {
			return err
		}
		if exists {
			return codeConflict(op, EntityHive, 0, req.Code)
		}

		hive := s.mapper.NewHive(req, s.user.UserID(ctx))
		if err := tx.CreateHive(ctx, &hive); err != nil {
			return err
		}
		created = hive
		return nil
	})
	if err != nil {
		return mapping.HiveDetails{}, s.reject(ctx, translate(op, EntityHive, 0, err))
	}

	s.logger.InfoContext(ctx, "hive created", "entity", EntityHive, "id", created.ID, "code", created.Code)
	return s.mapper.HiveDetails(created), nil
}

// UpdateHive replaces the name, code and address of hive id.
func (s *HiveService) UpdateHive(ctx context.Context, id int, req mapping.UpdateHiveRequest) (mapping.HiveDetails, error) {
	const op = "UpdateHive"

	var updated domain.Hive
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetHive(ctx, id)
		if err != nil {
			return err
		}

		exists, err := tx.HiveCodeExists(ctx, req.Code, id)
		if err != nil {
			return err
		}
		if exists {
			return codeConflict(op, EntityHive, id, req.Code)
		}

		updated = s.mapper.UpdatedHive(existing, req, s.user.UserID(ctx))
		return tx.ReplaceHive(ctx, updated)
	})
	if err != nil {
		return mapping.HiveDetails{}, s.reject(ctx, translate(op, EntityHive, id, err))
	}

	s.logger.InfoContext(ctx, "hive updated", "entity", EntityHive, "id", id, "code", updated.Code)
	return s.mapper.HiveDetails(updated), nil
}

// SetHiveStatus sets the deleted flag of hive id. Setting the current value again is allowed.
func (s *HiveService) SetHiveStatus(ctx context.Context, id int, deleted bool) error {
	const op = "SetHiveStatus"

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetHive(ctx, id)
		if err != nil {
			return err
		}
		return tx.ReplaceHive(ctx, s.mapper.HiveWithStatus(existing, deleted, s.user.UserID(ctx)))
	})
	if err != nil {
		return s.reject(ctx, translate(op, EntityHive, id, err))
	}

	s.logger.InfoContext(ctx, "hive status set", "entity", EntityHive, "id", id, "state", domain.StateOf(deleted))
	return nil
}

// DeleteHive purges hive id. The hive must be soft-deleted; its sections are
// removed with it.
func (s *HiveService) DeleteHive(ctx context.Context, id int) error {
	const op = "DeleteHive"

	var sections int
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetHive(ctx, id)
		if err != nil {
			return err
		}
		if allowed, reason := validation.CanPurge(existing.IsDeleted); !allowed {
			return conflict(op, EntityHive, id, FieldStatus, reason)
		}

		sections, err = tx.CountHiveSections(ctx, id)
		if err != nil {
			return err
		}
		return tx.DeleteHive(ctx, id)
	})
	if err != nil {
		return s.reject(ctx, translate(op, EntityHive, id, err))
	}

	s.logger.InfoContext(ctx, "hive purged", "entity", EntityHive, "id", id, "sections_removed", sections)
	return nil
}
