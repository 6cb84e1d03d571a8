// Package management implements the hive, hive section and catalogue product
// services. Each service validates a request against the current store state
// and then mutates the store, all inside one store transaction.
package management

import (
	"context"
	"errors"
	"log/slog"

	"github.com/artpar/katla/internal/core/mapping"
	"github.com/artpar/katla/internal/shell/store"
)

// UserContext identifies the user acting on a request.
type UserContext interface {
	UserID(ctx context.Context) int
}

type anonymous struct{}

func (anonymous) UserID(context.Context) int { return 0 }

// deps holds the collaborators shared by all services.
type deps struct {
	store  store.Store
	mapper *mapping.Profile
	user   UserContext
	logger *slog.Logger
}

func newDeps(s store.Store, m *mapping.Profile, user UserContext, logger *slog.Logger) (deps, error) {
	if s == nil {
		return deps{}, ErrNilStore
	}
	if m == nil {
		return deps{}, ErrNilMapper
	}
	if user == nil {
		user = anonymous{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return deps{store: s, mapper: m, user: user, logger: logger}, nil
}

// reject logs a rejected operation and returns err unchanged.
func (d deps) reject(ctx context.Context, err error) error {
	var svcErr *Error
	if errors.As(err, &svcErr) && (errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict)) {
		d.logger.DebugContext(ctx, "operation rejected",
			"op", svcErr.Op,
			"entity", svcErr.Entity,
			"id", svcErr.ID,
			"field", svcErr.Field,
			"reason", svcErr.Message,
		)
	}
	return err
}
