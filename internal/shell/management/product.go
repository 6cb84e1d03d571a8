package management

import (
	"context"
	"log/slog"

	"github.com/artpar/katla/internal/core/domain"
	"github.com/artpar/katla/internal/core/mapping"
	"github.com/artpar/katla/internal/core/validation"
	"github.com/artpar/katla/internal/shell/store"
)

// ProductService manages catalogue products.
type ProductService struct {
	deps
}

// NewProductService creates a catalogue product service.
func NewProductService(s store.Store, m *mapping.Profile, user UserContext, logger *slog.Logger) (*ProductService, error) {
	d, err := newDeps(s, m, user, logger)
	if err != nil {
		return nil, err
	}
	return &ProductService{deps: d}, nil
}

// ListProducts returns every product ordered by id.
func (s *ProductService) ListProducts(ctx context.Context) ([]mapping.ProductListItem, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, translate("ListProducts", EntityProduct, 0, err)
	}

	items := make([]mapping.ProductListItem, 0, len(products))
	for _, p := range products {
		items = append(items, s.mapper.ProductListItem(p))
	}
	return items, nil
}

// GetProduct returns the product with id.
func (s *ProductService) GetProduct(ctx context.Context, id int) (mapping.ProductDetails, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return mapping.ProductDetails{}, s.reject(ctx, translate("GetProduct", EntityProduct, id, err))
	}
	return s.mapper.ProductDetails(product), nil
}

// CreateProduct creates an active product with an unused code.
func (s *ProductService) CreateProduct(ctx context.Context, req mapping.UpdateProductRequest) (mapping.ProductDetails, error) {
	const op = "CreateProduct"

	var created domain.Product
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		exists, err := tx.ProductCodeExists(ctx, req.Code, 0)
		if err != nil {
			return err
		}
		if exists {
			return codeConflict(op, EntityProduct, 0, req.Code)
		}

		product := s.mapper.NewProduct(req, s.user.UserID(ctx))
		if err := tx.CreateProduct(ctx, &product); err != nil {
			return err
		}
		created = product
		return nil
	})
	if err != nil {
		return mapping.ProductDetails{}, s.reject(ctx, translate(op, EntityProduct, 0, err))
	}

	s.logger.InfoContext(ctx, "product created", "entity", EntityProduct, "id", created.ID, "code", created.Code)
	return s.mapper.ProductDetails(created), nil
}

// UpdateProduct replaces the name and code of product id.
func (s *ProductService) UpdateProduct(ctx context.Context, id int, req mapping.UpdateProductRequest) (mapping.ProductDetails, error) {
	const op = "UpdateProduct"

	var updated domain.Product
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetProduct(ctx, id)
		if err != nil {
			return err
		}

		exists, err := tx.ProductCodeExists(ctx, req.Code, id)
		if err != nil {
			return err
		}
		if exists {
			return codeConflict(op, EntityProduct, id, req.Code)
		}

		updated = s.mapper.UpdatedProduct(existing, req, s.user.UserID(ctx))
		return tx.ReplaceProduct(ctx, updated)
	})
	if err != nil {
		return mapping.ProductDetails{}, s.reject(ctx, translate(op, EntityProduct, id, err))
	}

	s.logger.InfoContext(ctx, "product updated", "entity", EntityProduct, "id", id, "code", updated.Code)
	return s.mapper.ProductDetails(updated), nil
}

// SetProductStatus sets the deleted flag of product id.
func (s *ProductService) SetProductStatus(ctx context.Context, id int, deleted bool) error {
	const op = "SetProductStatus"

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		return tx.ReplaceProduct(ctx, s.mapper.ProductWithStatus(existing, deleted, s.user.UserID(ctx)))
	})
	if err != nil {
		return s.reject(ctx, translate(op, EntityProduct, id, err))
	}

	s.logger.InfoContext(ctx, "product status set", "entity", EntityProduct, "id", id, "state", domain.StateOf(deleted))
	return nil
}

// DeleteProduct purges product id. The product must be soft-deleted.
func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	const op = "DeleteProduct"

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		if allowed, reason := validation.CanPurge(existing.IsDeleted); !allowed {
			return conflict(op, EntityProduct, id, FieldStatus, reason)
		}
		return tx.DeleteProduct(ctx, id)
	})
	if err != nil {
		return s.reject(ctx, translate(op, EntityProduct, id, err))
	}

	s.logger.InfoContext(ctx, "product purged", "entity", EntityProduct, "id", id)
	return nil
}
