package api

import (
	"net/http"

	"github.com/artpar/katla/internal/core/mapping"
	"github.com/artpar/katla/internal/core/validation"
	"github.com/artpar/katla/internal/shell/management"
)

// =============================================================================
// Product Handlers
// =============================================================================

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		h.writeServiceError(w, r, management.EntityProduct, err)
		return
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.writeValidationError(w, management.EntityProduct, "invalid product id")
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, management.EntityProduct, err)
		return
	}
	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req mapping.UpdateProductRequest
	if err := decode(r, &req); err != nil {
		h.writeValidationError(w, management.EntityProduct, "invalid JSON")
		return
	}
	if field, msg := validation.ValidateProductFields(req.Name, req.Code); field != "" {
		h.writeValidationError(w, management.EntityProduct, msg)
		return
	}

	product, err := h.products.CreateProduct(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, management.EntityProduct, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.writeValidationError(w, management.EntityProduct, "invalid product id")
		return
	}

	var req mapping.UpdateProductRequest
	if err := decode(r, &req); err != nil {
		h.writeValidationError(w, management.EntityProduct, "invalid JSON")
		return
	}
	if field, msg := validation.ValidateProductFields(req.Name, req.Code); field != "" {
		h.writeValidationError(w, management.EntityProduct, msg)
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, management.EntityProduct, err)
		return
	}
	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) handleSetProductStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.writeValidationError(w, management.EntityProduct, "invalid product id")
		return
	}
	deleted, ok := parseDeleted(r)
	if !ok {
		h.writeValidationError(w, management.EntityProduct, "deleted must be true or false")
		return
	}

	if err := h.products.SetProductStatus(r.Context(), id, deleted); err != nil {
		h.writeServiceError(w, r, management.EntityProduct, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.writeValidationError(w, management.EntityProduct, "invalid product id")
		return
	}

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		h.writeServiceError(w, r, management.EntityProduct, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
