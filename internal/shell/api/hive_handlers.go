package api

import (
	"net/http"

	"github.com/artpar/katla/internal/core/mapping"
	"github.com/artpar/katla/internal/core/validation"
	"github.com/artpar/katla/internal/shell/management"
)

// =============================================================================
// Hive Handlers
// =============================================================================

func (h *Handler) handleListHives(w http.ResponseWriter, r *http.Request) {
	hives, err := h.hives.ListHives(r.Context())
	if err != nil {
		h.writeServiceError(w, r, management.EntityHive, err)
		return
	}
	h.writeJSON(w, http.StatusOK, hives)
}

func (h *Handler) handleGetHive(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.writeValidationError(w, management.EntityHive, "invalid hive id")
		return
	}

	hive, err := h.hives.GetHive(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, management.EntityHive, err)
		return
	}
	h.writeJSON(w, http.StatusOK, hive)
}

func (h *Handler) handleListHiveSectionsOfHive(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.writeValidationError(w, management.EntityHive, "invalid hive id")
		return
	}

	sections, err := h.hives.ListHiveSections(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, management.EntityHive, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sections)
}

func (h *Handler) handleCreateHive(w http.ResponseWriter, r *http.Request) {
	var req mapping.UpdateHiveRequest
	if err := decode(r, &req); err != nil {
		h.writeValidationError(w, management.EntityHive, "invalid JSON")
		return
	}
	if field, msg := validation.ValidateHiveFields(req.Name, req.Code, req.Address); field != "" {
		h.writeValidationError(w, management.EntityHive, msg)
		return
	}

	hive, err := h.hives.CreateHive(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, management.EntityHive, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, hive)
}

func (h *Handler) handleUpdateHive(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.writeValidationError(w, management.EntityHive, "invalid hive id")
		return
	}

	var req mapping.UpdateHiveRequest
	if err := decode(r, &req); err != nil {
		h.writeValidationError(w, management.EntityHive, "invalid JSON")
		return
	}
	if field, msg := validation.ValidateHiveFields(req.Name, req.Code, req.Address); field != "" {
		h.writeValidationError(w, management.EntityHive, msg)
		return
	}

	hive, err := h.hives.UpdateHive(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, management.EntityHive, err)
		return
	}
	h.writeJSON(w, http.StatusOK, hive)
}

func (h *Handler) handleSetHiveStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.writeValidationError(w, management.EntityHive, "invalid hive id")
		return
	}
	deleted, ok := parseDeleted(r)
	if !ok {
		h.writeValidationError(w, management.EntityHive, "deleted must be true or false")
		return
	}

	if err := h.hives.SetHiveStatus(r.Context(), id, deleted); err != nil {
		h.writeServiceError(w, r, management.EntityHive, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteHive(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.writeValidationError(w, management.EntityHive, "invalid hive id")
		return
	}

	if err := h.hives.DeleteHive(r.Context(), id); err != nil {
		h.writeServiceError(w, r, management.EntityHive, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
