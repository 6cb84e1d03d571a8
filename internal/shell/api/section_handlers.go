package api

import (
	"net/http"
	"strconv"

	"github.com/artpar/katla/internal/core/mapping"
	"github.com/artpar/katla/internal/core/validation"
	"github.com/artpar/katla/internal/shell/management"
)

// =============================================================================
// Hive Section Handlers
// =============================================================================

func (h *Handler) handleListHiveSections(w http.ResponseWriter, r *http.Request) {
	var hiveID *int
	if raw := r.URL.Query().Get("hive_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			h.writeValidationError(w, management.EntityHiveSection, "hive_id must be an integer")
			return
		}
		hiveID = &id
	}

	sections, err := h.sections.ListHiveSections(r.Context(), hiveID)
	if err != nil {
		h.writeServiceError(w, r, management.EntityHiveSection, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sections)
}

func (h *Handler) handleGetHiveSection(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.writeValidationError(w, management.EntityHiveSection, "invalid hive section id")
		return
	}

	section, err := h.sections.GetHiveSection(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, management.EntityHiveSection, err)
		return
	}
	h.writeJSON(w, http.StatusOK, section)
}

func (h *Handler) handleCreateHiveSection(w http.ResponseWriter, r *http.Request) {
	var req mapping.UpdateHiveSectionRequest
	if err := decode(r, &req); err != nil {
		h.writeValidationError(w, management.EntityHiveSection, "invalid JSON")
		return
	}
	if field, msg := validation.ValidateHiveSectionFields(req.Name, req.Code, req.HiveID); field != "" {
		h.writeValidationError(w, management.EntityHiveSection, msg)
		return
	}

	section, err := h.sections.CreateHiveSection(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, management.EntityHiveSection, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, section)
}

func (h *Handler) handleUpdateHiveSection(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.writeValidationError(w, management.EntityHiveSection, "invalid hive section id")
		return
	}

	var req mapping.UpdateHiveSectionRequest
	if err := decode(r, &req); err != nil {
		h.writeValidationError(w, management.EntityHiveSection, "invalid JSON")
		return
	}
	if field, msg := validation.ValidateHiveSectionFields(req.Name, req.Code, req.HiveID); field != "" {
		h.writeValidationError(w, management.EntityHiveSection, msg)
		return
	}

	section, err := h.sections.UpdateHiveSection(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, management.EntityHiveSection, err)
		return
	}
	h.writeJSON(w, http.StatusOK, section)
}

func (h *Handler) handleSetHiveSectionStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.writeValidationError(w, management.EntityHiveSection, "invalid hive section id")
		return
	}
	deleted, ok := parseDeleted(r)
	if !ok {
		h.writeValidationError(w, management.EntityHiveSection, "deleted must be true or false")
		return
	}

	if err := h.sections.SetHiveSectionStatus(r.Context(), id, deleted); err != nil {
		h.writeServiceError(w, r, management.EntityHiveSection, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteHiveSection(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.writeValidationError(w, management.EntityHiveSection, "invalid hive section id")
		return
	}

	if err := h.sections.DeleteHiveSection(r.Context(), id); err != nil {
		h.writeServiceError(w, r, management.EntityHiveSection, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
