package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/oddmarket/listing-notify/internal/api/respond"
)

// GetPrefs returns the owner's notification toggles. Absent toggles read as
// enabled.
//
//	GET /api/v1/owners/{ownerID}/prefs
func (h *Handler) GetPrefs(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]bool{
		"activity": h.prefs.ActivityEnabled(r.Context(), ownerID),
		"reminder": h.prefs.ReminderEnabled(r.Context(), ownerID),
	})
}

// PutPrefs updates one or both toggles. Omitted fields are left unchanged.
//
//	PUT /api/v1/owners/{ownerID}/prefs
//	{"activity": false, "reminder": true}
func (h *Handler) PutPrefs(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	var body struct {
		Activity *bool `json:"activity"`
		Reminder *bool `json:"reminder"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Body must be JSON with activity and/or reminder booleans")
		return
	}
	if body.Activity == nil && body.Reminder == nil {
		respond.WriteError(w, http.StatusBadRequest, "EMPTY_UPDATE", "At least one of activity or reminder is required")
		return
	}

	if body.Activity != nil {
		if err := h.prefs.SetActivityEnabled(r.Context(), ownerID, *body.Activity); err != nil {
			respond.WriteError(w, http.StatusInternalServerError, "PREF_WRITE_FAILED", "Failed to save activity preference")
			return
		}
	}
	if body.Reminder != nil {
		if err := h.prefs.SetReminderEnabled(r.Context(), ownerID, *body.Reminder); err != nil {
			respond.WriteError(w, http.StatusInternalServerError, "PREF_WRITE_FAILED", "Failed to save reminder preference")
			return
		}
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]bool{
		"activity": h.prefs.ActivityEnabled(r.Context(), ownerID),
		"reminder": h.prefs.ReminderEnabled(r.Context(), ownerID),
	})
}

func (h *Handler) ownerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "ownerID"), 10, 64)
	if err != nil || id <= 0 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_OWNER_ID", "ownerID must be a positive integer")
		return 0, false
	}
	return id, true
}
