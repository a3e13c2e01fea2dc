package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/oddmarket/listing-notify/internal/api/respond"
	"github.com/oddmarket/listing-notify/internal/listing"
)

// RecordView increments the view counter for a listing and runs the
// view-milestone evaluation.
//
//	POST /api/v1/listings/{listingID}/events/view
func (h *Handler) RecordView(w http.ResponseWriter, r *http.Request) {
	listingID, ok := h.listingID(w, r)
	if !ok {
		return
	}

	views, err := h.store.IncrementCounter(r.Context(), listingID, listing.MetaViews)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "COUNTER_FAILED", "Failed to record view")
		return
	}

	sent := h.orch.MaybeSendViewMilestoneNotification(r.Context(), listingID)
	respond.WriteJSONObject(w, http.StatusAccepted, map[string]interface{}{
		"views": views,
		"sent":  sent,
	})
}

// RecordContactClick increments a contact channel counter and runs the
// contact-click evaluation. Channel is "phone" or "message".
//
//	POST /api/v1/listings/{listingID}/events/contact-click?channel=phone
func (h *Handler) RecordContactClick(w http.ResponseWriter, r *http.Request) {
	listingID, ok := h.listingID(w, r)
	if !ok {
		return
	}

	var key string
	switch r.URL.Query().Get("channel") {
	case "phone":
		key = listing.MetaClicksPhone
	case "message":
		key = listing.MetaClicksMessage
	default:
		respond.WriteError(w, http.StatusBadRequest, "INVALID_CHANNEL", "channel must be phone or message")
		return
	}

	clicks, err := h.store.IncrementCounter(r.Context(), listingID, key)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "COUNTER_FAILED", "Failed to record contact click")
		return
	}

	sent := h.orch.MaybeSendContactClickNotification(r.Context(), listingID)
	respond.WriteJSONObject(w, http.StatusAccepted, map[string]interface{}{
		"clicks": clicks,
		"sent":   sent,
	})
}

func (h *Handler) listingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "listingID"), 10, 64)
	if err != nil || id <= 0 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_LISTING_ID", "listingID must be a positive integer")
		return 0, false
	}
	return id, true
}
