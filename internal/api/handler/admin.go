package handler

import (
	"encoding/json"
	"net/http"

	"github.com/oddmarket/listing-notify/internal/api/respond"
)

// RunReminderScan runs one reminder scan immediately and returns the result.
// Safe to call on top of the cron schedule: the cadence gate makes repeat
// same-day runs no-ops.
//
//	POST /api/v1/admin/reminder-scan
func (h *Handler) RunReminderScan(w http.ResponseWriter, r *http.Request) {
	result := h.scanner.Run(r.Context())
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"found":   result.CandidatesFound,
		"gated":   result.Gated,
		"sent":    result.Sent,
		"skipped": result.Skipped,
		"errors":  result.Errors,
		"summary": result.Summary(),
	})
}

// TestSend delivers a test message to an arbitrary address to verify the
// SMTP path.
//
//	POST /api/v1/admin/test-send
//	{"to": "someone@example.org"}
func (h *Handler) TestSend(w http.ResponseWriter, r *http.Request) {
	var body struct {
		To string `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.To == "" {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Body must be JSON with a non-empty to address")
		return
	}

	err := h.sender.Send(r.Context(), body.To,
		"Listing Notify test message",
		"<p>This is a test message from the Listing Notify service.</p>",
		"This is a test message from the Listing Notify service.\n")
	if err != nil {
		respond.WriteError(w, http.StatusBadGateway, "SEND_FAILED", "Delivery failed: "+err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"sent": true})
}
