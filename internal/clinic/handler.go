package clinic

import (
	"encoding/json"
	"net/http"

	"github.com/blclinic/appointments/internal/schedule"
	"github.com/blclinic/appointments/pkg/logging"
)

// Handler exposes the shift configuration over HTTP for the front desk.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates the shift config handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// GetShift handles GET /api/clinic/shift.
func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift, err := h.store.Shift(r.Context())
	if err != nil {
		h.logger.Error("failed to load shift", "error", err)
		http.Error(w, "failed to load shift", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(shift)
}

// UpdateShift handles PUT /api/clinic/shift.
func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	var shift schedule.Shift
	if err := json.NewDecoder(r.Body).Decode(&shift); err != nil {
		http.Error(w, "invalid shift payload", http.StatusBadRequest)
		return
	}
	if err := h.store.SetShift(r.Context(), shift); err != nil {
		h.logger.Error("failed to save shift", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.logger.Info("clinic shift updated",
		"open_hour", shift.OpenHour,
		"close_hour", shift.CloseHour,
		"slot_minutes", shift.SlotMinutes,
	)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(shift)
}
