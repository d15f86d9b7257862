package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bmukendi/coopec-service/internal/models"
)

// CreateWalletType registers a new wallet
func (h *Handler) CreateWalletType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, models.NewValidationError("", "invalid request body"))
		return
	}
	wallet, err := h.svc.CreateWalletType(req.Name, req.Description)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, wallet)
}

// ListWalletTypes returns every wallet
func (h *Handler) ListWalletTypes(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.svc.ListWalletTypes()
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, wallets)
}

// WalletBalance recomputes a wallet's balance, optionally bounded by
// from/to dates (YYYY-MM-DD).
func (h *Handler) WalletBalance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	from, err := optionalDate(r, "from")
	if err != nil {
		h.respondError(w, err)
		return
	}
	to, err := optionalDate(r, "to")
	if err != nil {
		h.respondError(w, err)
		return
	}

	balance, err := h.svc.WalletBalance(id, from, to)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, balance)
}

func optionalDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, models.NewValidationError(name, "must be formatted YYYY-MM-DD")
	}
	return &t, nil
}
