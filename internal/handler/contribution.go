package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmukendi/coopec-service/internal/models"
)

// contributionRequest covers the share payment and savings deposit bodies:
// both attach an amount to a subscription for a named month.
type contributionRequest struct {
	SubscriptionID int64           `json:"subscription_id"`
	Amount         decimal.Decimal `json:"amount"`
	Month          int             `json:"month"`
	WalletID       int64           `json:"wallet_id"`
	Date           string          `json:"date"`
}

func parseOperationDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, models.NewValidationError("date", "must be formatted YYYY-MM-DD")
	}
	return t, nil
}

// RecordSharePayment records a payment toward a share subscription
func (h *Handler) RecordSharePayment(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, models.NewValidationError("", "invalid request body"))
		return
	}
	date, err := parseOperationDate(req.Date)
	if err != nil {
		h.respondError(w, err)
		return
	}
	payment, err := h.svc.RecordSharePayment(r.Context(), req.SubscriptionID, req.Amount, req.Month, req.WalletID, date)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, payment)
}

// RecordSavingsDeposit records a deposit on a savings subscription
func (h *Handler) RecordSavingsDeposit(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, models.NewValidationError("", "invalid request body"))
		return
	}
	date, err := parseOperationDate(req.Date)
	if err != nil {
		h.respondError(w, err)
		return
	}
	deposit, err := h.svc.RecordSavingsDeposit(r.Context(), req.SubscriptionID, req.Amount, req.Month, req.WalletID, date)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, deposit)
}

// RecordSavingsWithdrawal takes money out of a savings subscription
func (h *Handler) RecordSavingsWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubscriptionID int64           `json:"subscription_id"`
		Amount         decimal.Decimal `json:"amount"`
		WalletID       int64           `json:"wallet_id"`
		Date           string          `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, models.NewValidationError("", "invalid request body"))
		return
	}
	date, err := parseOperationDate(req.Date)
	if err != nil {
		h.respondError(w, err)
		return
	}
	withdrawal, err := h.svc.RecordSavingsWithdrawal(r.Context(), req.SubscriptionID, req.Amount, req.WalletID, date)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, withdrawal)
}

// RecordMembershipFee records a member's joining fee
func (h *Handler) RecordMembershipFee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID int64           `json:"member_id"`
		Amount   decimal.Decimal `json:"amount"`
		WalletID int64           `json:"wallet_id"`
		Date     string          `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, models.NewValidationError("", "invalid request body"))
		return
	}
	date, err := parseOperationDate(req.Date)
	if err != nil {
		h.respondError(w, err)
		return
	}
	fee, err := h.svc.RecordMembershipFee(r.Context(), req.MemberID, req.Amount, req.WalletID, date)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, fee)
}

// RecordExpense records an operating cost financed from the fee pool
func (h *Handler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label     string          `json:"label"`
		Unit      string          `json:"unit"`
		Quantity  decimal.Decimal `json:"quantity"`
		UnitPrice decimal.Decimal `json:"unit_price"`
		WalletID  int64           `json:"wallet_id"`
		Date      string          `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, models.NewValidationError("", "invalid request body"))
		return
	}
	date, err := parseOperationDate(req.Date)
	if err != nil {
		h.respondError(w, err)
		return
	}
	expense, err := h.svc.RecordExpense(r.Context(), req.Label, req.Unit, req.Quantity, req.UnitPrice, req.WalletID, date)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, expense)
}

// RecordDonation records a direct gift to the cooperative
func (h *Handler) RecordDonation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount    decimal.Decimal `json:"amount"`
		DonorName string          `json:"donor_name"`
		Label     string          `json:"label"`
		WalletID  int64           `json:"wallet_id"`
		Date      string          `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, models.NewValidationError("", "invalid request body"))
		return
	}
	date, err := parseOperationDate(req.Date)
	if err != nil {
		h.respondError(w, err)
		return
	}
	donation, err := h.svc.RecordDonation(r.Context(), req.Amount, req.DonorName, req.Label, req.WalletID, date)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, donation)
}
