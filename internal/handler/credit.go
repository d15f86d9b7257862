package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmukendi/coopec-service/internal/models"
	"github.com/bmukendi/coopec-service/internal/service"
)

type grantRequest struct {
	MemberID     *int64           `json:"member_id"`
	ClientID     *int64           `json:"client_id"`
	WalletID     int64            `json:"wallet_id"`
	Principal    decimal.Decimal  `json:"principal"`
	RatePct      *decimal.Decimal `json:"rate_pct"`
	Duration     int              `json:"duration"`
	DurationUnit string           `json:"duration_unit"`
	Method       string           `json:"interest_method"`
	GrantDate    string           `json:"grant_date"`
}

// resolveRate fills in the lending rate when the request omits it. The
// key-rate suggestion is the default; without a configured source the
// caller has to be explicit.
func (h *Handler) resolveRate(requested *decimal.Decimal) (decimal.Decimal, error) {
	if requested != nil {
		return *requested, nil
	}
	if h.rates == nil {
		return decimal.Zero, models.NewValidationError("rate_pct", "rate_pct is required")
	}
	suggested, err := h.rates.SuggestedRate()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch suggested rate: %w", err)
	}
	return decimal.NewFromFloat(suggested), nil
}

// GrantCredit disburses a new credit
func (h *Handler) GrantCredit(w http.ResponseWriter, r *http.Request) {
	var req grantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, models.NewValidationError("", "invalid request body"))
		return
	}

	ratePct, err := h.resolveRate(req.RatePct)
	if err != nil {
		h.respondError(w, err)
		return
	}

	in := service.GrantInput{
		MemberID:     req.MemberID,
		ClientID:     req.ClientID,
		WalletID:     req.WalletID,
		Principal:    req.Principal,
		RatePct:      ratePct,
		Duration:     req.Duration,
		DurationUnit: models.DurationUnit(req.DurationUnit),
		Method:       models.InterestMethod(req.Method),
	}
	if req.GrantDate != "" {
		grantDate, err := time.Parse("2006-01-02", req.GrantDate)
		if err != nil {
			h.respondError(w, models.NewValidationError("grant_date", "must be formatted YYYY-MM-DD"))
			return
		}
		in.GrantDate = grantDate
	}

	credit, err := h.svc.GrantCredit(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, credit)
}

// ListCredits returns every credit
func (h *Handler) ListCredits(w http.ResponseWriter, r *http.Request) {
	credits, err := h.svc.ListCredits()
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, credits)
}

// GetCredit returns one credit by ID
func (h *Handler) GetCredit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	credit, err := h.svc.FindCredit(id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, credit)
}

type repayRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	SettlementDate string          `json:"settlement_date"`
	WalletID       int64           `json:"wallet_id"`
}

// Repay records a repayment on a credit
func (h *Handler) Repay(w http.ResponseWriter, r *http.Request) {
	creditID, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req repayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, models.NewValidationError("", "invalid request body"))
		return
	}
	settlement := time.Now()
	if req.SettlementDate != "" {
		settlement, err = time.Parse("2006-01-02", req.SettlementDate)
		if err != nil {
			h.respondError(w, models.NewValidationError("settlement_date", "must be formatted YYYY-MM-DD"))
			return
		}
	}

	repayment, err := h.svc.Repay(r.Context(), creditID, req.Amount, settlement, req.WalletID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, repayment)
}

// MemberScore returns a member's borrower score rollup
func (h *Handler) MemberScore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	score, err := h.svc.MemberScore(id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, score)
}

// ClientScore returns a client's borrower score rollup
func (h *Handler) ClientScore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	score, err := h.svc.ClientScore(id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, score)
}
