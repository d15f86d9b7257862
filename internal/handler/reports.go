package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/bmukendi/coopec-service/internal/models"
	"github.com/bmukendi/coopec-service/internal/utils"
)

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.NewValidationError(name, "must be an integer")
	}
	return v, nil
}

// feePct reads the fee_pct query parameter, falling back to the configured
// default.
func (h *Handler) feePct(r *http.Request) (decimal.Decimal, error) {
	raw := r.URL.Query().Get("fee_pct")
	if raw == "" {
		return h.svc.DefaultFeePct(), nil
	}
	pct, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, models.NewValidationError("fee_pct", "must be a number")
	}
	return pct, nil
}

func queryPeriod(r *http.Request) (utils.Period, error) {
	month, err := queryInt(r, "month")
	if err != nil {
		return utils.Period{}, err
	}
	year, err := queryInt(r, "year")
	if err != nil {
		return utils.Period{}, err
	}
	return utils.Period{Month: month, Year: year}, nil
}

// InterestReport returns computed interest per credit and per borrower
func (h *Handler) InterestReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.InterestReport()
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, report)
}

// ManagementFeeReport returns the derived management-fee pool
func (h *Handler) ManagementFeeReport(w http.ResponseWriter, r *http.Request) {
	pct, err := h.feePct(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	year, err := queryInt(r, "year")
	if err != nil {
		h.respondError(w, err)
		return
	}
	report, err := h.svc.ManagementFeeReport(pct, year)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, report)
}

// ContributionsReport returns member contributions over a period
func (h *Handler) ContributionsReport(w http.ResponseWriter, r *http.Request) {
	period, err := queryPeriod(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	report, err := h.svc.ContributionsReport(period)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, report)
}

// RedistributionReport returns the interest attribution per member
func (h *Handler) RedistributionReport(w http.ResponseWriter, r *http.Request) {
	period, err := queryPeriod(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	pct, err := h.feePct(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	report, err := h.svc.RedistributionReport(period, pct)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, report)
}
