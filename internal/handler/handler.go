package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/bmukendi/coopec-service/internal/models"
	"github.com/bmukendi/coopec-service/internal/service"
)

// RateSource supplies the cooperative's suggested lending rate, normally
// derived from the central bank key rate.
type RateSource interface {
	SuggestedRate() (float64, error)
}

type Handler struct {
	svc   *service.Service
	rates RateSource
	log   *logrus.Logger
}

func NewHandler(svc *service.Service, rates RateSource, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, rates: rates, log: log}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			h.log.Errorf("Failed to encode response: %v", err)
		}
	}
}

// respondError maps domain errors onto HTTP statuses: malformed input is a
// 400, a rejected business rule is a 422 carrying the allowed maximum,
// missing records are a 404, anything else a 500.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var validation *models.ValidationError
	if errors.As(err, &validation) {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": validation.Error()})
		return
	}
	var rule *models.BusinessRuleError
	if errors.As(err, &rule) {
		h.respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": rule.Error(),
			"rule":  rule.Rule,
			"max":   rule.Max,
		})
		return
	}
	if strings.Contains(err.Error(), "not found") {
		h.respondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	h.log.Errorf("Internal error: %v", err)
	h.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

// pathID extracts a numeric path variable.
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}

// Register creates an operator account
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, models.NewValidationError("", "invalid request body"))
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		h.respondError(w, models.NewValidationError("", "username, email and password are required"))
		return
	}
	user, err := h.svc.Register(req.Username, req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, user)
}

// Login authenticates an operator and returns a JWT
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, models.NewValidationError("", "invalid request body"))
		return
	}
	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		h.respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"token": token})
}
