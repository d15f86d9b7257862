package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmukendi/coopec-service/internal/models"
)

func testHandler() *Handler {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewHandler(nil, nil, log)
}

func TestRespondError_StatusMapping(t *testing.T) {
	t.Parallel()

	h := testHandler()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation error", models.NewValidationError("amount", "must be positive"), http.StatusBadRequest},
		{"business rule", models.NewBusinessRuleError("over_repayment", decimal.Zero, "too much"), http.StatusUnprocessableEntity},
		{"missing record", fmt.Errorf("credit 9 not found"), http.StatusNotFound},
		{"anything else", fmt.Errorf("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.respondError(rec, tt.err)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRespondError_BusinessRulePayload(t *testing.T) {
	t.Parallel()

	h := testHandler()
	rec := httptest.NewRecorder()
	h.respondError(rec, models.NewBusinessRuleError("wallet_floor", decimal.RequireFromString("999.5"), "too much"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "wallet_floor", body["rule"])
	assert.Equal(t, "999.5", fmt.Sprintf("%v", body["max"]))
}

func TestPathID(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/credits/42", nil)
	r = mux.SetURLVars(r, map[string]string{"id": "42"})
	id, err := pathID(r, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3"} {
		r := httptest.NewRequest("GET", "/credits/x", nil)
		r = mux.SetURLVars(r, map[string]string{"id": raw})
		_, err := pathID(r, "id")
		assert.Error(t, err, "id %q should be rejected", raw)
	}
}
