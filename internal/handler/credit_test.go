package handler

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmukendi/coopec-service/internal/models"
)

type stubRateSource struct {
	rate float64
	err  error
}

func (s stubRateSource) SuggestedRate() (float64, error) {
	return s.rate, s.err
}

func handlerWithRates(rates RateSource) *Handler {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewHandler(nil, rates, log)
}

func TestResolveRate_ExplicitWins(t *testing.T) {
	t.Parallel()

	h := handlerWithRates(stubRateSource{rate: 25})
	requested := decimal.RequireFromString("12.5")

	rate, err := h.resolveRate(&requested)
	require.NoError(t, err)
	assert.True(t, rate.Equal(requested), "rate %s", rate)
}

func TestResolveRate_DefaultsToSuggestion(t *testing.T) {
	t.Parallel()

	h := handlerWithRates(stubRateSource{rate: 25})

	rate, err := h.resolveRate(nil)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(25)), "rate %s", rate)
}

func TestResolveRate_NoSource(t *testing.T) {
	t.Parallel()

	h := handlerWithRates(nil)

	_, err := h.resolveRate(nil)
	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestResolveRate_SourceFailure(t *testing.T) {
	t.Parallel()

	h := handlerWithRates(stubRateSource{err: fmt.Errorf("soap fault")})

	_, err := h.resolveRate(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "suggested rate")
}
