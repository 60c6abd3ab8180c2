package service

import (
	"testing"

	"wallet_risk_scorer/internal/domain/entity"
	"wallet_risk_scorer/internal/domain/scoring"
	"wallet_risk_scorer/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestExtractTwoEqualHoldings(t *testing.T) {
	payload := payloadFromJSON(t, `{"data":{"items":[
		{"contract_ticker_symbol":"ETH","quote":500000.0},
		{"contract_ticker_symbol":"USDC","quote":500000.0}
	]}}`)

	got := NewFeatureExtractor(logger.NewDiscard()).Extract(payload)
	assert.Equal(t, entity.PortfolioFeatures{
		TotalUSD:               1_000_000,
		NumAssets:              2,
		LargestHoldingUSD:      500_000,
		PortfolioConcentration: 0.5,
	}, got)
}

func TestExtractSkipsUnusableItems(t *testing.T) {
	payload := payloadFromJSON(t, `{"data":{"items":[
		{"contract_ticker_symbol":"NULL","quote":null},
		{"contract_ticker_symbol":"TXT","quote":"abc"},
		{"contract_ticker_symbol":"NEG","quote":-5},
		{"contract_ticker_symbol":"ZERO","quote":0},
		{"contract_ticker_symbol":"FALSE","quote":false},
		{"contract_ticker_symbol":"OBJ","quote":{"usd":3}},
		{"contract_ticker_symbol":"NOQUOTE"},
		{"contract_ticker_symbol":"STR","quote":" 12.5 "},
		{"contract_ticker_symbol":42,"quote":7.5}
	]}}`)

	got := NewFeatureExtractor(logger.NewDiscard()).Extract(payload)
	assert.Equal(t, 20.0, got.TotalUSD)
	assert.Equal(t, 2, got.NumAssets)
	assert.Equal(t, 12.5, got.LargestHoldingUSD)
	assert.Equal(t, 0.625, got.PortfolioConcentration)
}

func TestExtractCountsTrueQuoteAsOneDollar(t *testing.T) {
	payload := payloadFromJSON(t, `{"data":{"items":[{"quote":true},{"quote":3}]}}`)

	got := NewFeatureExtractor(logger.NewDiscard()).Extract(payload)
	assert.Equal(t, entity.PortfolioFeatures{
		TotalUSD:               4,
		NumAssets:              2,
		LargestHoldingUSD:      3,
		PortfolioConcentration: 0.75,
	}, got)
}

func TestExtractNonObjectItemYieldsZeroFeatures(t *testing.T) {
	items := map[string]string{
		"string": `"junk"`,
		"number": `5`,
		"null":   `null`,
		"array":  `[500000]`,
	}

	extractor := NewFeatureExtractor(logger.NewDiscard())
	for name, item := range items {
		t.Run(name, func(t *testing.T) {
			payload := payloadFromJSON(t, `{"data":{"items":[{"quote":500000},{"quote":500000},`+item+`]}}`)
			got := extractor.Extract(payload)
			assert.Equal(t, entity.PortfolioFeatures{}, got)
			assert.Equal(t, 800, scoring.Score(got))
		})
	}
}

func TestExtractStructuralProblemsYieldZeroFeatures(t *testing.T) {
	bodies := map[string]string{
		"no data":         `{"error":false}`,
		"null data":       `{"data":null}`,
		"empty items":     `{"data":{"items":[]}}`,
		"missing items":   `{"data":{"address":"0x0"}}`,
		"data not object": `{"data":"oops"}`,
		"items not array": `{"data":{"items":{"quote":10}}}`,
		"only null quote": `{"data":{"items":[{"quote":null}]}}`,
	}

	extractor := NewFeatureExtractor(logger.NewDiscard())
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, entity.PortfolioFeatures{}, extractor.Extract(payloadFromJSON(t, body)))
		})
	}

	assert.Equal(t, entity.PortfolioFeatures{}, extractor.Extract(nil))
}

func TestExtractIsIdempotent(t *testing.T) {
	payload := payloadFromJSON(t, `{"data":{"items":[{"quote":3},{"quote":"7"},{"quote":90}]}}`)
	extractor := NewFeatureExtractor(logger.NewDiscard())

	first := extractor.Extract(payload)
	second := extractor.Extract(payload)
	assert.Equal(t, first, second)
	assert.Equal(t, 100.0, first.TotalUSD)
	assert.Equal(t, 3, first.NumAssets)
	assert.Equal(t, 0.9, first.PortfolioConcentration)
	assert.LessOrEqual(t, first.LargestHoldingUSD, first.TotalUSD)
}
