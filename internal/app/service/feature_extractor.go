package service

import (
	"bytes"
	stdjson "encoding/json"
	"math"
	"strconv"
	"strings"

	"wallet_risk_scorer/internal/app/port"
	"wallet_risk_scorer/internal/domain/entity"
	apitypes "wallet_risk_scorer/internal/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FeatureExtractorImpl implements port.FeatureExtractor for balances_v2 payloads.
type FeatureExtractorImpl struct {
	logger port.Logger
}

// NewFeatureExtractor creates a new instance of FeatureExtractorImpl.
func NewFeatureExtractor(l port.Logger) port.FeatureExtractor {
	return &FeatureExtractorImpl{logger: l}
}

// Extract derives portfolio features from payload. Items without a positive, parseable quote
// are ignored. A payload whose shape cannot be read, including an item that is not an object,
// yields zero features.
func (e *FeatureExtractorImpl) Extract(payload *entity.BalancePayload) entity.PortfolioFeatures {
	var features entity.PortfolioFeatures

	raw, ok := payload.Data()
	if !ok || len(raw) == 0 {
		return features
	}

	var data apitypes.BalancesData
	if err := json.Unmarshal(raw, &data); err != nil {
		e.logger.Warn("Unreadable balance data, using empty features", "error", err)
		return features
	}

	for i, rawItem := range data.Items {
		if !isJSONObject(rawItem) {
			e.logger.Warn("Balance item is not an object, using empty features", "index", i)
			return entity.PortfolioFeatures{}
		}
		var item apitypes.BalanceItem
		if err := json.Unmarshal(rawItem, &item); err != nil {
			e.logger.Warn("Unreadable balance item, using empty features", "index", i, "error", err)
			return entity.PortfolioFeatures{}
		}

		quote, ok := parseQuote(item.Quote)
		if !ok || quote <= 0 {
			continue
		}
		e.logger.Debug("Valued holding", "symbol", item.ContractTickerSymbol, "quote", quote)

		features.TotalUSD += quote
		features.NumAssets++
		if quote > features.LargestHoldingUSD {
			features.LargestHoldingUSD = quote
		}
	}

	if features.TotalUSD > 0 {
		features.PortfolioConcentration = features.LargestHoldingUSD / features.TotalUSD
	}
	return features
}

func isJSONObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// parseQuote accepts JSON numbers, numeric strings and booleans (true is 1).
// Null, other types and non-finite values are rejected.
func parseQuote(v any) (float64, bool) {
	var f float64
	switch q := v.(type) {
	case float64:
		f = q
	case bool:
		if q {
			f = 1
		}
	case stdjson.Number:
		parsed, err := q.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(q), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
