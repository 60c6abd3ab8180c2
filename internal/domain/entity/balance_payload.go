package entity

import "encoding/json"

// Top-level keys of a balance-data response.
const (
	PayloadDataKey   = "data"
	PayloadErrorsKey = "errors"
)

// BalancePayload is the raw balance-data response for one wallet, kept as an opaque
// mapping of top-level keys. It lives only while a single wallet is processed.
type BalancePayload struct {
	Fields map[string]json.RawMessage
}

// Has reports whether the top-level key is present, even with a null value.
func (p *BalancePayload) Has(key string) bool {
	if p == nil {
		return false
	}
	_, ok := p.Fields[key]
	return ok
}

// Data returns the raw "data" member.
func (p *BalancePayload) Data() (json.RawMessage, bool) {
	if p == nil {
		return nil, false
	}
	raw, ok := p.Fields[PayloadDataKey]
	return raw, ok
}
