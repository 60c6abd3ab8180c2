package entity

import "encoding/json"

// BalancesData is the "data" member of a balances_v2 response.
// Items stay raw so that one malformed entry does not spoil the rest.
type BalancesData struct {
	Items []json.RawMessage `json:"items"`
}

// BalanceItem is one token balance entry. Only the fields used for scoring are decoded,
// loosely, since the API mixes numbers, numeric strings and nulls.
type BalanceItem struct {
	ContractTickerSymbol any `json:"contract_ticker_symbol"`
	Quote                any `json:"quote"`
}

// APIError mirrors the error fields Covalent sends alongside an "errors" member.
type APIError struct {
	Error        bool   `json:"error"`
	ErrorMessage string `json:"error_message"`
	ErrorCode    int    `json:"error_code"`
}
