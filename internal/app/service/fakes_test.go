package service

import (
	"context"
	stdjson "encoding/json"
	"sync"
	"testing"
	"time"

	"wallet_risk_scorer/internal/domain/entity"

	"github.com/stretchr/testify/require"
)

type clientResponse struct {
	payload *entity.BalancePayload
	err     error
}

// scriptedClient answers GetBalances from a per-wallet script; the last entry repeats.
type scriptedClient struct {
	mu      sync.Mutex
	scripts map[string][]clientResponse
	calls   map[string]int
}

func newScriptedClient() *scriptedClient {
	return &scriptedClient{scripts: map[string][]clientResponse{}, calls: map[string]int{}}
}

func (c *scriptedClient) on(wallet string, responses ...clientResponse) *scriptedClient {
	c.scripts[wallet] = responses
	return c
}

func (c *scriptedClient) GetBalances(ctx context.Context, chainID uint64, walletAddress string) (*entity.BalancePayload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.calls[walletAddress]
	c.calls[walletAddress] = n + 1

	script := c.scripts[walletAddress]
	if len(script) == 0 {
		return nil, &entity.FetchError{Kind: entity.FetchRetryable, StatusCode: 404}
	}
	if n >= len(script) {
		n = len(script) - 1
	}
	return script[n].payload, script[n].err
}

func (c *scriptedClient) callsFor(wallet string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[wallet]
}

// recordingSleeper records requested waits without waiting.
type recordingSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.waits = append(s.waits, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *recordingSleeper) recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.waits...)
}

func timeoutErr() error {
	return &entity.FetchError{Kind: entity.FetchRetryable, Timeout: true, Err: context.DeadlineExceeded}
}

func rateLimitedErr() error {
	return &entity.FetchError{Kind: entity.FetchRateLimited, StatusCode: 429}
}

func succeed(payload *entity.BalancePayload) clientResponse {
	return clientResponse{payload: payload}
}

func fail(err error) clientResponse {
	return clientResponse{err: err}
}

func emptyDataPayload() *entity.BalancePayload {
	return &entity.BalancePayload{Fields: map[string]stdjson.RawMessage{entity.PayloadDataKey: stdjson.RawMessage(`{"items":[]}`)}}
}

func payloadFromJSON(t *testing.T, body string) *entity.BalancePayload {
	t.Helper()
	p := &entity.BalancePayload{}
	require.NoError(t, json.Unmarshal([]byte(body), &p.Fields))
	return p
}
