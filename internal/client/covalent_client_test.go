package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"wallet_risk_scorer/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testWallet = "0x4838b106fce9647bdf1e7877bf73ce8b0bad5f97"

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *covalentClientImpl {
	t.Helper()
	return newTestClientWithOptions(t, handler, CovalentOptions{Timeout: timeout})
}

func newTestClientWithOptions(t *testing.T, handler http.HandlerFunc, opts CovalentOptions) *covalentClientImpl {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts.BaseURL = srv.URL + "/v1/"
	opts.APIKey = "secret"
	opts.UserAgent = "WalletRiskScorer/1.0"
	c := NewCovalentClient(opts, zap.NewNop())
	return c.(*covalentClientImpl)
}

func TestGetBalancesSuccess(t *testing.T) {
	var gotPath, gotKey, gotUA string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"items":[{"quote":12.5}]},"error":false}`))
	}, time.Second)

	payload, err := c.GetBalances(context.Background(), 1, testWallet)
	require.NoError(t, err)

	assert.Equal(t, "/v1/1/address/"+testWallet+"/balances_v2/", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "WalletRiskScorer/1.0", gotUA)
	assert.False(t, payload.Has(entity.PayloadErrorsKey))
	data, ok := payload.Data()
	require.True(t, ok)
	assert.JSONEq(t, `{"items":[{"quote":12.5}]}`, string(data))
}

func TestGetBalancesClassifiesFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   entity.FetchErrorKind
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`, kind: entity.FetchRateLimited},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, kind: entity.FetchRetryable},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":true}`, kind: entity.FetchRetryable},
		{name: "errors key", status: http.StatusOK, body: `{"data":{},"errors":["bad"],"error_message":"bad","error_code":400}`, kind: entity.FetchRetryable},
		{name: "missing data", status: http.StatusOK, body: `{"error":false}`, kind: entity.FetchRetryable},
		{name: "null body", status: http.StatusOK, body: `null`, kind: entity.FetchRetryable},
		{name: "malformed body", status: http.StatusOK, body: `{"data":`, kind: entity.FetchRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, time.Second)

			payload, err := c.GetBalances(context.Background(), 1, testWallet)
			require.Error(t, err)
			assert.Nil(t, payload)
			assert.Equal(t, tt.kind, entity.FetchErrorKindOf(err))
		})
	}
}

func TestGetBalancesTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{"data":{}}`))
	}, 50*time.Millisecond)

	_, err := c.GetBalances(context.Background(), 1, testWallet)
	require.Error(t, err)

	var fe *entity.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, entity.FetchRetryable, fe.Kind)
	assert.True(t, fe.Timeout)
}

func TestGetBalancesCancelledContext(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetBalances(ctx, 1, testWallet)
	require.Error(t, err)
	assert.Equal(t, entity.FetchFatal, entity.FetchErrorKindOf(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestGetBalancesEmptyAddress(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, time.Second)

	_, err := c.GetBalances(context.Background(), 1, "")
	assert.Equal(t, entity.FetchFatal, entity.FetchErrorKindOf(err))
}

func TestGetBalancesRateLimiterSpacesRequests(t *testing.T) {
	var calls atomic.Int32
	c := newTestClientWithOptions(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"data":{"items":[]}}`))
	}, CovalentOptions{Timeout: time.Second, RateLimitPerSecond: 10, BurstLimit: 1})
	require.NotNil(t, c.limiter)

	start := time.Now()
	for range 3 {
		_, err := c.GetBalances(context.Background(), 1, testWallet)
		require.NoError(t, err)
	}

	// burst 1 at 10/s: the 2nd and 3rd requests each wait ~100ms
	assert.GreaterOrEqual(t, time.Since(start), 180*time.Millisecond)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetBalancesRateLimiterWaitExceedsDeadline(t *testing.T) {
	var calls atomic.Int32
	c := newTestClientWithOptions(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"data":{"items":[]}}`))
	}, CovalentOptions{Timeout: time.Second, RateLimitPerSecond: 0.01, BurstLimit: 1})

	_, err := c.GetBalances(context.Background(), 1, testWallet)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = c.GetBalances(ctx, 1, testWallet)
	require.Error(t, err)
	assert.Equal(t, entity.FetchFatal, entity.FetchErrorKindOf(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewCovalentClientWithoutRateLimit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, time.Second)
	assert.Nil(t, c.limiter)
}
