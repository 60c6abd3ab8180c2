package client

import (
	"context"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"wallet_risk_scorer/internal/app/port"
	"wallet_risk_scorer/internal/domain/entity"
	apitypes "wallet_risk_scorer/internal/entity"
	"wallet_risk_scorer/internal/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxLoggedBodyBytes = 512

// CovalentOptions configures the balance-data client.
type CovalentOptions struct {
	BaseURL            string
	APIKey             string
	UserAgent          string
	Timeout            time.Duration
	RateLimitPerSecond float64 // 0 disables the limiter
	BurstLimit         int
}

// covalentClientImpl is the implementation of port.BalanceClient over Covalent balances_v2.
type covalentClientImpl struct {
	client    *fasthttp.Client
	baseURL   string
	apiKey    string
	userAgent string
	timeout   time.Duration
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewCovalentClient creates a new instance of covalentClientImpl.
func NewCovalentClient(opts CovalentOptions, logger *zap.Logger) port.BalanceClient {
	var limiter *rate.Limiter
	if opts.RateLimitPerSecond > 0 {
		burst := opts.BurstLimit
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimitPerSecond), burst)
	}
	return &covalentClientImpl{
		client: &fasthttp.Client{
			Name:                opts.UserAgent,
			MaxIdleConnDuration: 30 * time.Second,
		},
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		apiKey:    opts.APIKey,
		userAgent: opts.UserAgent,
		timeout:   opts.Timeout,
		limiter:   limiter,
		logger:    logger.Named("CovalentClient"),
	}
}

// GetBalances implements port.BalanceClient. Exactly one HTTP request is made.
func (c *covalentClientImpl) GetBalances(ctx context.Context, chainID uint64, walletAddress string) (*entity.BalancePayload, error) {
	if walletAddress == "" {
		return nil, &entity.FetchError{Kind: entity.FetchFatal, Err: errors.New("wallet address cannot be empty")}
	}
	if err := ctx.Err(); err != nil {
		return nil, &entity.FetchError{Kind: entity.FetchFatal, Err: err}
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &entity.FetchError{Kind: entity.FetchFatal, Err: fmt.Errorf("rate limiter wait: %w", err)}
		}
	}

	path := fmt.Sprintf("%s/%d/address/%s/balances_v2/", c.baseURL, chainID, url.PathEscape(walletAddress))
	requestURL := path + "?key=" + url.QueryEscape(c.apiKey)

	c.logger.Debug("Requesting balances", zap.String("url", path), zap.String("wallet", walletAddress))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	start := time.Now()
	err := c.do(ctx, req, resp)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		timeout := errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, fasthttp.ErrDialTimeout)
		c.logger.Warn("Balance request failed", zap.String("url", path), zap.Bool("timeout", timeout), zap.Error(err))
		return nil, &entity.FetchError{Kind: entity.FetchRetryable, Timeout: timeout, Err: fmt.Errorf("request to %s: %w", path, err)}
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)

	if status == fasthttp.StatusTooManyRequests {
		c.logger.Warn("Balance request rate limited", zap.String("url", path))
		return nil, &entity.FetchError{Kind: entity.FetchRateLimited, StatusCode: status, Err: errors.New("rate limited")}
	}
	if status < 200 || status > 299 {
		c.logger.Error("Balance request failed with status",
			zap.String("url", path),
			zap.Int("statusCode", status),
			zap.ByteString("responseBody", truncate(body)))
		return nil, &entity.FetchError{Kind: entity.FetchRetryable, StatusCode: status, Err: fmt.Errorf("unexpected status: %s", truncate(body))}
	}

	var fields map[string]stdjson.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		c.logger.Error("Failed to decode balance response",
			zap.String("url", path),
			zap.ByteString("responseBody", truncate(body)),
			zap.Error(err))
		return nil, &entity.FetchError{Kind: entity.FetchRetryable, StatusCode: status, Err: fmt.Errorf("decode response: %w", err)}
	}

	payload := &entity.BalancePayload{Fields: fields}
	if payload.Has(entity.PayloadErrorsKey) {
		return nil, &entity.FetchError{Kind: entity.FetchRetryable, StatusCode: status, Err: fmt.Errorf("api returned errors: %s", describeAPIError(body))}
	}
	if !payload.Has(entity.PayloadDataKey) {
		return nil, &entity.FetchError{Kind: entity.FetchRetryable, StatusCode: status, Err: errors.New("response has no data")}
	}

	return payload, nil
}

// do sends the request, bounded by the client timeout and any earlier ctx deadline.
func (c *covalentClientImpl) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	deadline := time.Now().Add(c.timeout)
	if c.timeout <= 0 {
		if ctxDeadline, ok := ctx.Deadline(); ok {
			return c.client.DoDeadline(req, resp, ctxDeadline)
		}
		return c.client.Do(req, resp)
	}
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	return c.client.DoDeadline(req, resp, deadline)
}

func describeAPIError(body []byte) string {
	var apiErr apitypes.APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.ErrorMessage != "" {
		return fmt.Sprintf("%s (code %d)", apiErr.ErrorMessage, apiErr.ErrorCode)
	}
	return string(truncate(body))
}

func truncate(b []byte) []byte {
	if len(b) > maxLoggedBodyBytes {
		return b[:maxLoggedBodyBytes]
	}
	return b
}
