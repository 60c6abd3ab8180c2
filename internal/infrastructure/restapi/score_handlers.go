package restapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"wallet_risk_scorer/internal/app/port"
	"wallet_risk_scorer/internal/domain/entity"
	networkdefinition "wallet_risk_scorer/internal/infrastructure/network/definition"
	"wallet_risk_scorer/internal/infrastructure/walletloader"

	"github.com/gin-gonic/gin"
)

// APIErrorResponse is returned for every non-2xx answer.
type APIErrorResponse struct {
	Error   string   `json:"error"`
	Invalid []string `json:"invalid,omitempty"`
}

// APIScoreResponse is the response of the single-wallet endpoint.
type APIScoreResponse struct {
	Data          entity.WalletResult `json:"data"`
	StatusMessage string              `json:"status_message"`
}

// BatchScoreRequest is the body of the batch endpoint.
type BatchScoreRequest struct {
	Wallets []string `json:"wallets"`
}

// BatchSummary condenses a batch report.
type BatchSummary struct {
	Total       int     `json:"total"`
	Succeeded   int     `json:"succeeded"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
	DurationMs  int64   `json:"duration_ms"`
}

// APIBatchResponse is the response of the batch endpoint.
type APIBatchResponse struct {
	Data struct {
		Results  []entity.WalletResult  `json:"results"`
		Failures []entity.FailureRecord `json:"failures"`
	} `json:"data"`
	Summary       BatchSummary `json:"summary"`
	StatusMessage string       `json:"status_message"`
}

// ScoreHandler handles HTTP requests related to wallet risk scores.
type ScoreHandler struct {
	scoringService port.RiskScoringService
	chain          entity.ChainDefinition
	maxBatchSize   int
	logger         port.Logger
}

// NewScoreHandler creates a new instance of ScoreHandler.
func NewScoreHandler(ss port.RiskScoringService, chain entity.ChainDefinition, maxBatchSize int, logger port.Logger) *ScoreHandler {
	return &ScoreHandler{
		scoringService: ss,
		chain:          chain,
		maxBatchSize:   maxBatchSize,
		logger:         logger,
	}
}

// GetWalletScoreHandler scores a single wallet on demand.
func (h *ScoreHandler) GetWalletScoreHandler(c *gin.Context) {
	wallet := entity.NewWallet(c.Param("walletAddress"))
	if !walletloader.IsValidAddress(wallet.Address) {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "invalid wallet address", Invalid: []string{wallet.Address}})
		return
	}

	result, err := h.scoringService.ScoreWallet(c.Request.Context(), wallet)
	if err != nil {
		status := statusForScoreError(err)
		h.logger.Warn("Failed to score wallet", "wallet", wallet.Address, "status", status, "error", err)
		c.JSON(status, APIErrorResponse{Error: fmt.Sprintf("%s: %s", entity.FailureReasonFetch, wallet.Address)})
		return
	}

	c.JSON(http.StatusOK, APIScoreResponse{Data: result, StatusMessage: "Wallet scored successfully."})
}

// PostBatchScoresHandler scores a list of wallets with the batch runner.
func (h *ScoreHandler) PostBatchScoresHandler(c *gin.Context) {
	var req BatchScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	// Валидация адресов до запуска батча
	wallets, invalid := normalizeWallets(req.Wallets)
	if len(invalid) > 0 {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "invalid wallet addresses", Invalid: invalid})
		return
	}
	if len(wallets) == 0 {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "wallets must not be empty"})
		return
	}
	if h.maxBatchSize > 0 && len(wallets) > h.maxBatchSize {
		c.JSON(http.StatusBadRequest, APIErrorResponse{
			Error: fmt.Sprintf("too many wallets: %d, max %d", len(wallets), h.maxBatchSize),
		})
		return
	}

	// Отмена запроса клиентом останавливает батч
	report, err := h.scoringService.Run(c.Request.Context(), wallets)
	if err != nil {
		h.logger.Warn("Batch scoring interrupted", "requested", len(wallets), "error", err)
		c.JSON(http.StatusServiceUnavailable, APIErrorResponse{Error: "batch scoring interrupted: " + err.Error()})
		return
	}

	var resp APIBatchResponse
	resp.Data.Results = report.Results
	resp.Data.Failures = report.Failures
	resp.Summary = BatchSummary{
		Total:       len(report.Results),
		Succeeded:   report.Succeeded(),
		Failed:      len(report.Failures),
		SuccessRate: report.SuccessRate(),
		DurationMs:  report.Duration.Milliseconds(),
	}
	if len(report.Failures) > 0 {
		resp.StatusMessage = "Wallets scored. Some wallets could not be fetched and were scored 0."
	} else {
		resp.StatusMessage = "Wallets scored successfully."
	}
	c.JSON(http.StatusOK, resp)
}

// GetChainHandler returns the chain the scorer queries and whether it has a known definition.
func (h *ScoreHandler) GetChainHandler(c *gin.Context) {
	_, known := networkdefinition.Lookup(h.chain.ChainID)
	c.JSON(http.StatusOK, gin.H{"data": h.chain, "known": known})
}

// GetKnownChainsHandler lists every chain with a known definition.
func (h *ScoreHandler) GetKnownChainsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": networkdefinition.KnownChains()})
}

func statusForScoreError(err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func normalizeWallets(raw []string) ([]entity.Wallet, []string) {
	seen := make(map[string]struct{}, len(raw))
	wallets := make([]entity.Wallet, 0, len(raw))
	var invalid []string
	for _, addr := range raw {
		w := entity.NewWallet(addr)
		if w.Address == "" {
			continue
		}
		if !walletloader.IsValidAddress(w.Address) {
			invalid = append(invalid, addr)
			continue
		}
		if _, dup := seen[w.Address]; dup {
			continue
		}
		seen[w.Address] = struct{}{}
		wallets = append(wallets, w)
	}
	return wallets, invalid
}
