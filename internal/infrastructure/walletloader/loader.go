package walletloader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"wallet_risk_scorer/internal/app/port"
	"wallet_risk_scorer/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// WalletColumn is the required header of the input CSV.
const WalletColumn = "wallet_id"

// ErrNoWallets is returned when the input holds no usable address.
var ErrNoWallets = errors.New("no valid wallet addresses found")

// WalletCSVLoader implements the port.WalletProvider interface by loading wallets from a CSV file.
type WalletCSVLoader struct {
	filePath string
	logger   port.Logger
}

// NewWalletCSVLoader creates a new WalletCSVLoader.
func NewWalletCSVLoader(filePath string, logger port.Logger) port.WalletProvider {
	return &WalletCSVLoader{
		filePath: filePath,
		logger:   logger,
	}
}

// GetWallets reads the wallet_id column of the configured file.
func (l *WalletCSVLoader) GetWallets() ([]entity.Wallet, error) {
	file, err := os.Open(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet file %s: %w", l.filePath, err)
	}
	defer file.Close()

	wallets, err := l.read(file)
	if err != nil {
		return nil, fmt.Errorf("wallet file %s: %w", l.filePath, err)
	}

	l.logger.Info("Wallets loaded successfully from file", "count", len(wallets), "path", l.filePath)
	return wallets, nil
}

// IsValidAddress reports whether address is a 0x-prefixed 20-byte hex address.
func IsValidAddress(address string) bool {
	return strings.HasPrefix(address, "0x") && common.IsHexAddress(address)
}

func (l *WalletCSVLoader) read(r io.Reader) ([]entity.Wallet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header: %w", ErrNoWallets)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	column := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")), WalletColumn) {
			column = i
			break
		}
	}
	if column < 0 {
		return nil, fmt.Errorf("CSV file must contain a '%s' column", WalletColumn)
	}

	seen := make(map[string]struct{})
	var wallets []entity.Wallet
	lineNum := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		lineNum++
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", lineNum, err)
		}
		if column >= len(record) {
			continue
		}

		wallet := entity.NewWallet(record[column])
		if wallet.Address == "" {
			continue
		}
		if !IsValidAddress(wallet.Address) {
			l.logger.Warn("Skipping invalid wallet address format", "path", l.filePath, "line_number", lineNum, "address", wallet.Address)
			continue
		}
		if _, dup := seen[wallet.Address]; dup {
			continue
		}
		seen[wallet.Address] = struct{}{}
		wallets = append(wallets, wallet)
	}

	if len(wallets) == 0 {
		return nil, ErrNoWallets
	}
	return wallets, nil
}
