package resultwriter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"wallet_risk_scorer/internal/app/port"
	"wallet_risk_scorer/internal/domain/entity"
	"wallet_risk_scorer/internal/pkg/utils"
)

var (
	// FullHeader is the header of the full results artifact.
	FullHeader = []string{
		"wallet_id", "score", "total_usd", "num_assets",
		"largest_holding_usd", "portfolio_concentration", "risk_band", "status",
	}
	// FinalHeader is the header of the two-column artifact.
	FinalHeader = []string{"wallet_id", "score"}
)

// CSVResultWriter implements port.ResultWriter with flat CSV files.
type CSVResultWriter struct {
	outputPath string
	finalPath  string
	now        func() time.Time
	logger     port.Logger
}

// NewCSVResultWriter creates a new CSVResultWriter.
func NewCSVResultWriter(outputPath, finalPath string, logger port.Logger) *CSVResultWriter {
	return &CSVResultWriter{
		outputPath: outputPath,
		finalPath:  finalPath,
		now:        time.Now,
		logger:     logger,
	}
}

// BackupExisting renames an existing full results file to <file>.backup_<timestamp>.
func (w *CSVResultWriter) BackupExisting() (string, error) {
	if !utils.FileExists(w.outputPath) {
		return "", nil
	}
	backup := utils.SuffixedPath(w.outputPath, "backup", w.now())
	if err := os.Rename(w.outputPath, backup); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", w.outputPath, err)
	}
	w.logger.Info("Created backup of existing output file", "backup", backup)
	return backup, nil
}

// WriteResults writes both the full and the final artifact.
func (w *CSVResultWriter) WriteResults(report *entity.BatchReport) error {
	if err := writeCSV(w.outputPath, FullHeader, fullRows(report.Results)); err != nil {
		return err
	}
	w.logger.Info("Results saved", "path", w.outputPath, "rows", len(report.Results))

	if err := writeCSV(w.finalPath, FinalHeader, finalRows(report.Results)); err != nil {
		return err
	}
	w.logger.Info("Final results (wallet_id and score only) saved", "path", w.finalPath)
	return nil
}

// WritePartial dumps whatever results the report holds next to the full results file.
func (w *CSVResultWriter) WritePartial(report *entity.BatchReport) (string, error) {
	path := utils.SuffixedPath(w.outputPath, "partial", w.now())
	if err := writeCSV(path, FullHeader, fullRows(report.Results)); err != nil {
		return "", err
	}
	w.logger.Info("Partial results saved", "path", path, "rows", len(report.Results))
	return path, nil
}

func fullRows(results []entity.WalletResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Wallet,
			strconv.Itoa(r.Score),
			strconv.FormatFloat(r.Features.TotalUSD, 'f', 2, 64),
			strconv.Itoa(r.Features.NumAssets),
			strconv.FormatFloat(r.Features.LargestHoldingUSD, 'f', 2, 64),
			strconv.FormatFloat(r.Features.PortfolioConcentration, 'f', 4, 64),
			r.RiskBand,
			string(r.Status),
		})
	}
	return rows
}

func finalRows(results []entity.WalletResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Wallet, strconv.Itoa(r.Score)})
	}
	return rows
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	cw := csv.NewWriter(file)
	if err := cw.Write(header); err != nil {
		file.Close()
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	if err := cw.WriteAll(rows); err != nil {
		file.Close()
		return fmt.Errorf("failed to write rows to %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
