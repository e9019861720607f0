// Package export renders reconciliation statements as Excel workbooks for
// the finance team.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/hrops/traveldesk/internal/domain/entity"
)

const sheetName = "Reconciliation"

// StatementWriter writes advance-versus-claims statements to disk.
type StatementWriter struct {
	companyName string
	outputDir   string
	logger      *zap.Logger
}

// NewStatementWriter creates a new statement writer.
func NewStatementWriter(companyName, outputDir string, logger *zap.Logger) *StatementWriter {
	return &StatementWriter{
		companyName: companyName,
		outputDir:   outputDir,
		logger:      logger,
	}
}

// Write renders the statement for one application and returns the path of
// the saved workbook.
func (w *StatementWriter) Write(app *entity.TravelApplication, rec *entity.Reconciliation) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		w.logger.Warn("Failed to drop default sheet", zap.Error(err))
	}

	w.setCell(f, "A1", w.companyName)
	w.setCell(f, "A2", "Travel Expense Reconciliation Statement")
	w.setCell(f, "A4", "Application")
	w.setCell(f, "B4", app.ID)
	w.setCell(f, "A5", "Applicant")
	w.setCell(f, "B5", app.ApplicantID)
	w.setCell(f, "A6", "Department")
	w.setCell(f, "B6", app.Department)
	w.setCell(f, "A7", "Purpose")
	w.setCell(f, "B7", app.Draft.Purpose)
	w.setCell(f, "A8", "Status")
	w.setCell(f, "B8", app.Status)
	w.setCell(f, "A9", "Generated")
	w.setCell(f, "B9", time.Now().Format("2006-01-02 15:04"))

	headerRow := 11
	w.setCell(f, cell("A", headerRow), "Category")
	w.setCell(f, cell("B", headerRow), "Advanced")
	w.setCell(f, cell("C", headerRow), "Claimed")
	w.setCell(f, cell("D", headerRow), "Variance")

	row := headerRow + 1
	for _, line := range rec.Categories {
		w.setCell(f, cell("A", row), line.Category)
		w.setCell(f, cell("B", row), line.Advanced.String())
		w.setCell(f, cell("C", row), line.Claimed.String())
		w.setCell(f, cell("D", row), line.Variance.String())
		row++
	}

	w.setCell(f, cell("A", row), "Total")
	w.setCell(f, cell("B", row), rec.TotalAdvanced.String())
	w.setCell(f, cell("C", row), rec.TotalClaimed.String())
	w.setCell(f, cell("D", row), rec.Variance.String())

	note := "Advance refund due from employee"
	if rec.Variance.IsPositive() {
		note = "Balance payable to employee"
	} else if rec.Variance.IsZero() {
		note = "Settled, no balance"
	}
	w.setCell(f, cell("A", row+2), note)

	outputPath := filepath.Join(w.outputDir, fmt.Sprintf("reconciliation_%d.xlsx", app.ID))
	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("save statement: %w", err)
	}

	w.logger.Info("Reconciliation statement written",
		zap.Int64("application_id", app.ID),
		zap.String("path", outputPath))
	return outputPath, nil
}

func (w *StatementWriter) setCell(f *excelize.File, cellRef string, value interface{}) {
	if err := f.SetCellValue(sheetName, cellRef, value); err != nil {
		w.logger.Warn("Failed to set cell value",
			zap.String("cell", cellRef),
			zap.Error(err))
	}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
