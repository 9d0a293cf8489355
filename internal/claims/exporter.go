package claims

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/models"
)

// Exporter renders claim listings as Excel workbooks for download
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a claims exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

var exportHeaders = []string{
	"Claim ID", "Patient ID", "Patient Name", "Status", "Type",
	"Provider", "Amount", "Submitted", "Service Date", "Diagnosis",
}

// Export builds an xlsx workbook with one row per claim and a totals
// footer, returning the serialized file.
func (e *Exporter) Export(claims []*models.Claim) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute header cell: %w", err)
		}
		e.setCell(f, sheet, cell, header)
	}

	total := 0.0
	for row, claim := range claims {
		values := []interface{}{
			claim.ID, claim.PatientID, claim.PatientName, claim.Status,
			claim.Type, claim.Provider, claim.Amount, claim.Submitted,
			claim.ServiceDate, claim.Diagnosis,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("failed to compute cell: %w", err)
			}
			e.setCell(f, sheet, cell, value)
		}
		total += claim.Amount
	}

	footerRow := len(claims) + 2
	totalLabel, _ := excelize.CoordinatesToCellName(6, footerRow)
	totalCell, _ := excelize.CoordinatesToCellName(7, footerRow)
	e.setCell(f, sheet, totalLabel, "Total")
	e.setCell(f, sheet, totalCell, total)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Claims exported",
		zap.Int("claims", len(claims)),
		zap.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

// setCell sets a cell value, logging failures instead of aborting the export
func (e *Exporter) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}
