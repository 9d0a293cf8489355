package claims

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/models"
)

func TestExporter_Export(t *testing.T) {
	exporter := NewExporter(zap.NewNop())

	claims := []*models.Claim{
		{ID: "CLM-2024-001", PatientName: "Sarah Johnson", Status: models.StatusApproved, Amount: 4500},
		{ID: "CLM-2024-002", PatientName: "Michael Chen", Status: models.StatusPending, Amount: 850},
	}

	data, err := exporter.Export(claims)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)

	header, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Claim ID", header)

	firstID, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "CLM-2024-001", firstID)

	totalLabel, err := f.GetCellValue(sheet, "F4")
	require.NoError(t, err)
	assert.Equal(t, "Total", totalLabel)

	total, err := f.GetCellValue(sheet, "G4")
	require.NoError(t, err)
	assert.Equal(t, "5350", total)
}

func TestExporter_ExportEmpty(t *testing.T) {
	exporter := NewExporter(zap.NewNop())

	data, err := exporter.Export(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
