package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Shemantipal/Green-Receipt/internal/entity"
)

// Service produces XLSX workbooks for analysis scorecards.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// AnalysisXLSX returns a workbook with one row per line item plus a totals
// row, mirroring the scorecard the client renders.
func (s *Service) AnalysisXLSX(res *entity.AnalysisResult) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Impact"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		s.logger.Debug("export.delete_default_sheet", "error", err)
	}

	headers := []string{
		"Item",
		"Quantity",
		"Unit Price",
		"Carbon (kg CO2e)",
		"Water (L)",
		"Packaging (g)",
		"Eco Rating",
		"Alternatives",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	row := 2
	for _, it := range res.Items {
		write(1, row, it.Name)
		write(2, row, it.Quantity)
		write(3, row, it.UnitPrice)
		write(4, row, it.CarbonFootprintKg)
		write(5, row, it.WaterUsageLiters)
		write(6, row, it.PackagingWasteG)
		write(7, row, string(it.EcoRating))
		if len(it.Alternatives) > 0 {
			write(8, row, joinLimited(it.Alternatives, "; ", 3))
		}
		row++
	}

	// totals row, then the overall grade
	write(1, row, "TOTAL")
	write(3, row, res.Totals.TotalPrice)
	write(4, row, res.Totals.CarbonFootprintKg)
	write(5, row, res.Totals.WaterUsageLiters)
	write(6, row, res.Totals.PackagingWasteG)
	write(7, row, string(res.OverallRating))

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.xlsx_ok",
		"analysis_id", res.ID,
		"items", len(res.Items),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func joinLimited(parts []string, sep string, max int) string {
	if len(parts) > max {
		parts = parts[:max]
	}
	return strings.Join(parts, sep)
}
