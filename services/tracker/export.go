package main

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pavitra93/hotel-energy-tracker/shared/consumption"
)

const reportSheet = "Consumption Report"

// ReportExportHeader is the header row of the report workbook
var ReportExportHeader = []string{
	"Room Number",
	"Room Type",
	"Devices",
	"Daily kWh",
	"Monthly kWh",
	"Yearly kWh",
	"Yearly Cost",
	"Share of Total",
	"Health",
}

var reportColumnWidths = []float64{15, 15, 10, 15, 15, 15, 15, 15, 12}

// GenerateReportWorkbook renders a report as an .xlsx file: a title row,
// a styled header row, one row per room and a totals row
func GenerateReportWorkbook(tenantName string, report consumption.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create totals style: %w", err)
	}

	title := fmt.Sprintf("%s (rate %s per kWh)", tenantName, consumption.FormatCost(report.PricePerKwh))
	if err := f.SetCellValue(reportSheet, "A1", title); err != nil {
		return nil, fmt.Errorf("failed to set title: %w", err)
	}

	const headerRow = 2
	if err := setRow(f, headerRow, toCells(ReportExportHeader)); err != nil {
		return nil, err
	}
	if err := styleRow(f, headerRow, len(ReportExportHeader), headerStyle); err != nil {
		return nil, err
	}

	for i, width := range reportColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(reportSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	row := headerRow + 1
	for _, r := range report.Rounded().Rooms {
		roomType := ""
		if r.RoomType != nil {
			roomType = *r.RoomType
		}
		cells := []interface{}{
			r.RoomNumber,
			roomType,
			r.DeviceCount,
			consumption.FormatKwh(r.DailyKwh),
			consumption.FormatKwh(r.MonthlyKwh),
			consumption.FormatKwh(r.YearlyKwh),
			consumption.FormatCost(r.YearlyCost),
			consumption.FormatPercent(r.PercentageOfTotal),
			string(r.Health),
		}
		if err := setRow(f, row, cells); err != nil {
			return nil, err
		}
		row++
	}

	totals := []interface{}{
		"Total",
		"",
		report.TotalDevices,
		consumption.FormatKwh(report.TotalDailyKwh),
		consumption.FormatKwh(report.TotalMonthlyKwh),
		consumption.FormatKwh(report.TotalYearlyKwh),
		consumption.FormatCost(report.TotalYearlyCost),
		"",
		"",
	}
	if err := setRow(f, row, totals); err != nil {
		return nil, err
	}
	if err := styleRow(f, row, len(totals), totalStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func setRow(f *excelize.File, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(reportSheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func styleRow(f *excelize.File, row, columns, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(columns, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(reportSheet, first, last, style); err != nil {
		return fmt.Errorf("failed to style row %d: %w", row, err)
	}
	return nil
}
