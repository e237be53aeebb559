package main

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pavitra93/hotel-energy-tracker/shared/consumption"
)

func readWorkbook(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{reportSheet}, f.GetSheetList())
	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)
	return rows
}

func TestGenerateReportWorkbook(t *testing.T) {
	app, fs, _ := newTestApp()
	tenantID, _, _ := seedHotel(fs)
	tree, _, err := app.tenantTree(context.Background(), tenantID)
	require.NoError(t, err)

	data, err := GenerateReportWorkbook("Grand Hotel", consumption.BuildReport(tree, 0.15))
	require.NoError(t, err)

	rows := readWorkbook(t, data)
	require.Len(t, rows, 5)
	assert.Equal(t, "Grand Hotel (rate $0.15 per kWh)", rows[0][0])
	assert.Equal(t, ReportExportHeader, rows[1])
	assert.Equal(t, []string{"101", "", "1", "12.00 kWh", "360.00 kWh", "4380.00 kWh", "$657.00", "82.87%", "moderate"}, rows[2])
	assert.Equal(t, "102", rows[3][0])
	assert.Equal(t, "Total", rows[4][0])
	assert.Equal(t, "3", rows[4][2])
	assert.Equal(t, "14.48 kWh", rows[4][3])
}

func TestGenerateReportWorkbook_NoRooms(t *testing.T) {
	data, err := GenerateReportWorkbook("Empty Inn", consumption.BuildReport(nil, 0))
	require.NoError(t, err)

	rows := readWorkbook(t, data)
	require.Len(t, rows, 3)
	assert.Equal(t, "Total", rows[2][0])
	assert.Equal(t, "0.00 kWh", rows[2][3])
}

func TestExportReportEndpoint(t *testing.T) {
	app, fs, _ := newTestApp()
	router := setupRouter(app, nil, nil)
	tenantID, _, _ := seedHotel(fs)

	w := performRequest(router, http.MethodGet, "/tenants/"+tenantID.String()+"/report.xlsx?price=0.15", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), tenantID.String()+".xlsx")

	rows := readWorkbook(t, w.Body.Bytes())
	assert.Equal(t, "101", rows[2][0])
}
