package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pavitra93/hotel-energy-tracker/shared/consumption"
	"github.com/pavitra93/hotel-energy-tracker/shared/models"
	"github.com/pavitra93/hotel-energy-tracker/shared/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TenantReport is a consumption report for one tenant
type TenantReport struct {
	Tenant models.Tenant `json:"tenant"`
	consumption.Report
}

// reportPrice reads the price query parameter. Without the parameter the
// default rate applies; a present but unparseable value counts as 0.
func reportPrice(c *gin.Context) float64 {
	text, present := c.GetQuery("price")
	if !present {
		return consumption.DefaultPricePerKwh
	}
	return consumption.ParsePrice(text)
}

// loadReport builds the report for the tenant in the path. It writes the
// response itself on failure.
func (app *App) loadReport(c *gin.Context) (*TenantReport, bool) {
	tenantID, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	ctx := c.Request.Context()

	tenant, err := app.store.GetTenant(ctx, tenantID)
	if err != nil {
		respondStoreError(c, err, "Tenant not found")
		return nil, false
	}

	tree, _, err := app.tenantTree(ctx, tenantID)
	if err != nil {
		respondStoreError(c, err, "Tenant not found")
		return nil, false
	}

	return &TenantReport{
		Tenant: *tenant,
		Report: consumption.BuildReport(tree, reportPrice(c)),
	}, true
}

// handleGetReport returns the tenant's rooms ranked by yearly consumption
// under the requested rate
func handleGetReport(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, ok := app.loadReport(c)
		if !ok {
			return
		}
		report.Report = report.Report.Rounded()
		if app.notModified(c, tenantView(reportScope("report", report.PricePerKwh), report.Tenant.ID), report) {
			return
		}
		utils.OKResponse(c, "Report generated successfully", report)
	}
}

// handleExportReport returns the same report as a spreadsheet
func handleExportReport(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, ok := app.loadReport(c)
		if !ok {
			return
		}

		if app.notModified(c, tenantView(reportScope("report.xlsx", report.PricePerKwh), report.Tenant.ID), report) {
			return
		}

		data, err := GenerateReportWorkbook(report.Tenant.Name, report.Report)
		if err != nil {
			logrus.WithError(err).WithField("tenant_id", report.Tenant.ID).Error("Failed to render report workbook")
			utils.InternalServerErrorResponse(c, "Failed to export report")
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+reportFilename(report.Tenant.ID)+`"`)
		c.Data(http.StatusOK, xlsxContentType, data)
	}
}

// reportScope tells report representations and rates apart in ETags
func reportScope(representation string, pricePerKwh float64) string {
	return representation + "@" + strconv.FormatFloat(pricePerKwh, 'f', -1, 64)
}

func reportFilename(tenantID uuid.UUID) string {
	return "consumption-report-" + tenantID.String() + ".xlsx"
}
