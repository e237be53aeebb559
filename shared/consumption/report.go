package consumption

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// ReportRow is one room of a power-consumption report
type ReportRow struct {
	RoomConsumption
	PercentageOfTotal float64 `json:"percentage_of_total"`
}

// Report is a tenant's consumption recomputed under a chosen rate
type Report struct {
	PricePerKwh     float64     `json:"price_per_kwh"`
	TotalDevices    int         `json:"total_devices"`
	TotalDailyKwh   float64     `json:"total_daily_kwh"`
	TotalMonthlyKwh float64     `json:"total_monthly_kwh"`
	TotalYearlyKwh  float64     `json:"total_yearly_kwh"`
	TotalYearlyCost float64     `json:"total_yearly_cost"`
	Rooms           []ReportRow `json:"rooms"`
}

// ParsePrice reads a rate typed by a user. Empty, malformed, negative or
// non-finite input yields 0.
func ParsePrice(text string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// BuildReport rolls up every room under pricePerKwh, computes each room's
// share of yearly consumption and orders rooms by yearly kWh, highest first.
// The input is not modified, so repeated calls with different rates are
// independent.
func BuildReport(tree []RoomDevices, pricePerKwh float64) Report {
	report := Report{
		PricePerKwh: pricePerKwh,
		Rooms:       make([]ReportRow, 0, len(tree)),
	}

	for _, room := range RollupRooms(tree, pricePerKwh) {
		report.TotalDevices += room.DeviceCount
		report.TotalDailyKwh += room.DailyKwh
		report.TotalMonthlyKwh += room.MonthlyKwh
		report.TotalYearlyKwh += room.YearlyKwh
		report.TotalYearlyCost += room.YearlyCost
		report.Rooms = append(report.Rooms, ReportRow{RoomConsumption: room})
	}

	for i := range report.Rooms {
		report.Rooms[i].PercentageOfTotal = percentage(report.Rooms[i].YearlyKwh, report.TotalYearlyKwh)
	}

	sort.SliceStable(report.Rooms, func(i, j int) bool {
		return report.Rooms[i].YearlyKwh > report.Rooms[j].YearlyKwh
	})

	return report
}

// Rounded returns a copy ready for presentation
func (r Report) Rounded() Report {
	r.TotalDailyKwh = Round2(r.TotalDailyKwh)
	r.TotalMonthlyKwh = Round2(r.TotalMonthlyKwh)
	r.TotalYearlyKwh = Round2(r.TotalYearlyKwh)
	r.TotalYearlyCost = Round2(r.TotalYearlyCost)

	rooms := make([]ReportRow, len(r.Rooms))
	for i, row := range r.Rooms {
		rooms[i] = ReportRow{
			RoomConsumption:   row.RoomConsumption.Rounded(),
			PercentageOfTotal: Round2(row.PercentageOfTotal),
		}
	}
	r.Rooms = rooms
	return r
}
