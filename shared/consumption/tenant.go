package consumption

// TenantSummary is the dashboard rollup across all rooms of a tenant
type TenantSummary struct {
	TotalRooms           int                  `json:"total_rooms"`
	TotalDevices         int                  `json:"total_devices"`
	TotalDailyKwh        float64              `json:"total_daily_kwh"`
	TotalMonthlyKwh      float64              `json:"total_monthly_kwh"`
	EstimatedMonthlyCost float64              `json:"estimated_monthly_cost"`
	HealthBreakdown      map[HealthStatus]int `json:"health_breakdown"`
	TopRoom              *RoomConsumption     `json:"top_room,omitempty"`
}

// RollupTenant aggregates already rolled-up rooms. The monthly cost estimate
// always uses DefaultPricePerKwh regardless of the rate the rooms were
// rolled up with.
func RollupTenant(rooms []RoomConsumption) TenantSummary {
	summary := TenantSummary{
		TotalRooms:      len(rooms),
		HealthBreakdown: make(map[HealthStatus]int, len(HealthStatuses)),
	}
	for _, status := range HealthStatuses {
		summary.HealthBreakdown[status] = 0
	}

	for i := range rooms {
		room := rooms[i]
		summary.TotalDevices += room.DeviceCount
		summary.TotalDailyKwh += room.DailyKwh
		summary.TotalMonthlyKwh += room.MonthlyKwh
		summary.HealthBreakdown[room.Health]++

		if room.DailyKwh > 0 && (summary.TopRoom == nil || room.DailyKwh > summary.TopRoom.DailyKwh) {
			summary.TopRoom = &rooms[i]
		}
	}
	summary.EstimatedMonthlyCost = summary.TotalMonthlyKwh * DefaultPricePerKwh

	return summary
}

// Rounded returns a copy ready for presentation
func (s TenantSummary) Rounded() TenantSummary {
	s.TotalDailyKwh = Round2(s.TotalDailyKwh)
	s.TotalMonthlyKwh = Round2(s.TotalMonthlyKwh)
	s.EstimatedMonthlyCost = Round2(s.EstimatedMonthlyCost)
	if s.TopRoom != nil {
		top := s.TopRoom.Rounded()
		s.TopRoom = &top
	}
	return s
}
