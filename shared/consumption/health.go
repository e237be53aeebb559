package consumption

// HealthStatus classifies a room's daily energy use
type HealthStatus string

const (
	HealthGood     HealthStatus = "good"
	HealthModerate HealthStatus = "moderate"
	HealthHigh     HealthStatus = "high"
)

// Daily kWh thresholds. These are fixed policy, not per-tenant settings.
const (
	moderateThresholdKwh = 10.0
	highThresholdKwh     = 20.0
)

// HealthStatuses lists every status from best to worst
var HealthStatuses = []HealthStatus{HealthGood, HealthModerate, HealthHigh}

// ClassifyHealth maps daily kWh to a health status. 10 kWh and above is
// moderate, anything over 20 kWh is high. The figure is rounded to 2
// decimals first so the status always agrees with the displayed value.
func ClassifyHealth(dailyKwh float64) HealthStatus {
	dailyKwh = Round2(dailyKwh)
	switch {
	case dailyKwh > highThresholdKwh:
		return HealthHigh
	case dailyKwh >= moderateThresholdKwh:
		return HealthModerate
	default:
		return HealthGood
	}
}
