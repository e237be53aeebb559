// Package consumption turns device wattage and daily usage into energy and
// cost figures at device, room and tenant granularity.
//
// Every function here is pure: inputs are passed explicitly and results are
// recomputed on each call. Values are accumulated unrounded; call Rounded on a
// result only when it is about to be presented.
package consumption

import (
	"github.com/google/uuid"

	"github.com/pavitra93/hotel-energy-tracker/shared/models"
)

const (
	// DaysPerMonth is the fixed month length used for monthly figures
	DaysPerMonth = 30
	// DaysPerYear is the fixed year length used for yearly figures
	DaysPerYear = 365
	// DefaultPricePerKwh is the rate applied when no rate is supplied
	DefaultPricePerKwh = 0.15
)

// DeviceConsumption holds the energy figures for a single device
type DeviceConsumption struct {
	DeviceID         uuid.UUID `json:"device_id"`
	DeviceName       string    `json:"device_name"`
	PowerWatts       float64   `json:"power_watts"`
	UsageHoursPerDay float64   `json:"usage_hours_per_day"`
	DailyWattHours   float64   `json:"daily_watt_hours"`
	DailyKwh         float64   `json:"daily_kwh"`
	MonthlyKwh       float64   `json:"monthly_kwh"`
	YearlyKwh        float64   `json:"yearly_kwh"`
	YearlyCost       float64   `json:"yearly_cost"`
}

// Calculate computes consumption for a power draw used a number of hours per day
func Calculate(powerWatts, usageHoursPerDay, pricePerKwh float64) DeviceConsumption {
	dailyWattHours := powerWatts * usageHoursPerDay
	energy := fromWattHours(dailyWattHours, pricePerKwh)

	return DeviceConsumption{
		PowerWatts:       powerWatts,
		UsageHoursPerDay: usageHoursPerDay,
		DailyWattHours:   dailyWattHours,
		DailyKwh:         energy.daily,
		MonthlyKwh:       energy.monthly,
		YearlyKwh:        energy.yearly,
		YearlyCost:       energy.yearlyCost,
	}
}

// ForDevice computes consumption for a stored device record
func ForDevice(device models.ElectricalDevice, pricePerKwh float64) DeviceConsumption {
	c := Calculate(device.PowerWatts, device.UsageHoursPerDay, pricePerKwh)
	c.DeviceID = device.ID
	c.DeviceName = device.DeviceName
	return c
}

// Rounded returns a copy with every derived figure rounded to 2 decimals
func (c DeviceConsumption) Rounded() DeviceConsumption {
	c.DailyWattHours = Round2(c.DailyWattHours)
	c.DailyKwh = Round2(c.DailyKwh)
	c.MonthlyKwh = Round2(c.MonthlyKwh)
	c.YearlyKwh = Round2(c.YearlyKwh)
	c.YearlyCost = Round2(c.YearlyCost)
	return c
}

type energy struct {
	daily      float64
	monthly    float64
	yearly     float64
	yearlyCost float64
}

func fromWattHours(dailyWattHours, pricePerKwh float64) energy {
	daily := dailyWattHours / 1000
	yearly := daily * DaysPerYear
	return energy{
		daily:      daily,
		monthly:    daily * DaysPerMonth,
		yearly:     yearly,
		yearlyCost: yearly * pricePerKwh,
	}
}
