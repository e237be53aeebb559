package consumption

import (
	"github.com/google/uuid"

	"github.com/pavitra93/hotel-energy-tracker/shared/models"
)

// RoomConsumption is the rollup of every device in a room
type RoomConsumption struct {
	RoomID         uuid.UUID    `json:"room_id"`
	RoomNumber     string       `json:"room_number"`
	RoomType       *string      `json:"room_type,omitempty"`
	DisplayOrder   int          `json:"display_order"`
	DeviceCount    int          `json:"device_count"`
	DailyWattHours float64      `json:"daily_watt_hours"`
	DailyKwh       float64      `json:"daily_kwh"`
	MonthlyKwh     float64      `json:"monthly_kwh"`
	YearlyKwh      float64      `json:"yearly_kwh"`
	YearlyCost     float64      `json:"yearly_cost"`
	Health         HealthStatus `json:"health"`
}

// RoomDevices pairs a room with the devices assigned to it
type RoomDevices struct {
	Room    models.Room
	Devices []models.ElectricalDevice
}

// RollupRoom sums the daily watt-hours of devices and derives the room's
// energy, cost and health. Device order does not affect the result beyond
// floating-point tolerance.
func RollupRoom(room models.Room, devices []models.ElectricalDevice, pricePerKwh float64) RoomConsumption {
	var wattHours float64
	for _, d := range devices {
		wattHours += d.PowerWatts * d.UsageHoursPerDay
	}
	e := fromWattHours(wattHours, pricePerKwh)

	return RoomConsumption{
		RoomID:         room.ID,
		RoomNumber:     room.RoomNumber,
		RoomType:       room.RoomType,
		DisplayOrder:   room.DisplayOrder,
		DeviceCount:    len(devices),
		DailyWattHours: wattHours,
		DailyKwh:       e.daily,
		MonthlyKwh:     e.monthly,
		YearlyKwh:      e.yearly,
		YearlyCost:     e.yearlyCost,
		Health:         ClassifyHealth(e.daily),
	}
}

// RollupRooms rolls up every room in tree, keeping tree order
func RollupRooms(tree []RoomDevices, pricePerKwh float64) []RoomConsumption {
	out := make([]RoomConsumption, 0, len(tree))
	for _, rd := range tree {
		out = append(out, RollupRoom(rd.Room, rd.Devices, pricePerKwh))
	}
	return out
}

// Rounded returns a copy with every derived figure rounded to 2 decimals.
// Health is already classified on the rounded daily figure.
func (r RoomConsumption) Rounded() RoomConsumption {
	r.DailyWattHours = Round2(r.DailyWattHours)
	r.DailyKwh = Round2(r.DailyKwh)
	r.MonthlyKwh = Round2(r.MonthlyKwh)
	r.YearlyKwh = Round2(r.YearlyKwh)
	r.YearlyCost = Round2(r.YearlyCost)
	return r
}

// DeviceShare is a device's consumption together with its share of the room
type DeviceShare struct {
	DeviceConsumption
	PercentageOfRoom float64 `json:"percentage_of_room"`
}

// DeviceShares computes per-device consumption and each device's share of
// the room's daily energy. Shares are 0 when the room draws nothing.
func DeviceShares(devices []models.ElectricalDevice, pricePerKwh float64) []DeviceShare {
	shares := make([]DeviceShare, 0, len(devices))
	var total float64
	for _, d := range devices {
		c := ForDevice(d, pricePerKwh)
		total += c.DailyWattHours
		shares = append(shares, DeviceShare{DeviceConsumption: c})
	}
	for i := range shares {
		shares[i].PercentageOfRoom = percentage(shares[i].DailyWattHours, total)
	}
	return shares
}

// GroupByRoom arranges devices under their rooms, keeping the order of rooms.
// Devices with no room, or a room outside rooms, are returned as unassigned.
func GroupByRoom(rooms []models.Room, devices []models.ElectricalDevice) ([]RoomDevices, []models.ElectricalDevice) {
	index := make(map[uuid.UUID]int, len(rooms))
	tree := make([]RoomDevices, len(rooms))
	for i, room := range rooms {
		index[room.ID] = i
		tree[i] = RoomDevices{Room: room, Devices: []models.ElectricalDevice{}}
	}

	var unassigned []models.ElectricalDevice
	for _, d := range devices {
		if d.RoomID == nil {
			unassigned = append(unassigned, d)
			continue
		}
		i, ok := index[*d.RoomID]
		if !ok {
			unassigned = append(unassigned, d)
			continue
		}
		tree[i].Devices = append(tree[i].Devices, d)
	}
	return tree, unassigned
}

func percentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
