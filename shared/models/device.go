package models

import (
	"time"

	"github.com/google/uuid"
)

// ElectricalDevice represents an appliance drawing power inside a tenant,
// optionally placed in a room
type ElectricalDevice struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID         uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	RoomID           *uuid.UUID `json:"room_id" gorm:"type:uuid;index"`
	DeviceName       string     `json:"device_name" gorm:"type:varchar(255);not null"`
	PowerWatts       float64    `json:"power_watts" gorm:"type:numeric(10,2);not null;check:power_watts >= 0"`
	UsageHoursPerDay float64    `json:"usage_hours_per_day" gorm:"type:numeric(4,2);not null;check:usage_hours_per_day BETWEEN 0 AND 24"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName returns the table name for the ElectricalDevice model
func (ElectricalDevice) TableName() string {
	return "electrical_devices"
}

// InRoom reports whether the device is assigned to the given room
func (d *ElectricalDevice) InRoom(roomID uuid.UUID) bool {
	return d.RoomID != nil && *d.RoomID == roomID
}
