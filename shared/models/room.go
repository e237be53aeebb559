package models

import (
	"time"

	"github.com/google/uuid"
)

// Room represents a room belonging to exactly one tenant
type Room struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID     uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:idx_rooms_tenant_room_number"`
	RoomNumber   string    `json:"room_number" gorm:"type:varchar(50);not null;uniqueIndex:idx_rooms_tenant_room_number"`
	RoomType     *string   `json:"room_type,omitempty" gorm:"type:varchar(50)"`
	DisplayOrder int       `json:"display_order" gorm:"not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Devices []ElectricalDevice `json:"devices,omitempty" gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
}

// RoomType values accepted for Room.RoomType
const (
	RoomTypeStandard   = "standard"
	RoomTypeDeluxe     = "deluxe"
	RoomTypeSuite      = "suite"
	RoomTypeFamily     = "family"
	RoomTypeCommonArea = "common_area"
	RoomTypeService    = "service"
)

// RoomTypes lists every accepted room type in display order
var RoomTypes = []string{
	RoomTypeStandard,
	RoomTypeDeluxe,
	RoomTypeSuite,
	RoomTypeFamily,
	RoomTypeCommonArea,
	RoomTypeService,
}

// TableName returns the table name for the Room model
func (Room) TableName() string {
	return "rooms"
}

// Before reports whether r sorts ahead of other in a tenant's room sequence.
// Rooms sharing a display order fall back to room number, then ID.
func (r *Room) Before(other *Room) bool {
	if r.DisplayOrder != other.DisplayOrder {
		return r.DisplayOrder < other.DisplayOrder
	}
	if r.RoomNumber != other.RoomNumber {
		return r.RoomNumber < other.RoomNumber
	}
	return r.ID.String() < other.ID.String()
}
