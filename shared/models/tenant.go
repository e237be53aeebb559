package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents a hotel property in the multi-tenant system
type Tenant struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Rooms   []Room             `json:"rooms,omitempty" gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
	Devices []ElectricalDevice `json:"devices,omitempty" gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}
