package consumption

import (
	"github.com/google/uuid"

	"github.com/pavitra93/hotel-energy-tracker/shared/models"
)

// NavigationKind tells the caller where to go after finishing a room
type NavigationKind string

const (
	NavigateNextRoom       NavigationKind = "next_room"
	NavigateReturnToTenant NavigationKind = "return_to_tenant"
)

// Navigation is the target after the current room. NextRoom is set only
// for NavigateNextRoom.
type Navigation struct {
	Kind     NavigationKind `json:"kind"`
	TenantID uuid.UUID      `json:"tenant_id"`
	NextRoom *models.Room   `json:"next_room,omitempty"`
}

// NextTarget finds the room of the same tenant with the smallest display
// order strictly greater than current's. Several candidates sharing that
// order are resolved by room number, then ID. Rooms sharing current's own
// display order are never a next target. With no candidate, current is the
// last room and the caller should return to the tenant.
func NextTarget(rooms []models.Room, current models.Room) Navigation {
	var next *models.Room
	for i := range rooms {
		candidate := &rooms[i]
		if candidate.TenantID != current.TenantID || candidate.DisplayOrder <= current.DisplayOrder {
			continue
		}
		if next == nil || candidate.Before(next) {
			next = candidate
		}
	}

	if next == nil {
		return Navigation{Kind: NavigateReturnToTenant, TenantID: current.TenantID}
	}
	found := *next
	return Navigation{Kind: NavigateNextRoom, TenantID: current.TenantID, NextRoom: &found}
}
