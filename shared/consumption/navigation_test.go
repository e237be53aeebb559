package consumption

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavitra93/hotel-energy-tracker/shared/models"
)

func TestNextTarget_PicksSmallestGreaterOrder(t *testing.T) {
	tenantID := uuid.New()
	rooms := []models.Room{
		room(tenantID, "301", 30),
		room(tenantID, "101", 10),
		room(tenantID, "201", 20),
	}

	nav := NextTarget(rooms, rooms[1])

	assert.Equal(t, NavigateNextRoom, nav.Kind)
	require.NotNil(t, nav.NextRoom)
	assert.Equal(t, "201", nav.NextRoom.RoomNumber)
}

func TestNextTarget_LastRoomReturnsToTenant(t *testing.T) {
	tenantID := uuid.New()
	rooms := []models.Room{room(tenantID, "101", 1), room(tenantID, "102", 2)}

	nav := NextTarget(rooms, rooms[1])

	assert.Equal(t, NavigateReturnToTenant, nav.Kind)
	assert.Equal(t, tenantID, nav.TenantID)
	assert.Nil(t, nav.NextRoom)
}

func TestNextTarget_GapsInOrder(t *testing.T) {
	tenantID := uuid.New()
	rooms := []models.Room{room(tenantID, "A", -5), room(tenantID, "B", 100)}

	nav := NextTarget(rooms, rooms[0])

	require.NotNil(t, nav.NextRoom)
	assert.Equal(t, "B", nav.NextRoom.RoomNumber)
}

func TestNextTarget_TiedCandidatesUseRoomNumber(t *testing.T) {
	tenantID := uuid.New()
	current := room(tenantID, "100", 1)
	rooms := []models.Room{current, room(tenantID, "205", 2), room(tenantID, "201", 2)}

	nav := NextTarget(rooms, current)

	require.NotNil(t, nav.NextRoom)
	assert.Equal(t, "201", nav.NextRoom.RoomNumber)
}

func TestNextTarget_SkipsPeersAndOtherTenants(t *testing.T) {
	tenantID := uuid.New()
	current := room(tenantID, "100", 5)
	rooms := []models.Room{
		current,
		room(tenantID, "099", 5),
		room(uuid.New(), "500", 6),
	}

	nav := NextTarget(rooms, current)

	assert.Equal(t, NavigateReturnToTenant, nav.Kind)
}
