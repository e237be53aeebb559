package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pavitra93/hotel-energy-tracker/shared/models"
)

func setupMockStore(t *testing.T) (sqlmock.Sqlmock, *Store) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return mock, New(db)
}

func TestListRooms_OrderedByDisplayOrder(t *testing.T) {
	mock, s := setupMockStore(t)
	tenantID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "tenant_id", "room_number", "room_type", "display_order", "created_at", "updated_at"}).
		AddRow(uuid.NewString(), tenantID.String(), "101", "suite", 1, now, now).
		AddRow(uuid.NewString(), tenantID.String(), "102", nil, 2, now, now)

	mock.ExpectQuery(`SELECT \* FROM "rooms" WHERE tenant_id = \$1 ORDER BY display_order ASC,room_number ASC`).
		WithArgs(tenantID.String()).
		WillReturnRows(rows)

	rooms, err := s.ListRooms(context.Background(), tenantID)

	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "101", rooms[0].RoomNumber)
	require.NotNil(t, rooms[0].RoomType)
	assert.Equal(t, "suite", *rooms[0].RoomType)
	assert.Nil(t, rooms[1].RoomType)
	assert.Equal(t, 2, rooms[1].DisplayOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByTenants_OneQueryEach(t *testing.T) {
	mock, s := setupMockStore(t)
	hotelA := uuid.New()
	hotelB := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "rooms" WHERE tenant_id IN \(\$1,\$2\) ORDER BY display_order ASC,room_number ASC`).
		WithArgs(hotelA.String(), hotelB.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "room_number", "display_order", "created_at", "updated_at"}).
			AddRow(uuid.NewString(), hotelA.String(), "101", 1, now, now).
			AddRow(uuid.NewString(), hotelB.String(), "1", 1, now, now))
	mock.ExpectQuery(`SELECT \* FROM "electrical_devices" WHERE tenant_id IN \(\$1,\$2\) ORDER BY created_at ASC`).
		WithArgs(hotelA.String(), hotelB.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "device_name", "power_watts", "usage_hours_per_day"}).
			AddRow(uuid.NewString(), hotelB.String(), "Kettle", 2000.0, 1.0))

	rooms, err := s.ListRoomsByTenants(context.Background(), []uuid.UUID{hotelA, hotelB})
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, hotelB, rooms[1].TenantID)

	devices, err := s.ListDevicesByTenants(context.Background(), []uuid.UUID{hotelA, hotelB})
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Nil(t, devices[0].RoomID)

	rooms, err = s.ListRoomsByTenants(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, rooms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTenant_NotFound(t *testing.T) {
	mock, s := setupMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	tenant, err := s.GetTenant(context.Background(), uuid.New())

	assert.Nil(t, tenant)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTenant_DuplicateName(t *testing.T) {
	mock, s := setupMockStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tenants" WHERE name = \$1`).
		WithArgs("Grand Hotel").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := s.CreateTenant(context.Background(), &models.Tenant{Name: "Grand Hotel"})

	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "Grand Hotel")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRoom_Missing(t *testing.T) {
	mock, s := setupMockStore(t)
	roomID := uuid.New()

	mock.ExpectExec(`DELETE FROM "rooms" WHERE id = \$1`).
		WithArgs(roomID.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteRoom(context.Background(), roomID)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDevice(t *testing.T) {
	mock, s := setupMockStore(t)
	deviceID := uuid.New()

	mock.ExpectExec(`DELETE FROM "electrical_devices" WHERE id = \$1`).
		WithArgs(deviceID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.DeleteDevice(context.Background(), deviceID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyRoomDevices_NothingToCopy(t *testing.T) {
	mock, s := setupMockStore(t)
	tenantID := uuid.New()
	sourceID := uuid.New()
	targetID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "rooms" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "room_number", "display_order"}).
			AddRow(targetID.String(), tenantID.String(), "202", 2))
	mock.ExpectQuery(`SELECT \* FROM "electrical_devices" WHERE room_id = \$1`).
		WithArgs(sourceID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "room_id", "device_name", "power_watts", "usage_hours_per_day"}))
	mock.ExpectRollback()

	copies, err := s.CopyRoomDevices(context.Background(), sourceID, targetID)

	assert.Nil(t, copies)
	assert.ErrorIs(t, err, ErrNothingToCopy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyRoomDevices_InsertsOneBatch(t *testing.T) {
	mock, s := setupMockStore(t)
	sourceTenant := uuid.New()
	targetTenant := uuid.New()
	sourceID := uuid.New()
	targetID := uuid.New()

	source := sqlmock.NewRows([]string{"id", "tenant_id", "room_id", "device_name", "power_watts", "usage_hours_per_day"})
	sourceIDs := map[uuid.UUID]bool{}
	for _, name := range []string{"Heater", "Fridge", "Lamp"} {
		id := uuid.New()
		sourceIDs[id] = true
		source.AddRow(id.String(), sourceTenant.String(), sourceID.String(), name, 100.0, 8.0)
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "rooms" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "room_number", "display_order"}).
			AddRow(targetID.String(), targetTenant.String(), "202", 2))
	mock.ExpectQuery(`SELECT \* FROM "electrical_devices" WHERE room_id = \$1`).
		WithArgs(sourceID.String()).
		WillReturnRows(source)
	mock.ExpectQuery(`INSERT INTO "electrical_devices" .+ VALUES \(.+\),\(.+\),\(.+\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	copies, err := s.CopyRoomDevices(context.Background(), sourceID, targetID)

	require.NoError(t, err)
	require.Len(t, copies, 3)
	seen := map[uuid.UUID]bool{}
	for i, d := range copies {
		assert.NotEqual(t, uuid.Nil, d.ID)
		assert.False(t, sourceIDs[d.ID], "copy %d reuses a source ID", i)
		assert.False(t, seen[d.ID], "copy %d has a duplicate ID", i)
		seen[d.ID] = true
		assert.Equal(t, targetTenant, d.TenantID)
		require.NotNil(t, d.RoomID)
		assert.Equal(t, targetID, *d.RoomID)
		assert.Equal(t, 100.0, d.PowerWatts)
	}
	assert.Equal(t, []string{"Heater", "Fridge", "Lamp"}, []string{copies[0].DeviceName, copies[1].DeviceName, copies[2].DeviceName})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDevices_RollsBackOnFailure(t *testing.T) {
	mock, s := setupMockStore(t)
	tenantID := uuid.New()
	roomID := uuid.New()
	devices := []models.ElectricalDevice{
		{ID: uuid.New(), TenantID: tenantID, RoomID: &roomID, DeviceName: "Heater", PowerWatts: 1500, UsageHoursPerDay: 8},
		{ID: uuid.New(), TenantID: tenantID, DeviceName: "Lamp", PowerWatts: 10, UsageHoursPerDay: 4},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "rooms" WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs(roomID.String(), tenantID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`UPDATE "electrical_devices" SET .+ WHERE id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "electrical_devices" SET .+ WHERE id = \$\d+`).
		WillReturnError(errors.New("numeric field overflow"))
	mock.ExpectRollback()

	err := s.UpdateDevices(context.Background(), devices)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "numeric field overflow")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_SetsRowLevelSecurityClaims(t *testing.T) {
	mock, s := setupMockStore(t)
	claims := `{"sub":"user-1","role":"authenticated"}`
	ctx := ContextWithClaims(context.Background(), claims)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT set_config\('request.jwt.claims', \$1, true\)`).
		WithArgs(claims).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "tenants" ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(uuid.NewString(), "Grand Hotel"))
	mock.ExpectCommit()

	tenants, err := s.ListTenants(ctx)

	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.Equal(t, "Grand Hotel", tenants[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), ErrConflict)
	assert.ErrorIs(t, translate(gorm.ErrForeignKeyViolated), ErrInvalidReference)
	assert.ErrorIs(t, translate(ErrNothingToCopy), ErrNothingToCopy)

	other := errors.New("connection reset")
	assert.Equal(t, other, translate(other))
}

func TestClaimsFromContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	_, ok = ClaimsFromContext(ContextWithClaims(context.Background(), ""))
	assert.False(t, ok)

	claims, ok := ClaimsFromContext(ContextWithClaims(context.Background(), `{"sub":"x"}`))
	assert.True(t, ok)
	assert.Equal(t, `{"sub":"x"}`, claims)
}
