package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pavitra93/hotel-energy-tracker/shared/consumption"
	"github.com/pavitra93/hotel-energy-tracker/shared/models"
	"github.com/pavitra93/hotel-energy-tracker/shared/utils"
	"github.com/pavitra93/hotel-energy-tracker/shared/validation"
)

// TenantRequest is the body of tenant create and update
type TenantRequest struct {
	Name string `json:"name"`
}

// TenantOverview is a tenant with its dashboard summary
type TenantOverview struct {
	models.Tenant
	Summary consumption.TenantSummary `json:"summary"`
}

// TenantDashboard is everything the tenant page shows
type TenantDashboard struct {
	Tenant            models.Tenant                   `json:"tenant"`
	Summary           consumption.TenantSummary       `json:"summary"`
	Rooms             []consumption.RoomConsumption   `json:"rooms"`
	UnassignedDevices []consumption.DeviceConsumption `json:"unassigned_devices"`
}

// tenantTree loads a tenant's rooms (in display order) with their devices
func (app *App) tenantTree(ctx context.Context, tenantID uuid.UUID) ([]consumption.RoomDevices, []models.ElectricalDevice, error) {
	rooms, err := app.store.ListRooms(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}
	devices, err := app.store.ListDevicesByTenant(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}
	tree, unassigned := consumption.GroupByRoom(rooms, devices)
	return tree, unassigned, nil
}

// handleCreateTenant handles tenant creation
func handleCreateTenant(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TenantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		res := validation.Tenant(validation.TenantInput{Name: req.Name})
		if !res.Valid() {
			utils.ValidationErrorResponse(c, res.Errors)
			return
		}

		tenant := models.Tenant{ID: uuid.New(), Name: res.Value.Name}
		if err := app.store.CreateTenant(c.Request.Context(), &tenant); err != nil {
			respondStoreError(c, err, "Tenant not found")
			return
		}

		app.afterMutation(c.Request.Context(), change{entity: "tenant", action: "created", entityID: tenant.ID, tenantID: tenant.ID})
		utils.CreatedResponse(c, "Tenant created successfully", tenant)
	}
}

// handleGetTenants lists tenants with their consumption summary. Rooms and
// devices of all tenants are loaded in one query each.
func handleGetTenants(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		tenants, err := app.store.ListTenants(ctx)
		if err != nil {
			respondStoreError(c, err, "Tenant not found")
			return
		}

		ids := make([]uuid.UUID, 0, len(tenants))
		for _, tenant := range tenants {
			ids = append(ids, tenant.ID)
		}
		allRooms, err := app.store.ListRoomsByTenants(ctx, ids)
		if err != nil {
			respondStoreError(c, err, "Tenant not found")
			return
		}
		allDevices, err := app.store.ListDevicesByTenants(ctx, ids)
		if err != nil {
			respondStoreError(c, err, "Tenant not found")
			return
		}

		roomsOf := make(map[uuid.UUID][]models.Room)
		for _, r := range allRooms {
			roomsOf[r.TenantID] = append(roomsOf[r.TenantID], r)
		}
		devicesOf := make(map[uuid.UUID][]models.ElectricalDevice)
		for _, d := range allDevices {
			devicesOf[d.TenantID] = append(devicesOf[d.TenantID], d)
		}

		overviews := make([]TenantOverview, 0, len(tenants))
		for _, tenant := range tenants {
			tree, _ := consumption.GroupByRoom(roomsOf[tenant.ID], devicesOf[tenant.ID])
			rooms := consumption.RollupRooms(tree, consumption.DefaultPricePerKwh)
			overviews = append(overviews, TenantOverview{
				Tenant:  tenant,
				Summary: consumption.RollupTenant(rooms).Rounded(),
			})
		}

		utils.OKResponse(c, "Tenants retrieved successfully", overviews)
	}
}

// handleGetTenantDashboard returns the tenant summary, room rollups and
// health breakdown
func handleGetTenantDashboard(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, ok := paramID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		tenant, err := app.store.GetTenant(ctx, tenantID)
		if err != nil {
			respondStoreError(c, err, "Tenant not found")
			return
		}

		tree, unassigned, err := app.tenantTree(ctx, tenantID)
		if err != nil {
			respondStoreError(c, err, "Tenant not found")
			return
		}

		rooms := consumption.RollupRooms(tree, consumption.DefaultPricePerKwh)
		dashboard := TenantDashboard{
			Tenant:            *tenant,
			Summary:           consumption.RollupTenant(rooms).Rounded(),
			Rooms:             make([]consumption.RoomConsumption, 0, len(rooms)),
			UnassignedDevices: make([]consumption.DeviceConsumption, 0, len(unassigned)),
		}
		for _, room := range rooms {
			dashboard.Rooms = append(dashboard.Rooms, room.Rounded())
		}
		for _, d := range unassigned {
			dashboard.UnassignedDevices = append(dashboard.UnassignedDevices, consumption.ForDevice(d, consumption.DefaultPricePerKwh).Rounded())
		}

		if app.notModified(c, tenantView("tenant", tenantID), dashboard) {
			return
		}
		utils.OKResponse(c, "Tenant dashboard retrieved successfully", dashboard)
	}
}

// handleUpdateTenant renames a tenant
func handleUpdateTenant(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, ok := paramID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		tenant, err := app.store.GetTenant(ctx, tenantID)
		if err != nil {
			respondStoreError(c, err, "Tenant not found")
			return
		}

		var req TenantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		res := validation.Tenant(validation.TenantInput{Name: req.Name})
		if !res.Valid() {
			utils.ValidationErrorResponse(c, res.Errors)
			return
		}

		tenant.Name = res.Value.Name
		if err := app.store.UpdateTenant(ctx, tenant); err != nil {
			respondStoreError(c, err, "Tenant not found")
			return
		}

		app.afterMutation(ctx, change{entity: "tenant", action: "updated", entityID: tenant.ID, tenantID: tenant.ID})
		utils.OKResponse(c, "Tenant updated successfully", tenant)
	}
}

// handleDeleteTenant deletes a tenant with all of its rooms and devices
func handleDeleteTenant(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, ok := paramID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		rooms, err := app.store.ListRooms(ctx, tenantID)
		if err != nil {
			respondStoreError(c, err, "Tenant not found")
			return
		}

		if err := app.store.DeleteTenant(ctx, tenantID); err != nil {
			respondStoreError(c, err, "Tenant not found")
			return
		}

		roomIDs := make([]uuid.UUID, 0, len(rooms))
		for _, room := range rooms {
			roomIDs = append(roomIDs, room.ID)
		}
		app.afterMutation(ctx, change{entity: "tenant", action: "deleted", entityID: tenantID, tenantID: tenantID})
		app.forgetViews(ctx, &tenantID, roomIDs...)

		utils.OKResponse(c, "Tenant deleted successfully", nil)
	}
}
