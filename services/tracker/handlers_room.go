package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pavitra93/hotel-energy-tracker/shared/consumption"
	"github.com/pavitra93/hotel-energy-tracker/shared/models"
	"github.com/pavitra93/hotel-energy-tracker/shared/utils"
	"github.com/pavitra93/hotel-energy-tracker/shared/validation"
)

// RoomRequest is the body of room create and update. On update, omitted
// fields keep their value and an empty room_type clears it.
type RoomRequest struct {
	RoomNumber   *string `json:"room_number"`
	RoomType     *string `json:"room_type"`
	DisplayOrder *int    `json:"display_order"`
}

// RoomDetail is a room with every device's share of its consumption
type RoomDetail struct {
	Room        models.Room                 `json:"room"`
	Consumption consumption.RoomConsumption `json:"consumption"`
	Devices     []consumption.DeviceShare   `json:"devices"`
}

// CopyResult lists the devices created by a room copy
type CopyResult struct {
	SourceRoomID  uuid.UUID                 `json:"source_room_id"`
	TargetRoomID  uuid.UUID                 `json:"target_room_id"`
	DevicesCopied int                       `json:"devices_copied"`
	Devices       []models.ElectricalDevice `json:"devices"`
}

// BulkDeviceUpdate is one entry of a bulk device update
type BulkDeviceUpdate struct {
	ID               uuid.UUID `json:"id"`
	DeviceName       *string   `json:"device_name"`
	PowerWatts       *float64  `json:"power_watts"`
	UsageHoursPerDay *float64  `json:"usage_hours_per_day"`
}

// BulkDeviceUpdateRequest is the body of PUT /rooms/:id/devices
type BulkDeviceUpdateRequest struct {
	Devices []BulkDeviceUpdate `json:"devices"`
}

func roomDetail(room models.Room, devices []models.ElectricalDevice) RoomDetail {
	shares := consumption.DeviceShares(devices, consumption.DefaultPricePerKwh)
	for i := range shares {
		shares[i].DeviceConsumption = shares[i].DeviceConsumption.Rounded()
		shares[i].PercentageOfRoom = consumption.Round2(shares[i].PercentageOfRoom)
	}
	return RoomDetail{
		Room:        room,
		Consumption: consumption.RollupRoom(room, devices, consumption.DefaultPricePerKwh).Rounded(),
		Devices:     shares,
	}
}

// handleGetTenantRooms lists a tenant's rooms in display order
func handleGetTenantRooms(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, ok := paramID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		if _, err := app.store.GetTenant(ctx, tenantID); err != nil {
			respondStoreError(c, err, "Tenant not found")
			return
		}

		rooms, err := app.store.ListRooms(ctx, tenantID)
		if err != nil {
			respondStoreError(c, err, "Tenant not found")
			return
		}

		utils.OKResponse(c, "Rooms retrieved successfully", rooms)
	}
}

// handleCreateRoom adds a room to a tenant. Without a display order the
// room goes after the tenant's last room.
func handleCreateRoom(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, ok := paramID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		if _, err := app.store.GetTenant(ctx, tenantID); err != nil {
			respondStoreError(c, err, "Tenant not found")
			return
		}

		var req RoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		input := validation.RoomInput{RoomType: req.RoomType}
		if req.RoomNumber != nil {
			input.RoomNumber = *req.RoomNumber
		}
		if req.DisplayOrder != nil {
			input.DisplayOrder = *req.DisplayOrder
		} else {
			next, err := app.store.NextDisplayOrder(ctx, tenantID)
			if err != nil {
				respondStoreError(c, err, "Tenant not found")
				return
			}
			input.DisplayOrder = next
		}

		res := validation.Room(input)
		if !res.Valid() {
			utils.ValidationErrorResponse(c, res.Errors)
			return
		}

		room := models.Room{
			ID:           uuid.New(),
			TenantID:     tenantID,
			RoomNumber:   res.Value.RoomNumber,
			RoomType:     res.Value.RoomType,
			DisplayOrder: res.Value.DisplayOrder,
		}
		if err := app.store.CreateRoom(ctx, &room); err != nil {
			respondStoreError(c, err, "Tenant not found")
			return
		}

		app.afterMutation(ctx, change{entity: "room", action: "created", entityID: room.ID, tenantID: tenantID, roomIDs: []uuid.UUID{room.ID}})
		utils.CreatedResponse(c, "Room created successfully", room)
	}
}

// handleGetRoom returns a room with per-device consumption, rollup and health
func handleGetRoom(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, ok := paramID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		room, err := app.store.GetRoom(ctx, roomID)
		if err != nil {
			respondStoreError(c, err, "Room not found")
			return
		}

		devices, err := app.store.ListDevicesByRoom(ctx, roomID)
		if err != nil {
			respondStoreError(c, err, "Room not found")
			return
		}

		detail := roomDetail(*room, devices)
		if app.notModified(c, roomView(roomID), detail) {
			return
		}
		utils.OKResponse(c, "Room retrieved successfully", detail)
	}
}

// handleUpdateRoom changes number, type or display order of a room
func handleUpdateRoom(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, ok := paramID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		room, err := app.store.GetRoom(ctx, roomID)
		if err != nil {
			respondStoreError(c, err, "Room not found")
			return
		}

		var req RoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		input := validation.RoomInput{
			RoomNumber:   room.RoomNumber,
			RoomType:     room.RoomType,
			DisplayOrder: room.DisplayOrder,
		}
		if req.RoomNumber != nil {
			input.RoomNumber = *req.RoomNumber
		}
		if req.RoomType != nil {
			input.RoomType = req.RoomType
		}
		if req.DisplayOrder != nil {
			input.DisplayOrder = *req.DisplayOrder
		}

		res := validation.Room(input)
		if !res.Valid() {
			utils.ValidationErrorResponse(c, res.Errors)
			return
		}

		room.RoomNumber = res.Value.RoomNumber
		room.RoomType = res.Value.RoomType
		room.DisplayOrder = res.Value.DisplayOrder
		if err := app.store.UpdateRoom(ctx, room); err != nil {
			respondStoreError(c, err, "Room not found")
			return
		}

		app.afterMutation(ctx, change{entity: "room", action: "updated", entityID: room.ID, tenantID: room.TenantID, roomIDs: []uuid.UUID{room.ID}})
		utils.OKResponse(c, "Room updated successfully", room)
	}
}

// handleDeleteRoom deletes a room and the devices placed in it
func handleDeleteRoom(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, ok := paramID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		room, err := app.store.GetRoom(ctx, roomID)
		if err != nil {
			respondStoreError(c, err, "Room not found")
			return
		}

		if err := app.store.DeleteRoom(ctx, roomID); err != nil {
			respondStoreError(c, err, "Room not found")
			return
		}

		app.afterMutation(ctx, change{entity: "room", action: "deleted", entityID: roomID, tenantID: room.TenantID, roomIDs: []uuid.UUID{roomID}})
		app.forgetViews(ctx, nil, roomID)

		utils.OKResponse(c, "Room deleted successfully", nil)
	}
}

// handleGetNextRoom tells the client which room to visit after this one
func handleGetNextRoom(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, ok := paramID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		room, err := app.store.GetRoom(ctx, roomID)
		if err != nil {
			respondStoreError(c, err, "Room not found")
			return
		}

		rooms, err := app.store.ListRooms(ctx, room.TenantID)
		if err != nil {
			respondStoreError(c, err, "Room not found")
			return
		}

		utils.OKResponse(c, "Navigation target resolved", consumption.NextTarget(rooms, *room))
	}
}

// handleCopyRoomDevices duplicates the devices of one room into another
// room of the same tenant
func handleCopyRoomDevices(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		sourceID, ok := paramID(c, "id")
		if !ok {
			return
		}
		targetID, ok := paramID(c, "targetId")
		if !ok {
			return
		}
		if sourceID == targetID {
			utils.BadRequestResponse(c, "Source and target room must differ")
			return
		}
		ctx := c.Request.Context()

		source, err := app.store.GetRoom(ctx, sourceID)
		if err != nil {
			respondStoreError(c, err, "Source room not found")
			return
		}
		target, err := app.store.GetRoom(ctx, targetID)
		if err != nil {
			respondStoreError(c, err, "Target room not found")
			return
		}
		if source.TenantID != target.TenantID {
			utils.BadRequestResponse(c, "Rooms belong to different tenants")
			return
		}

		copies, err := app.store.CopyRoomDevices(ctx, sourceID, targetID)
		if err != nil {
			respondStoreError(c, err, "Target room not found")
			return
		}

		app.afterMutation(ctx, change{entity: "room", action: "devices_copied", entityID: targetID, tenantID: target.TenantID, roomIDs: []uuid.UUID{targetID}})
		utils.CreatedResponse(c, fmt.Sprintf("Copied %d devices", len(copies)), CopyResult{
			SourceRoomID:  sourceID,
			TargetRoomID:  targetID,
			DevicesCopied: len(copies),
			Devices:       copies,
		})
	}
}

// handleBulkUpdateDevices edits several devices of a room at once. Either
// every update is applied or none is.
func handleBulkUpdateDevices(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, ok := paramID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		room, err := app.store.GetRoom(ctx, roomID)
		if err != nil {
			respondStoreError(c, err, "Room not found")
			return
		}

		var req BulkDeviceUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		existing, err := app.store.ListDevicesByRoom(ctx, roomID)
		if err != nil {
			respondStoreError(c, err, "Room not found")
			return
		}
		byID := make(map[uuid.UUID]models.ElectricalDevice, len(existing))
		for _, d := range existing {
			byID[d.ID] = d
		}

		batch := validation.Result[[]models.ElectricalDevice]{}
		if len(req.Devices) == 0 {
			validation.Fail(&batch, "devices", "At least one device is required")
		}
		for i, upd := range req.Devices {
			prefix := fmt.Sprintf("devices[%d]", i)
			device, found := byID[upd.ID]
			if !found || !device.InRoom(roomID) {
				validation.Fail(&batch, prefix+".id", "Device is not in this room")
				continue
			}

			res := validateDevice(&device, DeviceRequest{
				DeviceName:       upd.DeviceName,
				PowerWatts:       upd.PowerWatts,
				UsageHoursPerDay: upd.UsageHoursPerDay,
			})
			if !res.Valid() {
				validation.Merge(&batch, prefix, res)
				continue
			}
			device.DeviceName = res.Value.DeviceName
			device.PowerWatts = res.Value.PowerWatts
			device.UsageHoursPerDay = res.Value.UsageHoursPerDay
			batch.Value = append(batch.Value, device)
		}
		if !batch.Valid() {
			utils.ValidationErrorResponse(c, batch.Errors)
			return
		}

		if err := app.store.UpdateDevices(ctx, batch.Value); err != nil {
			respondStoreError(c, err, "Device not found")
			return
		}

		updated, err := app.store.ListDevicesByRoom(ctx, roomID)
		if err != nil {
			respondStoreError(c, err, "Room not found")
			return
		}

		app.afterMutation(ctx, change{entity: "room", action: "devices_updated", entityID: roomID, tenantID: room.TenantID, roomIDs: []uuid.UUID{roomID}})
		utils.OKResponse(c, fmt.Sprintf("Updated %d devices", len(batch.Value)), roomDetail(*room, updated))
	}
}
