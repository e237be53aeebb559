package main

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pavitra93/hotel-energy-tracker/shared/consumption"
	"github.com/pavitra93/hotel-energy-tracker/shared/models"
	"github.com/pavitra93/hotel-energy-tracker/shared/utils"
	"github.com/pavitra93/hotel-energy-tracker/shared/validation"
)

// DeviceRequest is the body of device create and update. On update, omitted
// fields keep their value; room_id "" takes the device out of its room.
type DeviceRequest struct {
	DeviceName       *string  `json:"device_name"`
	PowerWatts       *float64 `json:"power_watts"`
	UsageHoursPerDay *float64 `json:"usage_hours_per_day"`
	RoomID           *string  `json:"room_id"`
}

// DeviceView is a device with its consumption at the default rate
type DeviceView struct {
	Device      models.ElectricalDevice       `json:"device"`
	Consumption consumption.DeviceConsumption `json:"consumption"`
}

func deviceView(device models.ElectricalDevice) DeviceView {
	return DeviceView{
		Device:      device,
		Consumption: consumption.ForDevice(device, consumption.DefaultPricePerKwh).Rounded(),
	}
}

// validateDevice applies req on top of base (nil when creating) and checks
// the result. A new device must state its power and usage.
func validateDevice(base *models.ElectricalDevice, req DeviceRequest) validation.Result[validation.DeviceInput] {
	var in validation.DeviceInput
	if base != nil {
		in = validation.DeviceInput{
			DeviceName:       base.DeviceName,
			PowerWatts:       base.PowerWatts,
			UsageHoursPerDay: base.UsageHoursPerDay,
			RoomID:           base.RoomID,
		}
	}
	if req.DeviceName != nil {
		in.DeviceName = *req.DeviceName
	}
	if req.PowerWatts != nil {
		in.PowerWatts = *req.PowerWatts
	}
	if req.UsageHoursPerDay != nil {
		in.UsageHoursPerDay = *req.UsageHoursPerDay
	}

	var roomErr string
	if req.RoomID != nil {
		in.RoomID = nil
		if raw := strings.TrimSpace(*req.RoomID); raw != "" {
			roomID, err := uuid.Parse(raw)
			if err != nil {
				roomErr = "Room ID must be a valid UUID"
			} else {
				in.RoomID = &roomID
			}
		}
	}

	res := validation.Device(in)
	if base == nil && req.PowerWatts == nil {
		validation.Fail(&res, "power_watts", "Power is required")
	}
	if base == nil && req.UsageHoursPerDay == nil {
		validation.Fail(&res, "usage_hours_per_day", "Usage hours per day is required")
	}
	if roomErr != "" {
		validation.Fail(&res, "room_id", roomErr)
	}
	return res
}

func roomIDs(ids ...*uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == nil {
			continue
		}
		dup := false
		for _, seen := range out {
			if seen == *id {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, *id)
		}
	}
	return out
}

// handleGetTenantDevices lists every device of a tenant, including
// devices not placed in any room
func handleGetTenantDevices(app *App) gin.HandlerFunc {
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

		devices, err := app.store.ListDevicesByTenant(ctx, tenantID)
		if err != nil {
			respondStoreError(c, err, "Tenant not found")
			return
		}

		views := make([]DeviceView, 0, len(devices))
		for _, d := range devices {
			views = append(views, deviceView(d))
		}
		utils.OKResponse(c, "Devices retrieved successfully", views)
	}
}

// handleCreateDevice adds a device to a tenant, optionally inside a room
func handleCreateDevice(app *App) gin.HandlerFunc {
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

		var req DeviceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		res := validateDevice(nil, req)
		if !res.Valid() {
			utils.ValidationErrorResponse(c, res.Errors)
			return
		}

		device := models.ElectricalDevice{
			ID:               uuid.New(),
			TenantID:         tenantID,
			RoomID:           res.Value.RoomID,
			DeviceName:       res.Value.DeviceName,
			PowerWatts:       res.Value.PowerWatts,
			UsageHoursPerDay: res.Value.UsageHoursPerDay,
		}
		if err := app.store.CreateDevice(ctx, &device); err != nil {
			respondStoreError(c, err, "Tenant not found")
			return
		}

		app.afterMutation(ctx, change{entity: "device", action: "created", entityID: device.ID, tenantID: tenantID, roomIDs: roomIDs(device.RoomID)})
		utils.CreatedResponse(c, "Device created successfully", deviceView(device))
	}
}

// handleGetDevice returns a device with its consumption
func handleGetDevice(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID, ok := paramID(c, "id")
		if !ok {
			return
		}

		device, err := app.store.GetDevice(c.Request.Context(), deviceID)
		if err != nil {
			respondStoreError(c, err, "Device not found")
			return
		}

		utils.OKResponse(c, "Device retrieved successfully", deviceView(*device))
	}
}

// handleUpdateDevice edits a device or moves it between rooms
func handleUpdateDevice(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID, ok := paramID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		device, err := app.store.GetDevice(ctx, deviceID)
		if err != nil {
			respondStoreError(c, err, "Device not found")
			return
		}

		var req DeviceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		res := validateDevice(device, req)
		if !res.Valid() {
			utils.ValidationErrorResponse(c, res.Errors)
			return
		}

		previousRoom := device.RoomID
		device.DeviceName = res.Value.DeviceName
		device.PowerWatts = res.Value.PowerWatts
		device.UsageHoursPerDay = res.Value.UsageHoursPerDay
		device.RoomID = res.Value.RoomID
		if err := app.store.UpdateDevice(ctx, device); err != nil {
			respondStoreError(c, err, "Device not found")
			return
		}

		app.afterMutation(ctx, change{entity: "device", action: "updated", entityID: device.ID, tenantID: device.TenantID, roomIDs: roomIDs(device.RoomID, previousRoom)})
		utils.OKResponse(c, "Device updated successfully", deviceView(*device))
	}
}

// handleDeleteDevice deletes a device
func handleDeleteDevice(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID, ok := paramID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		device, err := app.store.GetDevice(ctx, deviceID)
		if err != nil {
			respondStoreError(c, err, "Device not found")
			return
		}

		if err := app.store.DeleteDevice(ctx, deviceID); err != nil {
			respondStoreError(c, err, "Device not found")
			return
		}

		app.afterMutation(ctx, change{entity: "device", action: "deleted", entityID: deviceID, tenantID: device.TenantID, roomIDs: roomIDs(device.RoomID)})
		utils.OKResponse(c, "Device deleted successfully", nil)
	}
}
