package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pavitra93/hotel-energy-tracker/shared/models"
)

// ListDevicesByRoom returns the devices placed in a room
func (s *Store) ListDevicesByRoom(ctx context.Context, roomID uuid.UUID) ([]models.ElectricalDevice, error) {
	var devices []models.ElectricalDevice
	err := s.run(ctx, func(tx *gorm.DB) error {
		return tx.Where("room_id = ?", roomID).Order("created_at ASC").Find(&devices).Error
	})
	return devices, translate(err)
}

// ListDevicesByTenant returns every device of a tenant, assigned or not
func (s *Store) ListDevicesByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.ElectricalDevice, error) {
	var devices []models.ElectricalDevice
	err := s.run(ctx, func(tx *gorm.DB) error {
		return tx.Where("tenant_id = ?", tenantID).Order("created_at ASC").Find(&devices).Error
	})
	return devices, translate(err)
}

// ListDevicesByTenants returns every device of several tenants in one query
func (s *Store) ListDevicesByTenants(ctx context.Context, tenantIDs []uuid.UUID) ([]models.ElectricalDevice, error) {
	var devices []models.ElectricalDevice
	if len(tenantIDs) == 0 {
		return devices, nil
	}
	err := s.run(ctx, func(tx *gorm.DB) error {
		return tx.Where("tenant_id IN ?", tenantIDs).Order("created_at ASC").Find(&devices).Error
	})
	return devices, translate(err)
}

// GetDevice returns a device by ID
func (s *Store) GetDevice(ctx context.Context, id uuid.UUID) (*models.ElectricalDevice, error) {
	var device models.ElectricalDevice
	err := s.run(ctx, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).First(&device).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &device, nil
}

// CreateDevice inserts a device. A room, when given, must belong to the
// device's tenant.
func (s *Store) CreateDevice(ctx context.Context, device *models.ElectricalDevice) error {
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	err := s.run(ctx, func(tx *gorm.DB) error {
		if err := roomBelongsTo(tx, device.RoomID, device.TenantID); err != nil {
			return err
		}
		return tx.Create(device).Error
	})
	return translate(err)
}

// UpdateDevice saves a device's editable fields and re-stamps updated_at
func (s *Store) UpdateDevice(ctx context.Context, device *models.ElectricalDevice) error {
	err := s.run(ctx, func(tx *gorm.DB) error {
		return updateDevice(tx, device)
	})
	return translate(err)
}

// UpdateDevices saves several devices in one transaction; if any update
// fails none of them are applied
func (s *Store) UpdateDevices(ctx context.Context, devices []models.ElectricalDevice) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		for i := range devices {
			if err := updateDevice(tx, &devices[i]); err != nil {
				return err
			}
		}
		return nil
	})
	return translate(err)
}

// DeleteDevice removes a device
func (s *Store) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	err := s.run(ctx, func(tx *gorm.DB) error {
		return affected(tx.Delete(&models.ElectricalDevice{}, "id = ?", id))
	})
	return translate(err)
}

// CopyRoomDevices duplicates every device of the source room into the
// target room as new rows. The source is left untouched and devices
// already in the target are kept.
func (s *Store) CopyRoomDevices(ctx context.Context, sourceRoomID, targetRoomID uuid.UUID) ([]models.ElectricalDevice, error) {
	var copies []models.ElectricalDevice
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var target models.Room
		if err := tx.Where("id = ?", targetRoomID).First(&target).Error; err != nil {
			return err
		}

		var source []models.ElectricalDevice
		if err := tx.Where("room_id = ?", sourceRoomID).Order("created_at ASC").Find(&source).Error; err != nil {
			return err
		}
		if len(source) == 0 {
			return ErrNothingToCopy
		}

		copies = make([]models.ElectricalDevice, 0, len(source))
		for _, d := range source {
			roomID := target.ID
			copies = append(copies, models.ElectricalDevice{
				ID:               uuid.New(),
				TenantID:         target.TenantID,
				RoomID:           &roomID,
				DeviceName:       d.DeviceName,
				PowerWatts:       d.PowerWatts,
				UsageHoursPerDay: d.UsageHoursPerDay,
			})
		}
		return tx.Create(&copies).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return copies, nil
}

func updateDevice(tx *gorm.DB, device *models.ElectricalDevice) error {
	if err := roomBelongsTo(tx, device.RoomID, device.TenantID); err != nil {
		return err
	}
	device.UpdatedAt = time.Now()
	return affected(tx.Model(&models.ElectricalDevice{}).Where("id = ?", device.ID).Updates(map[string]interface{}{
		"device_name":         device.DeviceName,
		"power_watts":         device.PowerWatts,
		"usage_hours_per_day": device.UsageHoursPerDay,
		"room_id":             device.RoomID,
		"updated_at":          device.UpdatedAt,
	}))
}

func roomBelongsTo(tx *gorm.DB, roomID *uuid.UUID, tenantID uuid.UUID) error {
	if roomID == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Room{}).Where("id = ? AND tenant_id = ?", *roomID, tenantID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrInvalidReference
	}
	return nil
}
