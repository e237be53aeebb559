package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pavitra93/hotel-energy-tracker/shared/models"
)

// ListRooms returns a tenant's rooms ordered by display order ascending
func (s *Store) ListRooms(ctx context.Context, tenantID uuid.UUID) ([]models.Room, error) {
	var rooms []models.Room
	err := s.run(ctx, func(tx *gorm.DB) error {
		return tx.Where("tenant_id = ?", tenantID).
			Order("display_order ASC").
			Order("room_number ASC").
			Find(&rooms).Error
	})
	return rooms, translate(err)
}

// ListRoomsByTenants returns the rooms of several tenants in one query,
// ordered by display order ascending
func (s *Store) ListRoomsByTenants(ctx context.Context, tenantIDs []uuid.UUID) ([]models.Room, error) {
	var rooms []models.Room
	if len(tenantIDs) == 0 {
		return rooms, nil
	}
	err := s.run(ctx, func(tx *gorm.DB) error {
		return tx.Where("tenant_id IN ?", tenantIDs).
			Order("display_order ASC").
			Order("room_number ASC").
			Find(&rooms).Error
	})
	return rooms, translate(err)
}

// GetRoom returns a room by ID
func (s *Store) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := s.run(ctx, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).First(&room).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

// NextDisplayOrder returns one past the highest display order of a tenant's
// rooms, or 1 for a tenant without rooms
func (s *Store) NextDisplayOrder(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var max int
	err := s.run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&models.Room{}).
			Where("tenant_id = ?", tenantID).
			Select("COALESCE(MAX(display_order), 0)").
			Scan(&max).Error
	})
	if err != nil {
		return 0, translate(err)
	}
	return max + 1, nil
}

// CreateRoom inserts a room, rejecting a room number already used in the tenant
func (s *Store) CreateRoom(ctx context.Context, room *models.Room) error {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	err := s.run(ctx, func(tx *gorm.DB) error {
		if err := roomNumberTaken(tx, room.TenantID, room.RoomNumber, uuid.Nil); err != nil {
			return err
		}
		return tx.Create(room).Error
	})
	return translate(err)
}

// UpdateRoom saves number, type and display order and re-stamps updated_at
func (s *Store) UpdateRoom(ctx context.Context, room *models.Room) error {
	room.UpdatedAt = time.Now()
	err := s.run(ctx, func(tx *gorm.DB) error {
		if err := roomNumberTaken(tx, room.TenantID, room.RoomNumber, room.ID); err != nil {
			return err
		}
		return affected(tx.Model(&models.Room{}).Where("id = ?", room.ID).Updates(map[string]interface{}{
			"room_number":   room.RoomNumber,
			"room_type":     room.RoomType,
			"display_order": room.DisplayOrder,
			"updated_at":    room.UpdatedAt,
		}))
	})
	return translate(err)
}

// DeleteRoom removes a room together with the devices placed in it
func (s *Store) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	err := s.run(ctx, func(tx *gorm.DB) error {
		return affected(tx.Delete(&models.Room{}, "id = ?", id))
	})
	return translate(err)
}

func roomNumberTaken(tx *gorm.DB, tenantID uuid.UUID, number string, except uuid.UUID) error {
	var count int64
	q := tx.Model(&models.Room{}).Where("tenant_id = ? AND room_number = ?", tenantID, number)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: room number %q already exists for this tenant", ErrConflict, number)
	}
	return nil
}
