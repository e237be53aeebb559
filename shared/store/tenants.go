package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pavitra93/hotel-energy-tracker/shared/models"
)

// ListTenants returns all tenants ordered by name
func (s *Store) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := s.run(ctx, func(tx *gorm.DB) error {
		return tx.Order("name ASC").Find(&tenants).Error
	})
	return tenants, translate(err)
}

// GetTenant returns a tenant by ID
func (s *Store) GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.run(ctx, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).First(&tenant).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &tenant, nil
}

// CreateTenant inserts a tenant, rejecting a name already in use
func (s *Store) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	err := s.run(ctx, func(tx *gorm.DB) error {
		if err := tenantNameTaken(tx, tenant.Name, uuid.Nil); err != nil {
			return err
		}
		return tx.Create(tenant).Error
	})
	return translate(err)
}

// UpdateTenant renames a tenant and re-stamps updated_at
func (s *Store) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	tenant.UpdatedAt = time.Now()
	err := s.run(ctx, func(tx *gorm.DB) error {
		if err := tenantNameTaken(tx, tenant.Name, tenant.ID); err != nil {
			return err
		}
		return affected(tx.Model(&models.Tenant{}).Where("id = ?", tenant.ID).Updates(map[string]interface{}{
			"name":       tenant.Name,
			"updated_at": tenant.UpdatedAt,
		}))
	})
	return translate(err)
}

// DeleteTenant removes a tenant; its rooms and devices go with it
func (s *Store) DeleteTenant(ctx context.Context, id uuid.UUID) error {
	err := s.run(ctx, func(tx *gorm.DB) error {
		return affected(tx.Delete(&models.Tenant{}, "id = ?", id))
	})
	return translate(err)
}

func tenantNameTaken(tx *gorm.DB, name string, except uuid.UUID) error {
	var count int64
	q := tx.Model(&models.Tenant{}).Where("name = ?", name)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: tenant name %q is already in use", ErrConflict, name)
	}
	return nil
}
