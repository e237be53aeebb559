package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pavitra93/hotel-energy-tracker/shared/middleware"
	"github.com/pavitra93/hotel-energy-tracker/shared/models"
	"github.com/pavitra93/hotel-energy-tracker/shared/utils"
)

// DataStore is the persistence the tracker needs; *store.Store implements it
type DataStore interface {
	ListTenants(ctx context.Context) ([]models.Tenant, error)
	GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	CreateTenant(ctx context.Context, tenant *models.Tenant) error
	UpdateTenant(ctx context.Context, tenant *models.Tenant) error
	DeleteTenant(ctx context.Context, id uuid.UUID) error

	ListRooms(ctx context.Context, tenantID uuid.UUID) ([]models.Room, error)
	ListRoomsByTenants(ctx context.Context, tenantIDs []uuid.UUID) ([]models.Room, error)
	GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error)
	NextDisplayOrder(ctx context.Context, tenantID uuid.UUID) (int, error)
	CreateRoom(ctx context.Context, room *models.Room) error
	UpdateRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, id uuid.UUID) error

	ListDevicesByRoom(ctx context.Context, roomID uuid.UUID) ([]models.ElectricalDevice, error)
	ListDevicesByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.ElectricalDevice, error)
	ListDevicesByTenants(ctx context.Context, tenantIDs []uuid.UUID) ([]models.ElectricalDevice, error)
	GetDevice(ctx context.Context, id uuid.UUID) (*models.ElectricalDevice, error)
	CreateDevice(ctx context.Context, device *models.ElectricalDevice) error
	UpdateDevice(ctx context.Context, device *models.ElectricalDevice) error
	UpdateDevices(ctx context.Context, devices []models.ElectricalDevice) error
	DeleteDevice(ctx context.Context, id uuid.UUID) error
	CopyRoomDevices(ctx context.Context, sourceRoomID, targetRoomID uuid.UUID) ([]models.ElectricalDevice, error)
}

// ViewVersions tracks staleness of tenant and room views; *utils.ViewTracker implements it
type ViewVersions interface {
	MarkStale(ctx context.Context, tenantID uuid.UUID, roomIDs ...uuid.UUID) error
	TenantVersion(ctx context.Context, tenantID uuid.UUID) (string, error)
	RoomVersion(ctx context.Context, roomID uuid.UUID) (string, error)
	Forget(ctx context.Context, tenantID *uuid.UUID, roomIDs ...uuid.UUID) error
}

// App holds the tracker's collaborators. views is nil when Redis is not available.
type App struct {
	store  DataStore
	views  ViewVersions
	events ChangePublisher
}

// setupRouter wires every route. metrics and auth are optional.
func setupRouter(app *App, metrics *middleware.Metrics, auth *middleware.AuthMiddleware) *gin.Engine {
	router := gin.Default()

	if metrics != nil {
		router.Use(metrics.Middleware())
		router.GET("/metrics", metrics.Handler())
	}

	router.GET("/health", func(c *gin.Context) {
		utils.OKResponse(c, "Tracker service is healthy", nil)
	})

	api := router.Group("/")
	if auth != nil {
		api.Use(auth.RequireAuth())
	}

	tenants := api.Group("/tenants")
	{
		tenants.POST("", handleCreateTenant(app))
		tenants.GET("", handleGetTenants(app))
		tenants.GET("/:id", handleGetTenantDashboard(app))
		tenants.PUT("/:id", handleUpdateTenant(app))
		tenants.DELETE("/:id", handleDeleteTenant(app))

		tenants.GET("/:id/rooms", handleGetTenantRooms(app))
		tenants.POST("/:id/rooms", handleCreateRoom(app))
		tenants.GET("/:id/devices", handleGetTenantDevices(app))
		tenants.POST("/:id/devices", handleCreateDevice(app))

		tenants.GET("/:id/report", handleGetReport(app))
		tenants.GET("/:id/report.xlsx", handleExportReport(app))
	}

	rooms := api.Group("/rooms")
	{
		rooms.GET("/:id", handleGetRoom(app))
		rooms.PUT("/:id", handleUpdateRoom(app))
		rooms.DELETE("/:id", handleDeleteRoom(app))
		rooms.GET("/:id/next", handleGetNextRoom(app))
		rooms.POST("/:id/copy-to/:targetId", handleCopyRoomDevices(app))
		rooms.PUT("/:id/devices", handleBulkUpdateDevices(app))
	}

	devices := api.Group("/devices")
	{
		devices.GET("/:id", handleGetDevice(app))
		devices.PUT("/:id", handleUpdateDevice(app))
		devices.DELETE("/:id", handleDeleteDevice(app))
	}

	return router
}
