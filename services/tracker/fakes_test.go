package main

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pavitra93/hotel-energy-tracker/shared/models"
	"github.com/pavitra93/hotel-energy-tracker/shared/store"
)

// fakeStore is an in-memory DataStore with the same failure modes as the
// gorm store
type fakeStore struct {
	mu      sync.Mutex
	clock   time.Time
	tenants map[uuid.UUID]models.Tenant
	rooms   map[uuid.UUID]models.Room
	devices map[uuid.UUID]models.ElectricalDevice
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		tenants: make(map[uuid.UUID]models.Tenant),
		rooms:   make(map[uuid.UUID]models.Room),
		devices: make(map[uuid.UUID]models.ElectricalDevice),
	}
}

func (s *fakeStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *fakeStore) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *fakeStore) GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (s *fakeStore) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tenants {
		if t.Name == tenant.Name {
			return fmt.Errorf("%w: tenant name %q is already in use", store.ErrConflict, tenant.Name)
		}
	}
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	tenant.CreatedAt = s.tick()
	tenant.UpdatedAt = tenant.CreatedAt
	s.tenants[tenant.ID] = *tenant
	return nil
}

func (s *fakeStore) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenants[tenant.ID]; !ok {
		return store.ErrNotFound
	}
	for _, t := range s.tenants {
		if t.Name == tenant.Name && t.ID != tenant.ID {
			return fmt.Errorf("%w: tenant name %q is already in use", store.ErrConflict, tenant.Name)
		}
	}
	tenant.UpdatedAt = s.tick()
	s.tenants[tenant.ID] = *tenant
	return nil
}

func (s *fakeStore) DeleteTenant(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenants[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.tenants, id)
	for rid, r := range s.rooms {
		if r.TenantID == id {
			delete(s.rooms, rid)
		}
	}
	for did, d := range s.devices {
		if d.TenantID == id {
			delete(s.devices, did)
		}
	}
	return nil
}

func (s *fakeStore) ListRooms(ctx context.Context, tenantID uuid.UUID) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Room{}
	for _, r := range s.rooms {
		if r.TenantID == tenantID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].RoomNumber < out[j].RoomNumber
	})
	return out, nil
}

func (s *fakeStore) ListRoomsByTenants(ctx context.Context, tenantIDs []uuid.UUID) ([]models.Room, error) {
	out := []models.Room{}
	for _, id := range tenantIDs {
		rooms, _ := s.ListRooms(ctx, id)
		out = append(out, rooms...)
	}
	return out, nil
}

func (s *fakeStore) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (s *fakeStore) NextDisplayOrder(ctx context.Context, tenantID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	max := 0
	for _, r := range s.rooms {
		if r.TenantID == tenantID && r.DisplayOrder > max {
			max = r.DisplayOrder
		}
	}
	return max + 1, nil
}

func (s *fakeStore) roomNumberTaken(room *models.Room) error {
	for _, r := range s.rooms {
		if r.TenantID == room.TenantID && r.RoomNumber == room.RoomNumber && r.ID != room.ID {
			return fmt.Errorf("%w: room number %q already exists for this tenant", store.ErrConflict, room.RoomNumber)
		}
	}
	return nil
}

func (s *fakeStore) CreateRoom(ctx context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenants[room.TenantID]; !ok {
		return store.ErrInvalidReference
	}
	if err := s.roomNumberTaken(room); err != nil {
		return err
	}
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	room.CreatedAt = s.tick()
	room.UpdatedAt = room.CreatedAt
	s.rooms[room.ID] = *room
	return nil
}

func (s *fakeStore) UpdateRoom(ctx context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; !ok {
		return store.ErrNotFound
	}
	if err := s.roomNumberTaken(room); err != nil {
		return err
	}
	room.UpdatedAt = s.tick()
	s.rooms[room.ID] = *room
	return nil
}

func (s *fakeStore) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.rooms, id)
	for did, d := range s.devices {
		if d.InRoom(id) {
			delete(s.devices, did)
		}
	}
	return nil
}

func (s *fakeStore) listDevices(match func(models.ElectricalDevice) bool) []models.ElectricalDevice {
	out := []models.ElectricalDevice{}
	for _, d := range s.devices {
		if match(d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *fakeStore) ListDevicesByRoom(ctx context.Context, roomID uuid.UUID) ([]models.ElectricalDevice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listDevices(func(d models.ElectricalDevice) bool { return d.InRoom(roomID) }), nil
}

func (s *fakeStore) ListDevicesByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.ElectricalDevice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listDevices(func(d models.ElectricalDevice) bool { return d.TenantID == tenantID }), nil
}

func (s *fakeStore) ListDevicesByTenants(ctx context.Context, tenantIDs []uuid.UUID) ([]models.ElectricalDevice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(tenantIDs))
	for _, id := range tenantIDs {
		wanted[id] = true
	}
	return s.listDevices(func(d models.ElectricalDevice) bool { return wanted[d.TenantID] }), nil
}

func (s *fakeStore) GetDevice(ctx context.Context, id uuid.UUID) (*models.ElectricalDevice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &d, nil
}

func (s *fakeStore) roomBelongsTo(roomID *uuid.UUID, tenantID uuid.UUID) error {
	if roomID == nil {
		return nil
	}
	r, ok := s.rooms[*roomID]
	if !ok || r.TenantID != tenantID {
		return store.ErrInvalidReference
	}
	return nil
}

func (s *fakeStore) CreateDevice(ctx context.Context, device *models.ElectricalDevice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.roomBelongsTo(device.RoomID, device.TenantID); err != nil {
		return err
	}
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	device.CreatedAt = s.tick()
	device.UpdatedAt = device.CreatedAt
	s.devices[device.ID] = *device
	return nil
}

func (s *fakeStore) updateDevice(device *models.ElectricalDevice) error {
	current, ok := s.devices[device.ID]
	if !ok {
		return store.ErrNotFound
	}
	if err := s.roomBelongsTo(device.RoomID, current.TenantID); err != nil {
		return err
	}
	device.CreatedAt = current.CreatedAt
	device.UpdatedAt = s.tick()
	s.devices[device.ID] = *device
	return nil
}

func (s *fakeStore) UpdateDevice(ctx context.Context, device *models.ElectricalDevice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateDevice(device)
}

func (s *fakeStore) UpdateDevices(ctx context.Context, devices []models.ElectricalDevice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[uuid.UUID]models.ElectricalDevice, len(s.devices))
	for id, d := range s.devices {
		snapshot[id] = d
	}
	for i := range devices {
		if err := s.updateDevice(&devices[i]); err != nil {
			s.devices = snapshot
			return err
		}
	}
	return nil
}

func (s *fakeStore) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.devices[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.devices, id)
	return nil
}

func (s *fakeStore) CopyRoomDevices(ctx context.Context, sourceRoomID, targetRoomID uuid.UUID) ([]models.ElectricalDevice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.rooms[targetRoomID]
	if !ok {
		return nil, store.ErrNotFound
	}
	source := s.listDevices(func(d models.ElectricalDevice) bool { return d.InRoom(sourceRoomID) })
	if len(source) == 0 {
		return nil, store.ErrNothingToCopy
	}
	copies := make([]models.ElectricalDevice, 0, len(source))
	for _, d := range source {
		roomID := target.ID
		c := models.ElectricalDevice{
			ID:               uuid.New(),
			TenantID:         target.TenantID,
			RoomID:           &roomID,
			DeviceName:       d.DeviceName,
			PowerWatts:       d.PowerWatts,
			UsageHoursPerDay: d.UsageHoursPerDay,
			CreatedAt:        s.tick(),
		}
		c.UpdatedAt = c.CreatedAt
		s.devices[c.ID] = c
		copies = append(copies, c)
	}
	return copies, nil
}

// seed helpers write straight into the maps

func (s *fakeStore) seedTenant(name string) models.Tenant {
	t := models.Tenant{ID: uuid.New(), Name: name}
	if err := s.CreateTenant(context.Background(), &t); err != nil {
		panic(err)
	}
	return t
}

func (s *fakeStore) seedRoom(tenantID uuid.UUID, number string, order int) models.Room {
	r := models.Room{ID: uuid.New(), TenantID: tenantID, RoomNumber: number, DisplayOrder: order}
	if err := s.CreateRoom(context.Background(), &r); err != nil {
		panic(err)
	}
	return r
}

func (s *fakeStore) seedDevice(tenantID uuid.UUID, roomID *uuid.UUID, name string, watts, hours float64) models.ElectricalDevice {
	d := models.ElectricalDevice{
		ID:               uuid.New(),
		TenantID:         tenantID,
		RoomID:           roomID,
		DeviceName:       name,
		PowerWatts:       watts,
		UsageHoursPerDay: hours,
	}
	if err := s.CreateDevice(context.Background(), &d); err != nil {
		panic(err)
	}
	return d
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ChangeEvent
}

func (p *recordingPublisher) Publish(event ChangeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Name())
	}
	return out
}
