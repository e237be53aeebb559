// Package validation checks user input for tenants, rooms and devices before
// it reaches the data store. Each check returns a Result carrying either the
// normalized value or per-field messages.
package validation

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pavitra93/hotel-energy-tracker/shared/models"
)

const (
	tenantNameMin  = 2
	tenantNameMax  = 255
	roomNumberMax  = 50
	deviceNameMax  = 255
	maxHoursPerDay = 24

	// numeric(10,2) column limit
	maxPowerWatts = 99999999.99
)

// Result is the outcome of validating a value of type T
type Result[T any] struct {
	Value  T
	Errors map[string]string
}

// Valid reports whether no field failed
func (r Result[T]) Valid() bool {
	return len(r.Errors) == 0
}

// Fields returns the failing field names in sorted order
func (r Result[T]) Fields() []string {
	fields := make([]string, 0, len(r.Errors))
	for f := range r.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (r *Result[T]) fail(field, message string) {
	if r.Errors == nil {
		r.Errors = make(map[string]string)
	}
	if _, exists := r.Errors[field]; !exists {
		r.Errors[field] = message
	}
}

// TenantInput is the editable part of a tenant
type TenantInput struct {
	Name string
}

// RoomInput is the editable part of a room
type RoomInput struct {
	RoomNumber   string
	RoomType     *string
	DisplayOrder int
}

// DeviceInput is the editable part of a device
type DeviceInput struct {
	DeviceName       string
	PowerWatts       float64
	UsageHoursPerDay float64
	RoomID           *uuid.UUID
}

// Tenant trims and checks a tenant name
func Tenant(in TenantInput) Result[TenantInput] {
	res := Result[TenantInput]{Value: TenantInput{Name: strings.TrimSpace(in.Name)}}

	n := utf8.RuneCountInString(res.Value.Name)
	switch {
	case n == 0:
		res.fail("name", "Name is required")
	case n < tenantNameMin:
		res.fail("name", "Name must be at least 2 characters")
	case n > tenantNameMax:
		res.fail("name", "Name must be at most 255 characters")
	}
	return res
}

// Room trims and checks a room, lower-casing the room type. An empty room
// type is treated as absent.
func Room(in RoomInput) Result[RoomInput] {
	res := Result[RoomInput]{Value: RoomInput{
		RoomNumber:   strings.TrimSpace(in.RoomNumber),
		DisplayOrder: in.DisplayOrder,
	}}

	n := utf8.RuneCountInString(res.Value.RoomNumber)
	if n == 0 {
		res.fail("room_number", "Room number is required")
	} else if n > roomNumberMax {
		res.fail("room_number", "Room number must be at most 50 characters")
	}

	if in.RoomType != nil {
		roomType := strings.ToLower(strings.TrimSpace(*in.RoomType))
		if roomType != "" {
			if !isRoomType(roomType) {
				res.fail("room_type", "Room type must be one of: "+strings.Join(models.RoomTypes, ", "))
			}
			res.Value.RoomType = &roomType
		}
	}

	if in.DisplayOrder < 0 {
		res.fail("display_order", "Display order cannot be negative")
	}
	return res
}

// Device trims and checks a device. Power and usage are stored with 2
// decimals, so valid values are rounded to that precision here and every
// figure computed from the result matches what is persisted.
func Device(in DeviceInput) Result[DeviceInput] {
	res := Result[DeviceInput]{Value: in}
	res.Value.DeviceName = strings.TrimSpace(in.DeviceName)

	n := utf8.RuneCountInString(res.Value.DeviceName)
	if n == 0 {
		res.fail("device_name", "Device name is required")
	} else if n > deviceNameMax {
		res.fail("device_name", "Device name must be at most 255 characters")
	}

	switch {
	case !finite(in.PowerWatts) || in.PowerWatts < 0:
		res.fail("power_watts", "Power must be a number of watts of at least 0")
	case round2(in.PowerWatts) > maxPowerWatts:
		res.fail("power_watts", "Power must be at most 99999999.99 watts")
	default:
		res.Value.PowerWatts = round2(in.PowerWatts)
	}

	if !finite(in.UsageHoursPerDay) || in.UsageHoursPerDay < 0 || round2(in.UsageHoursPerDay) > maxHoursPerDay {
		res.fail("usage_hours_per_day", "Usage must be between 0 and 24 hours per day")
	} else {
		res.Value.UsageHoursPerDay = round2(in.UsageHoursPerDay)
	}
	return res
}

// Merge copies errors from other into r with every field name prefixed.
// It is used to report batch input such as "devices[2].power_watts".
func Merge[T, U any](r *Result[T], prefix string, other Result[U]) {
	for field, msg := range other.Errors {
		r.fail(prefix+"."+field, msg)
	}
}

// Fail records a message for field on r
func Fail[T any](r *Result[T], field, message string) {
	r.fail(field, message)
}

func isRoomType(v string) bool {
	for _, t := range models.RoomTypes {
		if t == v {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
