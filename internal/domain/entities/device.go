// Package entities defines the domain records of the device service. They
// depend only on the geo value types, never on storage or HTTP.
//
// Go Learning Note: "internal/" directory
// Packages under internal/ cannot be imported by code outside this module. Go
// enforces this at the compiler level.
package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"devicemap/internal/geo"
)

// ErrInvalidDevice is returned by Validate. The wrapped message names the
// offending field.
var ErrInvalidDevice = errors.New("invalid device")

// DeviceStatus is a typed string enum for the reported device state.
//
// Go Learning Note: Type Aliases for Enums
// Go has no enum keyword; a named string type plus constants is the usual
// substitute when the value is serialized to JSON.
type DeviceStatus string

const (
	DeviceStatusOnline      DeviceStatus = "online"
	DeviceStatusOffline     DeviceStatus = "offline"
	DeviceStatusMaintenance DeviceStatus = "maintenance"
)

// DeviceStatuses lists every known status.
var DeviceStatuses = []DeviceStatus{DeviceStatusOnline, DeviceStatusOffline, DeviceStatusMaintenance}

// Valid reports whether s is a known status.
func (s DeviceStatus) Valid() bool {
	switch s {
	case DeviceStatusOnline, DeviceStatusOffline, DeviceStatusMaintenance:
		return true
	}
	return false
}

// ParseDeviceStatus parses a status string case-insensitively.
func ParseDeviceStatus(s string) (DeviceStatus, error) {
	status := DeviceStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidDevice, s)
	}
	return status, nil
}

// SystemStats is the simulated telemetry block of a device. The pointer fields
// are optional and omitted from JSON when absent.
type SystemStats struct {
	CPUUsage     float64    `json:"cpuUsage"`
	RAMUsage     float64    `json:"ramUsage"`
	Temperature  float64    `json:"temperature"`
	Uptime       float64    `json:"uptime"`
	CPUFrequency *float64   `json:"cpuFrequency,omitempty"`
	RAMUsed      *float64   `json:"ramUsed,omitempty"`
	RAMTotal     *float64   `json:"ramTotal,omitempty"`
	LastUpdated  *time.Time `json:"lastUpdated,omitempty"`
}

// Resource is a link attached to a device (manual, API docs, ...).
type Resource struct {
	Name string `json:"name"`
	Link string `json:"link"`
	Type string `json:"type,omitempty"`
}

// Device is one registered device as stored in the devices file.
//
// Geohash is derived from Coordinates at the effective precision and must be
// refreshed with UpdateGeohash whenever either of them changes.
type Device struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Status           DeviceStatus   `json:"status"`
	Coordinates      geo.Coordinate `json:"coordinates"`
	SystemStats      SystemStats    `json:"systemStats"`
	Geohash          string         `json:"geohash"`
	GeohashPrecision *int           `json:"geohashPrecision,omitempty"`
	DeviceType       string         `json:"deviceType"`
	Model            string         `json:"model"`
	Location         string         `json:"location"`
	LastSeen         time.Time      `json:"lastSeen"`
	IPAddress        string         `json:"ipAddress,omitempty"`
	UserAgent        string         `json:"userAgent,omitempty"`
	Manufacturer     string         `json:"manufacturer,omitempty"`
	Specifications   []string       `json:"specifications,omitempty"`
	Resources        []Resource     `json:"resources,omitempty"`
}

// Position implements geo.Locatable.
func (d *Device) Position() geo.Coordinate {
	return d.Coordinates
}

// Precision returns the device's own geohash precision, or fallback when the
// device does not set one.
func (d *Device) Precision(fallback int) int {
	if d.GeohashPrecision != nil {
		return *d.GeohashPrecision
	}
	return fallback
}

// UpdateGeohash recomputes Geohash from Coordinates.
func (d *Device) UpdateGeohash(defaultPrecision int) error {
	hash, err := geo.EncodeCoordinate(d.Coordinates, d.Precision(defaultPrecision))
	if err != nil {
		return err
	}
	d.Geohash = hash
	return nil
}

// MoveTo sets new coordinates and keeps the geohash in sync.
func (d *Device) MoveTo(c geo.Coordinate, defaultPrecision int) error {
	d.Coordinates = c
	return d.UpdateGeohash(defaultPrecision)
}

// Touch records that the device was just seen.
func (d *Device) Touch(now time.Time) {
	d.LastSeen = now.UTC()
}

// Clone returns a deep copy, so repositories never hand out their own state.
func (d *Device) Clone() *Device {
	if d == nil {
		return nil
	}
	c := *d
	if d.GeohashPrecision != nil {
		p := *d.GeohashPrecision
		c.GeohashPrecision = &p
	}
	c.SystemStats = d.SystemStats.clone()
	if d.Specifications != nil {
		c.Specifications = append([]string(nil), d.Specifications...)
	}
	if d.Resources != nil {
		c.Resources = append([]Resource(nil), d.Resources...)
	}
	return &c
}

func (s SystemStats) clone() SystemStats {
	c := s
	if s.CPUFrequency != nil {
		v := *s.CPUFrequency
		c.CPUFrequency = &v
	}
	if s.RAMUsed != nil {
		v := *s.RAMUsed
		c.RAMUsed = &v
	}
	if s.RAMTotal != nil {
		v := *s.RAMTotal
		c.RAMTotal = &v
	}
	if s.LastUpdated != nil {
		v := *s.LastUpdated
		c.LastUpdated = &v
	}
	return c
}

// Validate checks the invariants a stored record must hold.
func (d *Device) Validate() error {
	switch {
	case strings.TrimSpace(d.ID) == "":
		return fmt.Errorf("%w: id is required", ErrInvalidDevice)
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidDevice)
	case strings.TrimSpace(d.DeviceType) == "":
		return fmt.Errorf("%w: deviceType is required", ErrInvalidDevice)
	case !d.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidDevice, d.Status)
	case !d.Coordinates.Valid():
		return fmt.Errorf("%w: coordinates (%v, %v) out of range", ErrInvalidDevice, d.Coordinates.Lat, d.Coordinates.Lng)
	}
	if d.GeohashPrecision != nil && !geo.ValidPrecision(*d.GeohashPrecision) {
		return fmt.Errorf("%w: geohashPrecision %d out of range", ErrInvalidDevice, *d.GeohashPrecision)
	}
	if err := d.SystemStats.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks that percentages are within 0-100 and uptime is not negative.
func (s SystemStats) Validate() error {
	if s.CPUUsage < 0 || s.CPUUsage > 100 {
		return fmt.Errorf("%w: cpuUsage %v out of range", ErrInvalidDevice, s.CPUUsage)
	}
	if s.RAMUsage < 0 || s.RAMUsage > 100 {
		return fmt.Errorf("%w: ramUsage %v out of range", ErrInvalidDevice, s.RAMUsage)
	}
	if s.Uptime < 0 {
		return fmt.Errorf("%w: uptime %v is negative", ErrInvalidDevice, s.Uptime)
	}
	return nil
}
