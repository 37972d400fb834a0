// Package repository defines the device store contract shared by the file and
// memory implementations.
package repository

import (
	"context"
	"errors"

	"devicemap/internal/domain/entities"
)

var (
	ErrDeviceNotFound = errors.New("device not found")
	ErrDeviceExists   = errors.New("device already exists")
)

// DeviceRepository persists device records. Implementations return copies, so
// callers may mutate what they get back, and keep List in insertion order.
type DeviceRepository interface {
	List(ctx context.Context) ([]*entities.Device, error)
	GetByID(ctx context.Context, id string) (*entities.Device, error)
	Create(ctx context.Context, device *entities.Device) error
	Update(ctx context.Context, device *entities.Device) error
	Delete(ctx context.Context, id string) error
}
