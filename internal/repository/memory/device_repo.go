// Package memory holds an in-process DeviceRepository, used by tests and by
// the server when started with the memory store driver.
package memory

import (
	"context"
	"fmt"
	"sync"

	"devicemap/internal/domain/entities"
	"devicemap/internal/repository"
)

// DeviceRepository keeps devices in insertion order. It stores and returns
// clones, so the map never aliases caller-owned records.
//
// It maintains two data structures:
//   - order: device IDs in insertion order (List order)
//   - devices: ID → device (primary lookup)
type DeviceRepository struct {
	mu      sync.RWMutex
	order   []string
	devices map[string]*entities.Device
}

var _ repository.DeviceRepository = (*DeviceRepository)(nil)

// NewDeviceRepository creates a repository holding a copy of initial.
func NewDeviceRepository(initial ...*entities.Device) *DeviceRepository {
	r := &DeviceRepository{
		devices: make(map[string]*entities.Device, len(initial)),
	}
	for _, d := range initial {
		if _, exists := r.devices[d.ID]; exists {
			continue
		}
		r.order = append(r.order, d.ID)
		r.devices[d.ID] = d.Clone()
	}
	return r
}

func (r *DeviceRepository) List(ctx context.Context) ([]*entities.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]*entities.Device, 0, len(r.order))
	for _, id := range r.order {
		devices = append(devices, r.devices[id].Clone())
	}
	return devices, nil
}

func (r *DeviceRepository) GetByID(ctx context.Context, id string) (*entities.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	device, exists := r.devices[id]
	if !exists {
		return nil, repository.ErrDeviceNotFound
	}
	return device.Clone(), nil
}

func (r *DeviceRepository) Create(ctx context.Context, device *entities.Device) error {
	if err := device.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[device.ID]; exists {
		return fmt.Errorf("%w: %s", repository.ErrDeviceExists, device.ID)
	}
	r.order = append(r.order, device.ID)
	r.devices[device.ID] = device.Clone()
	return nil
}

func (r *DeviceRepository) Update(ctx context.Context, device *entities.Device) error {
	if err := device.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[device.ID]; !exists {
		return repository.ErrDeviceNotFound
	}
	r.devices[device.ID] = device.Clone()
	return nil
}

func (r *DeviceRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[id]; !exists {
		return repository.ErrDeviceNotFound
	}
	delete(r.devices, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count returns the number of stored devices.
func (r *DeviceRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
