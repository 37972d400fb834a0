// Package file implements DeviceRepository on top of a single JSON file.
//
// Every call reads the whole file and every write replaces it atomically
// (temp file + rename), so the file on disk is always a complete JSON array.
// The mutex serializes access within one process only.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"devicemap/internal/domain/entities"
	"devicemap/internal/repository"
)

// ErrCorruptFile is returned when the devices file is not a JSON array of
// devices.
var ErrCorruptFile = errors.New("devices file is corrupt")

type DeviceRepository struct {
	mu   sync.RWMutex
	path string
}

var _ repository.DeviceRepository = (*DeviceRepository)(nil)

// NewDeviceRepository opens the devices file at path. A missing file is
// created holding seed (or an empty array when seed is empty).
func NewDeviceRepository(path string, seed []*entities.Device) (*DeviceRepository, error) {
	r := &DeviceRepository{path: path}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		return r, nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("stat devices file: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	if seed == nil {
		seed = []*entities.Device{}
	}
	if err := r.write(seed); err != nil {
		return nil, err
	}

	log.Info().
		Str("path", path).
		Int("devices", len(seed)).
		Msg("Initialized devices file")
	return r, nil
}

// Path returns the backing file path.
func (r *DeviceRepository) Path() string {
	return r.path
}

func (r *DeviceRepository) List(ctx context.Context) ([]*entities.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.read()
}

func (r *DeviceRepository) GetByID(ctx context.Context, id string) (*entities.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	devices, err := r.read()
	if err != nil {
		return nil, err
	}
	if i := indexOf(devices, id); i >= 0 {
		return devices[i], nil
	}
	return nil, repository.ErrDeviceNotFound
}

func (r *DeviceRepository) Create(ctx context.Context, device *entities.Device) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := device.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	devices, err := r.read()
	if err != nil {
		return err
	}
	if indexOf(devices, device.ID) >= 0 {
		return fmt.Errorf("%w: %s", repository.ErrDeviceExists, device.ID)
	}
	return r.write(append(devices, device.Clone()))
}

func (r *DeviceRepository) Update(ctx context.Context, device *entities.Device) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := device.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	devices, err := r.read()
	if err != nil {
		return err
	}
	i := indexOf(devices, device.ID)
	if i < 0 {
		return repository.ErrDeviceNotFound
	}
	devices[i] = device.Clone()
	return r.write(devices)
}

func (r *DeviceRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	devices, err := r.read()
	if err != nil {
		return err
	}
	i := indexOf(devices, id)
	if i < 0 {
		return repository.ErrDeviceNotFound
	}
	return r.write(append(devices[:i], devices[i+1:]...))
}

func (r *DeviceRepository) read() ([]*entities.Device, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read devices file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []*entities.Device{}, nil
	}

	var devices []*entities.Device
	if err := json.Unmarshal(data, &devices); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptFile, r.path, err)
	}
	out := devices[:0]
	for _, d := range devices {
		if d != nil {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *DeviceRepository) write(devices []*entities.Device) error {
	data, err := json.MarshalIndent(devices, "", "  ")
	if err != nil {
		return fmt.Errorf("encode devices: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".devices-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace devices file: %w", err)
	}

	log.Debug().
		Str("path", r.path).
		Int("devices", len(devices)).
		Msg("Wrote devices file")
	return nil
}

func indexOf(devices []*entities.Device, id string) int {
	for i, d := range devices {
		if d.ID == id {
			return i
		}
	}
	return -1
}
