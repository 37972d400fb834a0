package memory

import (
	"context"
	"testing"

	"devicemap/internal/domain/entities"
	"devicemap/internal/geo"
	"devicemap/internal/repository"
)

func newDevice(id string) *entities.Device {
	return &entities.Device{
		ID:          id,
		Name:        "Sensor " + id,
		Status:      entities.DeviceStatusOnline,
		Coordinates: geo.Coordinate{Lat: 44.2312, Lng: -76.4860},
		DeviceType:  "IoT Sensor",
	}
}

func TestDeviceRepository_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewDeviceRepository(newDevice("c"), newDevice("a"))

	if err := repo.Create(ctx, newDevice("b")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	devices, _ := repo.List(ctx)
	want := []string{"c", "a", "b"}
	for i, id := range want {
		if devices[i].ID != id {
			t.Errorf("List()[%d] = %s, want %s", i, devices[i].ID, id)
		}
	}

	if err := repo.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	devices, _ = repo.List(ctx)
	if len(devices) != 2 || devices[0].ID != "c" || devices[1].ID != "b" {
		t.Errorf("unexpected order after delete: %v", devices)
	}
	if repo.Count() != 2 {
		t.Errorf("Expected count 2, got %d", repo.Count())
	}
}

func TestDeviceRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	original := newDevice("a")
	repo := NewDeviceRepository(original)

	original.Name = "mutated after insert"
	got, _ := repo.GetByID(ctx, "a")
	if got.Name != "Sensor a" {
		t.Errorf("repository aliased the caller's device: %s", got.Name)
	}

	got.Name = "mutated after read"
	again, _ := repo.GetByID(ctx, "a")
	if again.Name != "Sensor a" {
		t.Errorf("repository handed out internal state: %s", again.Name)
	}
}

func TestDeviceRepository_Errors(t *testing.T) {
	ctx := context.Background()
	repo := NewDeviceRepository(newDevice("a"))

	if _, err := repo.GetByID(ctx, "missing"); err != repository.ErrDeviceNotFound {
		t.Errorf("GetByID error = %v, want ErrDeviceNotFound", err)
	}
	if err := repo.Update(ctx, newDevice("missing")); err != repository.ErrDeviceNotFound {
		t.Errorf("Update error = %v, want ErrDeviceNotFound", err)
	}
	if err := repo.Delete(ctx, "missing"); err != repository.ErrDeviceNotFound {
		t.Errorf("Delete error = %v, want ErrDeviceNotFound", err)
	}

	invalid := newDevice("b")
	invalid.Status = "unknown"
	if err := repo.Create(ctx, invalid); err == nil {
		t.Error("Expected validation error for unknown status")
	}
}
