package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceLocks_SerializesSameID(t *testing.T) {
	locks := newDeviceLocks()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("device-001")
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
	assert.Zero(t, locks.size())
}

func TestDeviceLocks_IndependentIDs(t *testing.T) {
	locks := newDeviceLocks()

	unlockA := locks.lock("a")
	unlockB := locks.lock("b") // must not block on "a"
	assert.Equal(t, 2, locks.size())

	unlockA()
	unlockB()
	assert.Zero(t, locks.size())
}

func TestDeviceService_ConcurrentUpdatesKeepAllFields(t *testing.T) {
	env := setupDeviceService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("name-%d", i)
		location := fmt.Sprintf("location-%d", i)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := env.service.Update(ctx, "device-002", DeviceUpdate{Name: &name})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := env.service.Update(ctx, "device-002", DeviceUpdate{Location: &location})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	device, err := env.repo.GetByID(ctx, "device-002")
	require.NoError(t, err)
	assert.Regexp(t, `^name-\d+$`, device.Name)
	assert.Regexp(t, `^location-\d+$`, device.Location)
}
