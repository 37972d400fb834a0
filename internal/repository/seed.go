package repository

import (
	"time"

	"devicemap/internal/domain/entities"
	"devicemap/internal/geo"
)

// SeedDevices returns the demo devices written to a fresh devices file: three
// sensors around downtown Kingston, ON. Geohashes are computed at precision.
func SeedDevices(now time.Time, precision int) ([]*entities.Device, error) {
	now = now.UTC()
	devices := []*entities.Device{
		{
			ID:           "device-001",
			Name:         "Traffic Sensor Alpha",
			Status:       entities.DeviceStatusOnline,
			Coordinates:  geo.Coordinate{Lat: 44.2312, Lng: -76.4860},
			SystemStats:  entities.SystemStats{CPUUsage: 45, RAMUsage: 60, Temperature: 42, Uptime: 168.5},
			DeviceType:   "Traffic Sensor",
			Model:        "TS-2000X",
			Location:     "Princess St & Ontario St",
			LastSeen:     now,
			IPAddress:    "192.168.1.100",
			UserAgent:    "TrafficSensor/1.0",
			Manufacturer: "TechSensor Inc.",
			Specifications: []string{
				"Wireless connectivity: WiFi 802.11n",
				"Power: Solar panel with battery backup",
				"Range: 100m detection radius",
				"Weather resistant: IP67 rating",
			},
			Resources: []entities.Resource{
				{Name: "User Manual", Link: "https://example.com/manual"},
				{Name: "API Documentation", Link: "https://example.com/api"},
			},
		},
		{
			ID:           "device-002",
			Name:         "Environmental Monitor Beta",
			Status:       entities.DeviceStatusOnline,
			Coordinates:  geo.Coordinate{Lat: 44.2280, Lng: -76.4951},
			SystemStats:  entities.SystemStats{CPUUsage: 25, RAMUsage: 40, Temperature: 38, Uptime: 240.2},
			DeviceType:   "Environmental Sensor",
			Model:        "ENV-500",
			Location:     "Queen's University Campus",
			LastSeen:     now,
			IPAddress:    "192.168.1.101",
			UserAgent:    "EnvironmentalSensor/2.1",
			Manufacturer: "EcoTech Solutions",
			Specifications: []string{
				"Sensors: Temperature, Humidity, Air Quality",
				"Data logging: 1000 readings storage",
				"Connectivity: LoRaWAN",
				"Battery life: 2 years",
			},
			Resources: []entities.Resource{
				{Name: "Setup Guide", Link: "https://example.com/setup"},
				{Name: "Calibration Tool", Link: "https://example.com/calibration"},
			},
		},
		{
			ID:           "device-003",
			Name:         "Security Camera Gamma",
			Status:       entities.DeviceStatusOffline,
			Coordinates:  geo.Coordinate{Lat: 44.2350, Lng: -76.4800},
			SystemStats:  entities.SystemStats{CPUUsage: 80, RAMUsage: 85, Temperature: 55, Uptime: 72.1},
			DeviceType:   "Security Camera",
			Model:        "SC-HD-Pro",
			Location:     "City Hall Area",
			LastSeen:     now.Add(-time.Hour),
			IPAddress:    "192.168.1.102",
			UserAgent:    "SecurityCamera/3.0",
			Manufacturer: "SecureVision Corp",
			Specifications: []string{
				"Resolution: 4K Ultra HD",
				"Night vision: 50m infrared range",
				"Storage: 1TB local storage",
				"Streaming: H.264 compression",
			},
			Resources: []entities.Resource{
				{Name: "Installation Guide", Link: "https://example.com/install"},
				{Name: "Mobile App", Link: "https://example.com/mobile"},
			},
		},
	}

	for _, d := range devices {
		if err := d.UpdateGeohash(precision); err != nil {
			return nil, err
		}
	}
	return devices, nil
}
