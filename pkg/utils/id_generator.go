// Package utils provides shared helpers used across the application.
//
// Go Learning Note: "pkg/" Directory Convention
// Code under pkg/ is intended to be importable by external projects (unlike
// internal/ which is compiler-enforced private). This is a community convention,
// not a Go language feature.
package utils

import "github.com/google/uuid"

// DeviceIDPrefix prefixes every generated device ID.
const DeviceIDPrefix = "device-"

// GenerateID creates a new random (v4) UUID string.
//
// Go Learning Note: "github.com/google/uuid"
// uuid.New() creates a v4 UUID like "550e8400-e29b-41d4-a716-446655440000".
// IDs can be minted without coordination; collisions are astronomically
// unlikely (1 in 2^122).
func GenerateID() string {
	return uuid.New().String()
}

// GenerateDeviceID returns "device-<uuid>".
func GenerateDeviceID() string {
	return DeviceIDPrefix + GenerateID()
}
