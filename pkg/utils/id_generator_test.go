package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateDeviceID(t *testing.T) {
	id := GenerateDeviceID()
	rest, ok := strings.CutPrefix(id, "device-")
	if !ok {
		t.Fatalf("Expected device- prefix, got %s", id)
	}
	if _, err := uuid.Parse(rest); err != nil {
		t.Errorf("Expected a UUID after the prefix, got %s: %v", rest, err)
	}
	if GenerateDeviceID() == id {
		t.Error("Expected unique IDs")
	}
}
