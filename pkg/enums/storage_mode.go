package enums

import "fmt"

// StorageMode names the backing store a cart or favorites collection lives in.
type StorageMode string

const (
	// StorageModeRemote is the per-user collection kept in the database.
	StorageModeRemote StorageMode = "remote"
	// StorageModeLocal is the per-device collection kept in the key-value store.
	StorageModeLocal StorageMode = "local"
)

var validStorageModes = []StorageMode{
	StorageModeRemote,
	StorageModeLocal,
}

// String implements fmt.Stringer.
func (s StorageMode) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StorageMode.
func (s StorageMode) IsValid() bool {
	for _, candidate := range validStorageModes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStorageMode converts raw input into a StorageMode.
func ParseStorageMode(value string) (StorageMode, error) {
	for _, candidate := range validStorageModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid storage mode %q", value)
}
