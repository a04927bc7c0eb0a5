package cache

import (
	"encoding/json"
	"fmt"
)

// Marshal encodes a value into the JSON transport representation stored in
// the cache service.
func Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal cache value: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a cached JSON payload into dest.
func Unmarshal(data []byte, dest any) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal cache value: %w", err)
	}
	return nil
}
