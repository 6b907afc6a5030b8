package openapi

import (
	"encoding/json"
	"fmt"
	"os"
)

// MarshalJSON serializes the spec to indented JSON bytes after checking that
// every component reference resolves.
func MarshalJSON(spec *Spec) ([]byte, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(spec, "", "  ")
}

// WriteJSON serializes the spec and writes it to filename.
func WriteJSON(spec *Spec, filename string) error {
	data, err := MarshalJSON(spec)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("write spec: %w", err)
	}
	return nil
}
