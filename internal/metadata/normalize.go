// Package metadata converts raw, loosely-typed image records into
// well-typed Metadata values.
package metadata

import (
	"fmt"
	"math"

	"github.com/spf13/cast"

	"github.com/starford/lumen/internal/apperr"
	"github.com/starford/lumen/internal/models"
)

// Normalize validates and converts a raw metadata record. Required fields
// (name, width, height, file_location, file_size, item_type) must be present
// and well-shaped; optional fields stay nil when absent and are never
// defaulted to a sentinel. Pure function, no side effects.
func Normalize(raw map[string]any) (*models.Metadata, error) {
	if raw == nil {
		return nil, fmt.Errorf("metadata is missing: %w", apperr.ErrValidation)
	}

	name, err := requireString(raw, "name")
	if err != nil {
		return nil, err
	}
	fileLocation, err := requireString(raw, "file_location")
	if err != nil {
		return nil, err
	}
	itemType, err := requireString(raw, "item_type")
	if err != nil {
		return nil, err
	}
	width, err := requireInt(raw, "width")
	if err != nil {
		return nil, err
	}
	height, err := requireInt(raw, "height")
	if err != nil {
		return nil, err
	}
	fileSize, err := requireInt64(raw, "file_size")
	if err != nil {
		return nil, err
	}

	m := &models.Metadata{
		Name:         name,
		Width:        width,
		Height:       height,
		FileLocation: fileLocation,
		FileSize:     fileSize,
		ItemType:     itemType,
	}

	if m.DateCreated, err = optionalString(raw, "date_created"); err != nil {
		return nil, err
	}
	if m.Location, err = optionalString(raw, "location"); err != nil {
		return nil, err
	}
	if m.Latitude, err = optionalFloat(raw, "latitude"); err != nil {
		return nil, err
	}
	if m.Longitude, err = optionalFloat(raw, "longitude"); err != nil {
		return nil, err
	}

	return m, nil
}

func requireString(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", fmt.Errorf("field %q is missing: %w", key, apperr.ErrValidation)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q is not a string: %w", key, apperr.ErrValidation)
	}
	return s, nil
}

// requireInt coerces numeric shapes (JSON decoding yields float64) but
// rejects everything else: strings, bools, fractional values, negatives.
func requireInt(raw map[string]any, key string) (int, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("field %q is missing: %w", key, apperr.ErrValidation)
	}
	switch v.(type) {
	case string, bool:
		return 0, fmt.Errorf("field %q is not a number: %w", key, apperr.ErrValidation)
	}
	if f, isFloat := v.(float64); isFloat && f != math.Trunc(f) {
		return 0, fmt.Errorf("field %q is not an integer: %w", key, apperr.ErrValidation)
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("field %q is not a number: %w", key, apperr.ErrValidation)
	}
	if n < 0 {
		return 0, fmt.Errorf("field %q is negative: %w", key, apperr.ErrValidation)
	}
	return n, nil
}

func requireInt64(raw map[string]any, key string) (int64, error) {
	n, err := requireInt(raw, key)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

func optionalString(raw map[string]any, key string) (*string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("field %q is not a string: %w", key, apperr.ErrValidation)
	}
	return &s, nil
}

func optionalFloat(raw map[string]any, key string) (*float64, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch v.(type) {
	case string, bool:
		return nil, fmt.Errorf("field %q is not a number: %w", key, apperr.ErrValidation)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, fmt.Errorf("field %q is not a number: %w", key, apperr.ErrValidation)
	}
	return &f, nil
}
