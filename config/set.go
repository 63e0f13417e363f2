// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Set assigns a TOML value to a dotted key such as "output.format" and
// revalidates the result. Values that are not valid TOML are stored as
// strings. s is unchanged on error.
func (s *Settings) Set(key, value string) error {
	path := strings.Split(strings.TrimSpace(key), ".")
	for _, part := range path {
		if part == "" {
			return fmt.Errorf("%w: invalid key %q", ErrInvalidSettings, key)
		}
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tree := map[string]any{}
	if err := toml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	table := tree
	for _, part := range path[:len(path)-1] {
		next, ok := table[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			table[part] = next
		}
		table = next
	}
	table[path[len(path)-1]] = parseValue(value)

	if data, err = toml.Marshal(tree); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	var next Settings
	decoder := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := decoder.Decode(&next); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidSettings, key, err)
	}

	if err := next.normalize(); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}

	*s = next
	return nil
}

// parseValue decodes raw as a TOML value, falling back to the raw string.
func parseValue(raw string) any {
	var doc struct {
		Value any `toml:"value"`
	}
	if err := toml.Unmarshal([]byte("value = "+raw), &doc); err != nil || doc.Value == nil {
		return raw
	}

	return doc.Value
}
