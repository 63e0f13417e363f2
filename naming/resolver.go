// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package naming

import (
	"maps"
	"slices"
)

// Resolver looks up a token value by key.
// The bool result is false for unknown keys; known keys may resolve to nil.
type Resolver interface {
	ResolveField(key string) (any, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(key string) (any, bool)

// ResolveField implements Resolver.
func (f ResolverFunc) ResolveField(key string) (any, bool) {
	return f(key)
}

// Table maps token keys to field accessors of one record type.
type Table[T any] map[string]func(T) any

// Resolve returns the accessor result for key.
func (t Table[T]) Resolve(record T, key string) (any, bool) {
	accessor, ok := t[key]
	if !ok {
		return nil, false
	}

	return accessor(record), true
}

// Bind returns a Resolver reading fields of record.
func (t Table[T]) Bind(record T) Resolver {
	return ResolverFunc(func(key string) (any, bool) {
		return t.Resolve(record, key)
	})
}

// Keys returns table keys in sorted order.
func (t Table[T]) Keys() []string {
	return slices.Sorted(maps.Keys(t))
}
