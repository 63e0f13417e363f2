// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package naming

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
)

// unsafeChars matches runs outside the filename-safe set.
var unsafeChars = regexp.MustCompile(`[^0-9a-zA-Z&! ]+`)

// Sanitize restricts value to [0-9a-zA-Z&!] words joined by sep.
// Existing sep characters count as word breaks, so the result is stable
// under repeated application.
func Sanitize(value string, sep string) string {
	if value == "" {
		return ""
	}
	if sep != "" {
		value = strings.ReplaceAll(value, sep, " ")
	}

	value = unsafeChars.ReplaceAllString(value, "")
	value = strings.Join(strings.Fields(value), " ")
	return strings.ReplaceAll(value, " ", sep)
}

// SanitizeValue formats value and sanitizes it. Nil values become "".
// Times are formatted as 2006-01-02.
func SanitizeValue(value any, sep string) string {
	if isNil(value) {
		return ""
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		return SanitizeValue(rv.Elem().Interface(), sep)
	}

	switch v := value.(type) {
	case string:
		return Sanitize(v, sep)
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return Sanitize(v.Format(time.DateOnly), sep)
	case fmt.Stringer:
		return Sanitize(v.String(), sep)
	default:
		return Sanitize(fmt.Sprint(value), sep)
	}
}

// isNil reports nil interfaces and typed nil pointers.
func isNil(value any) bool {
	if value == nil {
		return true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
