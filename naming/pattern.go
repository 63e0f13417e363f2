// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

/*
Package naming evaluates filename templates against metadata records.

A template is literal text with tokens of the form {key} or {key:width}.
Each key is resolved through a Resolver. Values with a width that are
integers (or all-digit strings) are zero-padded; everything else is
sanitized down to [0-9a-zA-Z&!] words joined by the separator. Literal
template text, including "/", is kept verbatim.

	opts := naming.Options{Separator: "-"}
	name := naming.Evaluate(record, "{publisher-name}/{series-name}_#{number:3}", opts)
*/
package naming

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// DefaultSeparator joins sanitized words when Options.Separator is empty.
const DefaultSeparator = "-"

// tokenPattern matches {key} and {key:width}.
var tokenPattern = regexp.MustCompile(`{(?P<key>[a-zA-Z-]+)(?::(?P<width>\d+))?}`)

// Options configures template evaluation.
type Options struct {
	// Logger receives unknown token warnings; nil uses slog.Default.
	Logger *slog.Logger
	// Separator replaces spaces in sanitized values.
	Separator string
}

// applyDefaults fills zero-valued options.
func (opts *Options) applyDefaults() {
	if opts.Separator == "" {
		opts.Separator = DefaultSeparator
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
}

// Evaluate resolves every token of template against r. Unknown keys are
// logged and substituted by the key text. A leading "/" is stripped from the
// result. Evaluation never fails.
func Evaluate(r Resolver, template string, opts Options) string {
	opts.applyDefaults()

	out := tokenPattern.ReplaceAllStringFunc(template, func(token string) string {
		match := tokenPattern.FindStringSubmatch(token)
		key, width := match[1], match[2]

		if r == nil {
			opts.Logger.Warn("unknown naming token", slog.String("key", key))
			return key
		}

		value, ok := r.ResolveField(key)
		if !ok {
			opts.Logger.Warn("unknown naming token", slog.String("key", key))
			return key
		}

		if width != "" {
			if n, ok := asInt(value); ok {
				w, _ := strconv.Atoi(width)
				return fmt.Sprintf("%0*d", w, n)
			}
		}

		return SanitizeValue(value, opts.Separator)
	})

	return strings.TrimLeft(out, "/")
}

// Tokens returns keys referenced by template in order of appearance.
func Tokens(template string) []string {
	matches := tokenPattern.FindAllStringSubmatch(template, -1)
	keys := make([]string, 0, len(matches))
	for _, match := range matches {
		keys = append(keys, match[1])
	}

	return keys
}

// UnknownTokens returns keys of template that r cannot resolve.
func UnknownTokens(r Resolver, template string) []string {
	var unknown []string
	for _, key := range Tokens(template) {
		if r == nil {
			unknown = append(unknown, key)
			continue
		}
		if _, ok := r.ResolveField(key); !ok {
			unknown = append(unknown, key)
		}
	}

	return unknown
}

// asInt reports integer value of ints and all-digit strings.
func asInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint32:
		return int64(v), true
	case *int:
		if v == nil {
			return 0, false
		}
		return int64(*v), true
	case string:
		if v == "" || strings.TrimLeft(v, "0123456789") != "" {
			return 0, false
		}
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
