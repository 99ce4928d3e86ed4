// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package i18n resolves the language used for localized output.
package i18n

import (
	"strings"

	"github.com/Xuanwo/go-locale"
	"golang.org/x/text/language"
)

// Fallback is used when no locale is configured and none can be detected.
var Fallback = language.English

// Tag returns the language tag for loc. An empty loc detects the system locale. POSIX locales
// like "de_DE.UTF-8" are accepted.
func Tag(loc string) language.Tag {
	loc = normalize(loc)
	if loc == "" {
		tag, err := locale.Detect()
		if err != nil || tag == language.Und {
			return Fallback
		}
		return tag
	}

	tag, err := language.Parse(loc)
	if err != nil {
		return Fallback
	}
	return tag
}

func normalize(loc string) string {
	loc = strings.TrimSpace(loc)
	if idx := strings.IndexAny(loc, ".@"); idx != -1 {
		loc = loc[:idx]
	}
	if loc == "C" || loc == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(loc, "_", "-")
}
