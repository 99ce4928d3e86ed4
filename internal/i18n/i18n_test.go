// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestTag(t *testing.T) {
	tests := []struct {
		name string
		loc  string
		want language.Tag
	}{
		{"BCP 47 tag", "de-DE", language.MustParse("de-DE")},
		{"POSIX locale", "de_DE.UTF-8", language.MustParse("de-DE")},
		{"POSIX locale with modifier", "fr_FR@euro", language.MustParse("fr-FR")},
		{"language only", "ja", language.Japanese},
		{"invalid locale", "not a locale!", Fallback},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Tag(tc.loc); got != tc.want {
				t.Errorf("expected tag to be %s, got %s", tc.want, got)
			}
		})
	}
	t.Run("empty locale is detected", func(t *testing.T) {
		t.Setenv("LANGUAGE", "")
		t.Setenv("LC_ALL", "es_ES.UTF-8")
		if got := Tag(""); got == language.Und {
			t.Error("expected a defined language tag")
		}
	})
}
