// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// localeNames maps supported locale codes to the language name used in
// generation prompts.
var localeNames = map[string]string{
	"en": "English",
	"fr": "French",
	"es": "Spanish",
	"de": "German",
}

// IsValidLocale reports whether the code is one the service can
// generate content for.
func IsValidLocale(code string) bool {
	_, ok := localeNames[code]
	return ok
}

// LanguageName returns the prompt-facing language name for a locale
// code, or the code itself if unknown.
func LanguageName(code string) string {
	if name, ok := localeNames[code]; ok {
		return name
	}
	return code
}

// DefaultLocales returns the locale set used for clients that have not
// configured their own.
func DefaultLocales() []string {
	return []string{"en", "fr"}
}
