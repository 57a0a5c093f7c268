// Package names converts between field names, attribute names and tag names.
package names

import (
	"fmt"
	"strings"
	"unicode"
)

// Hyphenate converts a camelCase field name to its attribute form:
// every upper-case letter becomes "-" followed by its lower-case form.
//
//	Hyphenate("maxValue") == "max-value"
func Hyphenate(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Pascalize converts a hyphenated tag name to PascalCase.
//
//	Pascalize("fun-stepper") == "FunStepper"
func Pascalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	upper := true
	for _, r := range name {
		if r == '-' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// reservedTags are hyphenated names that predate custom elements and may
// not be defined.
var reservedTags = map[string]bool{
	"annotation-xml":   true,
	"color-profile":    true,
	"font-face":        true,
	"font-face-src":    true,
	"font-face-uri":    true,
	"font-face-format": true,
	"font-face-name":   true,
	"missing-glyph":    true,
}

// ValidateTagName reports whether tag is a valid custom element name: it must
// start with a lower-case ASCII letter, contain a hyphen, contain no
// upper-case ASCII letters or whitespace, and not be reserved.
func ValidateTagName(tag string) error {
	if tag == "" {
		return fmt.Errorf("tag name is empty")
	}
	if tag[0] < 'a' || tag[0] > 'z' {
		return fmt.Errorf("tag name %q must start with a lower-case letter", tag)
	}
	if !strings.Contains(tag, "-") {
		return fmt.Errorf("tag name %q must contain a hyphen", tag)
	}
	for _, r := range tag {
		switch {
		case r >= 'A' && r <= 'Z':
			return fmt.Errorf("tag name %q must not contain upper-case letters", tag)
		case unicode.IsSpace(r) || r == '/' || r == '>' || r == '=':
			return fmt.Errorf("tag name %q contains invalid character %q", tag, r)
		}
	}
	if reservedTags[tag] {
		return fmt.Errorf("tag name %q is reserved", tag)
	}
	return nil
}
