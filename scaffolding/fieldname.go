package scaffolding

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldNamer binds a database identifier to the name generated code uses for it.
type FieldNamer interface {
	FieldName(column string) string
}

// FieldNamerFunc adapts a function to FieldNamer.
type FieldNamerFunc func(column string) string

func (f FieldNamerFunc) FieldName(column string) string {
	return f(column)
}

// commonInitialisms are rendered fully upper-cased, following Go naming conventions.
var commonInitialisms = map[string]bool{
	"api": true, "ascii": true, "cpu": true, "css": true, "dns": true,
	"eof": true, "guid": true, "html": true, "http": true, "https": true,
	"id": true, "ip": true, "json": true, "sql": true, "ssh": true,
	"tcp": true, "tls": true, "ttl": true, "udp": true, "ui": true,
	"uid": true, "uri": true, "url": true, "utf8": true, "uuid": true,
	"xml": true,
}

type casesFieldNamer struct {
	tag language.Tag
}

// DefaultFieldNamer converts snake_case, kebab-case and spaced identifiers to
// exported Go names, so "user_id" becomes "UserID".
func DefaultFieldNamer() FieldNamer {
	return casesFieldNamer{tag: language.Und}
}

func (n casesFieldNamer) FieldName(column string) string {
	words := strings.FieldsFunc(column, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})

	// Casers keep transformation state, so each call gets its own.
	title := cases.Title(n.tag, cases.NoLower)

	var b strings.Builder

	for _, word := range words {
		lower := strings.ToLower(word)
		if commonInitialisms[lower] {
			b.WriteString(strings.ToUpper(lower))
			continue
		}

		// Fully upper-cased words such as "USER" are lowered first; camelCase words keep their humps.
		if word == strings.ToUpper(word) {
			word = lower
		}

		b.WriteString(title.String(word))
	}

	name := b.String()
	if name == "" {
		return "Field"
	}

	if first := []rune(name)[0]; unicode.IsDigit(first) {
		name = "Field" + name
	}

	return name
}
