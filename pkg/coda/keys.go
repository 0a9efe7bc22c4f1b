package coda

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// WireKey converts a snake_case identifier into the camelCase key used on the
// wire. The first segment is kept as-is; every following segment gets only
// its first letter upper-cased. WireKey("browser_link") == "browserLink" and
// WireKey("row_2x") == "row2x".
func WireKey(identifier string) string {
	if !strings.Contains(identifier, "_") {
		return identifier
	}

	segments := strings.Split(identifier, "_")

	var builder strings.Builder

	builder.Grow(len(identifier))
	builder.WriteString(segments[0])

	for _, segment := range segments[1:] {
		if segment == "" {
			continue
		}

		first, size := utf8.DecodeRuneInString(segment)
		builder.WriteRune(unicode.ToUpper(first))
		builder.WriteString(segment[size:])
	}

	return builder.String()
}
