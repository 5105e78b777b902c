// Package naming derives parameter and accessor identifiers from member names.
package naming

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EscapeMarker prefixes identifiers that would otherwise be Go keywords.
const EscapeMarker = "_"

// Named is anything with a display name, such as a parser.Member.
type Named interface {
	DisplayName() string
}

// ParameterName returns the parameter form of m's name.
func ParameterName(m Named) string {
	return ToParameterName(m.DisplayName())
}

// AccessorName returns the accessor form of m's name.
func AccessorName(m Named) string {
	return ToAccessorName(m.DisplayName())
}

// ToParameterName lower-cases the first letter of name. A leading escape
// marker is kept and the letter after it is lower-cased instead. Keywords
// are escaped.
func ToParameterName(name string) string {
	marker, rest := splitMarker(name)
	converted := marker + mapFirst(rest, unicode.ToLower)
	return escape(converted)
}

// ToAccessorName upper-cases the first letter of name. Accessors are
// exported, so a leading escape marker is dropped; no upper-cased name is a
// keyword.
func ToAccessorName(name string) string {
	_, rest := splitMarker(name)
	return escape(mapFirst(rest, unicode.ToUpper))
}

// ReceiverName picks a short receiver identifier for typeName.
func ReceiverName(typeName string) string {
	_, rest := splitMarker(typeName)
	r, _ := utf8.DecodeRuneInString(rest)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return "x"
	}
	return escape(string(unicode.ToLower(r)))
}

// ConstructorName returns NewT for exported types and newT otherwise.
func ConstructorName(typeName string) string {
	if token.IsExported(typeName) {
		return "New" + typeName
	}
	_, rest := splitMarker(typeName)
	return "new" + mapFirst(rest, unicode.ToUpper)
}

func splitMarker(name string) (marker, rest string) {
	if name == "" {
		panic("naming: empty identifier")
	}
	if strings.HasPrefix(name, EscapeMarker) && len(name) > len(EscapeMarker) {
		return EscapeMarker, name[len(EscapeMarker):]
	}
	return "", name
}

func mapFirst(s string, f func(rune) rune) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(f(r)) + s[size:]
}

func escape(name string) string {
	if token.IsKeyword(name) {
		return EscapeMarker + name
	}
	return name
}
