package model

import (
	"strings"
)

// primitiveTypes is the fixed set of built-in scalar keywords and
// fixed-width aliases.
var primitiveTypes = map[string]bool{
	"int": true, "float": true, "double": true, "bool": true, "char": true,
	"short": true, "long": true, "unsigned": true, "signed": true, "void": true,
	"wchar_t": true, "char8_t": true, "char16_t": true, "char32_t": true,
	"size_t": true, "ssize_t": true, "ptrdiff_t": true,
	"intptr_t": true, "uintptr_t": true, "intmax_t": true, "uintmax_t": true,
	"int8_t": true, "int16_t": true, "int32_t": true, "int64_t": true,
	"uint8_t": true, "uint16_t": true, "uint32_t": true, "uint64_t": true,
}

// IsPrimitiveKeyword reports whether word is a built-in scalar keyword.
func IsPrimitiveKeyword(word string) bool {
	return primitiveTypes[word]
}

// Classify builds a TypeRef from raw type text. It never fails.
func Classify(raw string) TypeRef {
	raw = strings.Join(strings.Fields(raw), " ")
	t := TypeRef{Raw: raw}

	open, close := strings.Index(raw, "<"), strings.LastIndex(raw, ">")
	if open >= 0 && close > open && balancedAngles(raw) {
		t.IsParameterized = true
		t.Parameter = strings.TrimSpace(raw[open+1 : close])
	}

	// Template arguments count: std::vector<int> holds a scalar.
	for _, word := range identifiers(raw) {
		if primitiveTypes[word] {
			t.IsPrimitive = true
			break
		}
	}
	return t
}

// balancedAngles reports whether every '<' in s has a matching '>'.
func balancedAngles(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// identifiers splits s on every non-identifier character.
func identifiers(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
}
