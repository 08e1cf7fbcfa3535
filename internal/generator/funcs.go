package generator

import (
	"strings"
	"text/template"
	"unicode"

	"github.com/google/uuid"

	"structscan/internal/config"
	"structscan/internal/model"
)

// recordNamespace seeds typeID so that IDs are stable across runs.
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("structscan:record"))

// templateFuncs returns custom template functions.
func templateFuncs(cfg *config.Config) template.FuncMap {
	return template.FuncMap{
		// Type mapping
		"mapType": func(t model.TypeRef) string {
			return mapType(cfg, t)
		},

		// String manipulation
		"camelCase":  camelCase,
		"pascalCase": pascalCase,
		"snakeCase":  snakeCase,
		"kebabCase":  kebabCase,
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
		"trim":       strings.TrimSpace,
		"replace":    strings.ReplaceAll,
		"hasPrefix":  strings.HasPrefix,
		"hasSuffix":  strings.HasSuffix,

		// Type helpers
		"isPrimitive":     func(t model.TypeRef) bool { return t.IsPrimitive },
		"isParameterized": func(t model.TypeRef) bool { return t.IsParameterized },
		"isNamed":         func(t model.TypeRef) bool { return t.Kind() == model.KindNamed },
		"isOptional":      isOptional,
		"isRecord":        isRecord,
		"param":           func(t model.TypeRef) string { return t.Parameter },
		"typeArgs":        typeArgs,
		"baseName":        baseName,

		// Record helpers
		"typeID": typeID,
		"nested": nestedRecords,

		// List helpers
		"join":     strings.Join,
		"contains": containsStr,

		// Conditional helpers
		"default": defaultValue,
		"ternary": ternary,

		// Comment formatting
		"comment":    formatComment,
		"docComment": formatDocComment,

		// Misc
		"notLast": func(i, length int) bool { return i < length-1 },
	}
}

// mapType maps a C/C++ type to the target language type.
func mapType(cfg *config.Config, t model.TypeRef) string {
	// Check for exact raw match first
	if mapped := cfg.MapType(t.Raw); mapped != t.Raw {
		return mapped
	}

	raw := strings.TrimSpace(strings.TrimPrefix(t.Raw, "const "))
	if mapped := cfg.MapType(raw); mapped != raw {
		return mapped
	}

	// Arrays, pointers and references
	if i := strings.LastIndexByte(raw, '['); i > 0 && strings.HasSuffix(raw, "]") && !t.IsParameterized {
		elem := strings.TrimSpace(raw[:i])
		if elem == "char" || elem == "wchar_t" {
			// Fixed-size character buffers hold strings.
			return cfg.MapType("std::string")
		}
		return arrayOf(mapType(cfg, model.Classify(elem)))
	}
	if strings.HasSuffix(raw, "&") {
		return mapType(cfg, model.Classify(strings.TrimSuffix(raw, "&")))
	}
	if strings.HasSuffix(raw, "*") {
		return mapType(cfg, model.Classify(strings.TrimSuffix(raw, "*"))) + " | null"
	}

	// Handle container templates
	if t.IsParameterized {
		args := typeArgs(t)
		mapped := make([]string, len(args))
		for i, a := range args {
			mapped[i] = mapType(cfg, model.Classify(a))
		}
		name := baseName(t)
		switch name {
		case "vector", "array", "list", "deque", "forward_list", "set", "unordered_set", "multiset", "span":
			if len(mapped) > 0 {
				return arrayOf(mapped[0])
			}
		case "map", "unordered_map", "multimap":
			if len(mapped) == 2 {
				return "Record<" + mapped[0] + ", " + mapped[1] + ">"
			}
		case "optional", "unique_ptr", "shared_ptr", "weak_ptr":
			if len(mapped) > 0 {
				return mapped[0] + " | null"
			}
		case "pair", "tuple":
			return "[" + strings.Join(mapped, ", ") + "]"
		}
		return name + "<" + strings.Join(mapped, ", ") + ">"
	}

	if t.IsPrimitive {
		if strings.Contains(raw, "bool") {
			return "boolean"
		}
		return "number"
	}

	// Default: use the unqualified type name
	return baseName(t)
}

func arrayOf(elem string) string {
	if strings.ContainsAny(elem, " |") {
		return "(" + elem + ")[]"
	}
	return elem + "[]"
}

// baseName returns the unqualified name of a type: "std::vector<int>"
// becomes "vector" and "const ns::Point*" becomes "Point".
func baseName(t model.TypeRef) string {
	name := t.Raw
	if i := strings.IndexByte(name, '<'); i >= 0 && t.IsParameterized {
		name = name[:i]
	}
	name = strings.TrimRight(name, "*& ")
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// typeArgs splits the template arguments of t at top-level commas.
func typeArgs(t model.TypeRef) []string {
	if !t.IsParameterized {
		return nil
	}
	var (
		args  []string
		depth int
		start int
	)
	p := t.Parameter
	for i, r := range p {
		switch r {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(p[start:i]))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(p[start:]); last != "" {
		args = append(args, last)
	}
	return args
}

// isOptional checks if a type may be absent (pointer or nullable wrapper).
func isOptional(t model.TypeRef) bool {
	if t.IsParameterized {
		switch baseName(t) {
		case "optional", "unique_ptr", "shared_ptr", "weak_ptr":
			return true
		}
		return false
	}
	return strings.HasSuffix(t.Raw, "*")
}

// isRecord reports whether t names a record in reg.
func isRecord(reg *model.Registry, t model.TypeRef) bool {
	if reg == nil || t.IsParameterized {
		return false
	}
	_, ok := reg.Lookup(baseName(t))
	return ok
}

// typeID returns a stable UUID for a record name.
func typeID(name string) string {
	return uuid.NewSHA1(recordNamespace, []byte(name)).String()
}

// camelCase converts to camelCase.
func camelCase(s string) string {
	if s == "" {
		return s
	}
	pascal := pascalCase(s)
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// pascalCase converts to PascalCase.
func pascalCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		if len(word) > 0 {
			runes := []rune(word)
			runes[0] = unicode.ToUpper(runes[0])
			for j := 1; j < len(runes); j++ {
				runes[j] = unicode.ToLower(runes[j])
			}
			words[i] = string(runes)
		}
	}
	return strings.Join(words, "")
}

// snakeCase converts to snake_case.
func snakeCase(s string) string {
	return joinLower(s, "_")
}

// kebabCase converts to kebab-case.
func kebabCase(s string) string {
	return joinLower(s, "-")
}

func joinLower(s, sep string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, sep)
}

// splitWords splits an identifier into words. Handles camelCase,
// PascalCase, snake_case and trailing-underscore members like "id_".
func splitWords(s string) []string {
	var words []string
	var current []rune

	runes := []rune(s)
	for i, r := range runes {
		if r == '_' || r == '-' || r == ' ' {
			if len(current) > 0 {
				words = append(words, string(current))
				current = nil
			}
			continue
		}

		if unicode.IsUpper(r) && i > 0 {
			// Check if this is the start of a new word
			prev := runes[i-1]
			if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				(unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				if len(current) > 0 {
					words = append(words, string(current))
					current = nil
				}
			}
		}

		current = append(current, r)
	}

	if len(current) > 0 {
		words = append(words, string(current))
	}

	return words
}

// formatComment formats a comment with a prefix.
func formatComment(comment, prefix string) string {
	if comment == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(comment), "\n")
	var result []string
	for _, line := range lines {
		result = append(result, prefix+strings.TrimSpace(line))
	}
	return strings.Join(result, "\n")
}

// formatDocComment formats a documentation comment for TypeScript.
func formatDocComment(comment string) string {
	if comment == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(comment), "\n")
	if len(lines) == 1 {
		return "/** " + strings.TrimSpace(lines[0]) + " */"
	}
	var result []string
	result = append(result, "/**")
	for _, line := range lines {
		result = append(result, " * "+strings.TrimSpace(line))
	}
	result = append(result, " */")
	return strings.Join(result, "\n")
}

// containsStr checks if a slice contains a string.
func containsStr(slice []string, s string) bool {
	for _, item := range slice {
		if item == s {
			return true
		}
	}
	return false
}

// defaultValue returns the first non-empty value.
func defaultValue(val, def string) string {
	if val == "" {
		return def
	}
	return val
}

// ternary returns a if condition is true, else b.
func ternary(condition bool, a, b string) string {
	if condition {
		return a
	}
	return b
}
